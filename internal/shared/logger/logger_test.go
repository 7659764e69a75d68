package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		name  string
		level string
		dev   bool
		want  zerolog.Level
	}{
		{"dev default", "", true, zerolog.DebugLevel},
		{"prod default", "", false, zerolog.InfoLevel},
		{"explicit", "warn", false, zerolog.WarnLevel},
		{"case and spaces", " ERROR ", true, zerolog.ErrorLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseLevel(tc.level, tc.dev)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := ParseLevel("loud", false)
	assert.Error(t, err)
}

func TestNew_JSONCarriesService(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Service: "masar-test", Level: "info", Out: &buf})
	require.NoError(t, err)

	log.Debug().Msg("hidden")
	log.Info().Str("component", "guard").Msg("visible")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry), "only the info entry is written")
	assert.Equal(t, "masar-test", entry["service"])
	assert.Equal(t, "guard", entry["component"])
	assert.Equal(t, "visible", entry["message"])
}

func TestNew_DefaultServiceAndBadLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Out: &buf})
	require.NoError(t, err)
	log.Info().Msg("hello")
	assert.Contains(t, buf.String(), `"service":"masar-web"`)

	_, err = New(Options{Level: "chatty"})
	assert.Error(t, err)
}
