package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// clearEnv blanks every bound variable so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range bindings {
		t.Setenv(env, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, ":3000", cfg.HTTP.Addr)
	assert.Equal(t, "http://localhost:5000/api", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, DraftStoreMemory, cfg.Drafts.Store)
	assert.Equal(t, 24*time.Hour, cfg.Drafts.TTL)
	assert.Equal(t, 2*time.Second, cfg.Registration.SuccessRedirectDelay)
	assert.Equal(t, 500*time.Millisecond, cfg.Registration.LoginRedirectDelay)
	assert.Equal(t, int64(100), cfg.Uploads.MaxVideoSizeMB)
	assert.False(t, cfg.Cookies.Secure)
	assert.Equal(t, "masar-web", cfg.Log.Service)
	assert.Empty(t, cfg.Log.Level)
	assert.Equal(t, int32(10), cfg.Postgres.MaxConns)
	assert.Equal(t, time.Hour, cfg.Postgres.MaxConnLifetime)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("API_BASE_URL", "https://api.masar.example/api/")
	t.Setenv("DRAFT_STORE", "Redis")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("ENCRYPTION_KEY", testKey)
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("DRAFT_TTL", "2h")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_ADMIN_CHAT_ID", "-100200")
	t.Setenv("LOG_LEVEL", " Warn ")
	t.Setenv("SERVICE_NAME", "masar-web-eu")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsDev())
	assert.Equal(t, "https://api.masar.example/api", cfg.API.BaseURL)
	assert.Equal(t, DraftStoreRedis, cfg.Drafts.Store)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 2*time.Hour, cfg.Drafts.TTL)
	assert.True(t, cfg.Cookies.Secure)
	assert.Equal(t, int64(-100200), cfg.Telegram.AdminChatID)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "masar-web-eu", cfg.Log.Service)
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unknown draft store",
			env:     map[string]string{"DRAFT_STORE": "mongo"},
			wantErr: "unknown DRAFT_STORE",
		},
		{
			name:    "redis without key",
			env:     map[string]string{"DRAFT_STORE": "redis"},
			wantErr: "ENCRYPTION_KEY is required",
		},
		{
			name:    "postgres without url",
			env:     map[string]string{"DRAFT_STORE": "postgres", "ENCRYPTION_KEY": testKey},
			wantErr: "DATABASE_URL is required",
		},
		{
			name:    "short key",
			env:     map[string]string{"ENCRYPTION_KEY": "abcd"},
			wantErr: "64-character hex string",
		},
		{
			name:    "telegram without chat",
			env:     map[string]string{"TELEGRAM_BOT_TOKEN": "123:abc"},
			wantErr: "TELEGRAM_ADMIN_CHAT_ID",
		},
		{
			name:    "unknown log level",
			env:     map[string]string{"LOG_LEVEL": "chatty"},
			wantErr: "unknown LOG_LEVEL",
		},
		{
			name: "postgres pool bounds",
			env: map[string]string{
				"DRAFT_STORE":        "postgres",
				"DATABASE_URL":       "postgres://localhost/masar",
				"ENCRYPTION_KEY":     testKey,
				"DATABASE_MIN_CONNS": "20",
			},
			wantErr: "DATABASE_MIN_CONNS/DATABASE_MAX_CONNS",
		},
		{
			name:    "non-positive upload limit",
			env:     map[string]string{"MAX_VIDEO_SIZE_MB": "0"},
			wantErr: "MAX_VIDEO_SIZE_MB",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, strings.Contains(err.Error(), tc.wantErr), "got %q", err.Error())
		})
	}
}
