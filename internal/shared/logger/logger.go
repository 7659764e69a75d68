package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultService tags every entry when Options.Service is empty.
const DefaultService = "masar-web"

// Options configures the root logger.
type Options struct {
	Service string
	// Level is a zerolog level name. Empty means debug in dev and info otherwise.
	Level string
	// Dev switches to the human-readable console writer.
	Dev bool
	// Out defaults to stderr.
	Out io.Writer
}

// New builds the root logger. Components derive theirs with
// With().Str("component", ...).
func New(opts Options) (zerolog.Logger, error) {
	level, err := ParseLevel(opts.Level, opts.Dev)
	if err != nil {
		return zerolog.Nop(), err
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	if opts.Dev {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	service := opts.Service
	if service == "" {
		service = DefaultService
	}

	zerolog.TimeFieldFormat = time.RFC3339
	return zerolog.New(out).
		Level(level).
		With().Timestamp().Str("service", service).Logger(), nil
}

// ParseLevel resolves a level name, falling back to the mode's default.
func ParseLevel(name string, dev bool) (zerolog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		if dev {
			return zerolog.DebugLevel, nil
		}
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}
