package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Draft store backends.
const (
	DraftStoreMemory   = "memory"
	DraftStoreRedis    = "redis"
	DraftStorePostgres = "postgres"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv        string
	EncryptionKey string

	Log          LogConfig
	HTTP         HTTPConfig
	API          APIConfig
	Drafts       DraftConfig
	Redis        RedisConfig
	Postgres     PostgresConfig
	Cookies      CookieConfig
	Registration RegistrationConfig
	Telegram     TelegramConfig
	Uploads      UploadConfig
}

type LogConfig struct {
	Service string
	Level   string
}

type HTTPConfig struct {
	Addr string
}

// APIConfig points at the upstream marketplace API.
type APIConfig struct {
	BaseURL      string
	Timeout      time.Duration
	MediaBaseURL string
}

type DraftConfig struct {
	Store string
	TTL   time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PostgresConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type CookieConfig struct {
	Secure bool
}

type RegistrationConfig struct {
	SuccessRedirectDelay time.Duration
	LoginRedirectDelay   time.Duration
}

// TelegramConfig is optional. An empty token disables admin notifications.
type TelegramConfig struct {
	BotToken    string
	AdminChatID int64
}

type UploadConfig struct {
	MaxVideoSizeMB int64
}

// IsDev reports whether human-readable logging should be used.
func (c *Config) IsDev() bool {
	return c.AppEnv == "dev"
}

var bindings = map[string]string{
	"app.env":                             "APP_ENV",
	"encryption.key":                      "ENCRYPTION_KEY",
	"log.service":                         "SERVICE_NAME",
	"log.level":                           "LOG_LEVEL",
	"http.addr":                           "HTTP_ADDR",
	"api.base_url":                        "API_BASE_URL",
	"api.timeout":                         "API_TIMEOUT",
	"api.media_base_url":                  "MEDIA_BASE_URL",
	"drafts.store":                        "DRAFT_STORE",
	"drafts.ttl":                          "DRAFT_TTL",
	"redis.addr":                          "REDIS_ADDR",
	"redis.password":                      "REDIS_PASSWORD",
	"redis.db":                            "REDIS_DB",
	"postgres.url":                        "DATABASE_URL",
	"postgres.max_conns":                  "DATABASE_MAX_CONNS",
	"postgres.min_conns":                  "DATABASE_MIN_CONNS",
	"postgres.max_conn_lifetime":          "DATABASE_MAX_CONN_LIFETIME",
	"cookies.secure":                      "COOKIE_SECURE",
	"registration.success_redirect_delay": "SUCCESS_REDIRECT_DELAY",
	"registration.login_redirect_delay":   "LOGIN_REDIRECT_DELAY",
	"telegram.bot_token":                  "TELEGRAM_BOT_TOKEN",
	"telegram.admin_chat_id":              "TELEGRAM_ADMIN_CHAT_ID",
	"uploads.max_video_size_mb":           "MAX_VIDEO_SIZE_MB",
}

// Load loads configuration from the environment, optionally seeded by a .env file.
func Load() (*Config, error) {
	// A missing .env is fine; OS-set env vars are used instead.
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("could not bind %s: %w", key, err)
		}
	}

	v.SetDefault("app.env", "dev")
	v.SetDefault("log.service", "masar-web")
	v.SetDefault("http.addr", ":3000")
	v.SetDefault("api.base_url", "http://localhost:5000/api")
	v.SetDefault("api.timeout", "15s")
	v.SetDefault("api.media_base_url", "http://api.masar.work")
	v.SetDefault("drafts.store", DraftStoreMemory)
	v.SetDefault("drafts.ttl", "24h")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 0)
	v.SetDefault("postgres.max_conn_lifetime", "1h")
	v.SetDefault("cookies.secure", false)
	v.SetDefault("registration.success_redirect_delay", "2s")
	v.SetDefault("registration.login_redirect_delay", "500ms")
	v.SetDefault("uploads.max_video_size_mb", 100)

	cfg := Config{
		AppEnv:        v.GetString("app.env"),
		EncryptionKey: v.GetString("encryption.key"),
		Log: LogConfig{
			Service: v.GetString("log.service"),
			Level:   strings.ToLower(strings.TrimSpace(v.GetString("log.level"))),
		},
		HTTP:          HTTPConfig{Addr: v.GetString("http.addr")},
		API: APIConfig{
			BaseURL:      strings.TrimRight(v.GetString("api.base_url"), "/"),
			Timeout:      v.GetDuration("api.timeout"),
			MediaBaseURL: strings.TrimRight(v.GetString("api.media_base_url"), "/"),
		},
		Drafts: DraftConfig{
			Store: strings.ToLower(v.GetString("drafts.store")),
			TTL:   v.GetDuration("drafts.ttl"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Postgres: PostgresConfig{
			URL:             v.GetString("postgres.url"),
			MaxConns:        v.GetInt32("postgres.max_conns"),
			MinConns:        v.GetInt32("postgres.min_conns"),
			MaxConnLifetime: v.GetDuration("postgres.max_conn_lifetime"),
		},
		Cookies: CookieConfig{Secure: v.GetBool("cookies.secure")},
		Registration: RegistrationConfig{
			SuccessRedirectDelay: v.GetDuration("registration.success_redirect_delay"),
			LoginRedirectDelay:   v.GetDuration("registration.login_redirect_delay"),
		},
		Telegram: TelegramConfig{
			BotToken:    v.GetString("telegram.bot_token"),
			AdminChatID: v.GetInt64("telegram.admin_chat_id"),
		},
		Uploads: UploadConfig{MaxVideoSizeMB: v.GetInt64("uploads.max_video_size_mb")},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.API.BaseURL == "" {
		return errors.New("API_BASE_URL must not be empty")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive, got %s", c.API.Timeout)
	}
	if c.Drafts.TTL <= 0 {
		return fmt.Errorf("DRAFT_TTL must be positive, got %s", c.Drafts.TTL)
	}
	if c.Log.Level != "" {
		if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("unknown LOG_LEVEL %q", c.Log.Level)
		}
	}
	if c.Uploads.MaxVideoSizeMB <= 0 {
		return fmt.Errorf("MAX_VIDEO_SIZE_MB must be positive, got %d", c.Uploads.MaxVideoSizeMB)
	}

	switch c.Drafts.Store {
	case DraftStoreMemory:
	case DraftStoreRedis:
		if c.Redis.Addr == "" {
			return errors.New("REDIS_ADDR is required when DRAFT_STORE=redis")
		}
	case DraftStorePostgres:
		if c.Postgres.URL == "" {
			return errors.New("DATABASE_URL is required when DRAFT_STORE=postgres")
		}
		if c.Postgres.MaxConns <= 0 || c.Postgres.MinConns < 0 || c.Postgres.MinConns > c.Postgres.MaxConns {
			return fmt.Errorf("DATABASE_MIN_CONNS/DATABASE_MAX_CONNS out of range (%d/%d)", c.Postgres.MinConns, c.Postgres.MaxConns)
		}
	default:
		return fmt.Errorf("unknown DRAFT_STORE %q (want memory, redis or postgres)", c.Drafts.Store)
	}

	// Persistent drafts carry passwords, so they are sealed at rest.
	if c.Drafts.Store != DraftStoreMemory || c.EncryptionKey != "" {
		if c.EncryptionKey == "" {
			return fmt.Errorf("ENCRYPTION_KEY is required when DRAFT_STORE=%s", c.Drafts.Store)
		}
		if len(c.EncryptionKey) != 64 {
			return fmt.Errorf("ENCRYPTION_KEY must be a 64-character hex string (32 bytes), but got %d chars", len(c.EncryptionKey))
		}
	}

	if c.Telegram.BotToken != "" && c.Telegram.AdminChatID == 0 {
		return errors.New("TELEGRAM_ADMIN_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}
	return nil
}
