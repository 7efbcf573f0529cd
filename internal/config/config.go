package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	ReplyLogFile     = "file"
	ReplyLogPostgres = "postgres"
	ReplyLogSQLite   = "sqlite"
)

type Config struct {
	Port               string        `envconfig:"PORT" default:"8080"`
	BaseURL            string        `envconfig:"BASE_URL" default:"http://localhost:8080"`
	GoogleClientID     string        `envconfig:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string        `envconfig:"GOOGLE_CLIENT_SECRET"`
	SessionSecret      string        `envconfig:"SESSION_SECRET" default:"175cd51c-b5e7-4218-81ed-e6832c8b53f1"`
	DatabaseURL        string        `envconfig:"DATABASE_URL"`
	AIProvider         string        `envconfig:"AI_PROVIDER" default:"gemini"`
	AIKey              string        `envconfig:"AI_API_KEY"`
	AIModel            string        `envconfig:"AI_MODEL"`
	AIBaseURL          string        `envconfig:"AI_BASE_URL"`
	AITimeout          time.Duration `envconfig:"AI_TIMEOUT" default:"60s"`
	Env                string        `envconfig:"ENV" default:"development"`

	SettingsPath   string `envconfig:"SETTINGS_PATH" default:"config.json"`
	ReplyLogDriver string `envconfig:"REPLY_LOG_DRIVER" default:"file"`
	ReplyLogPath   string `envconfig:"REPLY_LOG_PATH" default:"sent_replies.json"`
	SQLitePath     string `envconfig:"SQLITE_PATH" default:"mailbrief.db"`
}

func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	return &cfg, nil
}

// Validate checks everything the HTTP server needs.
func (c *Config) Validate() error {
	if c.GoogleClientID == "" {
		return fmt.Errorf("GOOGLE_CLIENT_ID is required")
	}
	if c.GoogleClientSecret == "" {
		return fmt.Errorf("GOOGLE_CLIENT_SECRET is required")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if err := c.ValidateCompletion(); err != nil {
		return err
	}
	return c.ValidateReplyLog()
}

// ValidateCompletion checks the keys needed to call the completion provider.
func (c *Config) ValidateCompletion() error {
	if c.AIKey == "" {
		return fmt.Errorf("AI_API_KEY is required")
	}
	return nil
}

func (c *Config) ValidateReplyLog() error {
	switch c.ReplyLogDriver {
	case ReplyLogFile, ReplyLogSQLite:
		return nil
	case ReplyLogPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when REPLY_LOG_DRIVER=%s", ReplyLogPostgres)
		}
		return nil
	default:
		return fmt.Errorf("unsupported REPLY_LOG_DRIVER: %s", c.ReplyLogDriver)
	}
}
