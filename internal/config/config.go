// Package config loads engine configuration from an env file or the
// environment.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the CLI needs to wire the engine.
type Config struct {
	// Local persistence
	DBPath string `mapstructure:"GOWELL_DB_PATH"`

	// Remote backend
	RemoteBaseURL string `mapstructure:"GOWELL_REMOTE_BASE_URL"`
	RemoteAPIKey  string `mapstructure:"GOWELL_REMOTE_API_KEY"`
	UserID        string `mapstructure:"GOWELL_USER_ID"`

	// Sync tuning
	SyncMaxAttempts    int `mapstructure:"GOWELL_SYNC_MAX_ATTEMPTS"`
	SyncBackoffSeconds int `mapstructure:"GOWELL_SYNC_BACKOFF_SECONDS"`

	// Logging
	LogFile string `mapstructure:"GOWELL_LOG_FILE"`
}

// BackoffBase converts the configured seconds; zero means use the engine
// default.
func (c *Config) BackoffBase() time.Duration {
	return time.Duration(c.SyncBackoffSeconds) * time.Second
}

// Load reads configuration from `.env` in path (optional) and the process
// environment. A missing file is not an error; missing keys fall back to
// engine defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("GOWELL_DB_PATH", "gowell.db")
	v.SetDefault("GOWELL_USER_ID", "local-user")

	// AutomaticEnv only resolves keys viper already knows about, so bind
	// every key explicitly for the env-only (no .env file) case.
	for _, key := range []string{
		"GOWELL_DB_PATH", "GOWELL_REMOTE_BASE_URL", "GOWELL_REMOTE_API_KEY",
		"GOWELL_USER_ID", "GOWELL_SYNC_MAX_ATTEMPTS",
		"GOWELL_SYNC_BACKOFF_SECONDS", "GOWELL_LOG_FILE",
	} {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
