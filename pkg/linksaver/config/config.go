// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	DB      DBConfig      `mapstructure:"db"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Extract ExtractConfig `mapstructure:"extract"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig points at the SQLite database file.
type DBConfig struct {
	Path string `mapstructure:"path"`
}

// AuthConfig holds JWT signing settings.
type AuthConfig struct {
	JWTSecret     string `mapstructure:"jwt_secret"`
	TokenTTLHours int    `mapstructure:"token_ttl_hours"`
}

// ExtractConfig governs the metadata and summary extractors.
type ExtractConfig struct {
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	ReaderBaseURL  string `mapstructure:"reader_base_url"`
	UserAgent      string `mapstructure:"user_agent"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LINKSAVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("db.path", "linksaver.db")
	v.SetDefault("auth.token_ttl_hours", 24)
	v.SetDefault("extract.timeout_seconds", 5)
	v.SetDefault("extract.reader_base_url", "https://r.jina.ai/")
	v.SetDefault("extract.user_agent", "linksaver/0.1")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.DB.Path == "" {
		return fmt.Errorf("db.path must be set")
	}
	if c.Auth.TokenTTLHours <= 0 {
		return fmt.Errorf("auth.token_ttl_hours must be > 0")
	}
	if c.Extract.TimeoutSeconds <= 0 {
		return fmt.Errorf("extract.timeout_seconds must be > 0")
	}
	if c.Extract.ReaderBaseURL == "" {
		return fmt.Errorf("extract.reader_base_url must be set")
	}
	return nil
}

// TokenTTL converts the configured token lifetime into a duration.
func (c AuthConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

// Timeout converts the configured extractor timeout into a duration.
func (c ExtractConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
