package config

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Env             string `mapstructure:"ENV"`
	LogLevel        string `mapstructure:"LOG_LEVEL"`
	StorePath       string `mapstructure:"STORE_PATH"`
	DiseaseDataPath string `mapstructure:"DISEASE_DATA_PATH"`
	PageSize        int    `mapstructure:"PAGE_SIZE"`

	// AuditLogPath is optional; empty keeps the audit trail in the log only.
	AuditLogPath   string        `mapstructure:"AUDIT_LOG_PATH"`
	CommandTimeout time.Duration `mapstructure:"COMMAND_TIMEOUT"`
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"store":    "STORE_PATH",
	"diseases": "DISEASE_DATA_PATH",
}

// Load reads configuration from the environment and an optional .env file.
// Flags present in flags override both.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_PATH", "BV.txt")
	v.SetDefault("DISEASE_DATA_PATH", "du_lieu_benh.txt")
	v.SetDefault("PAGE_SIZE", 20)
	v.SetDefault("COMMAND_TIMEOUT", "5s")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("ENV")
	v.BindEnv("LOG_LEVEL")
	v.BindEnv("STORE_PATH")
	v.BindEnv("DISEASE_DATA_PATH")
	v.BindEnv("PAGE_SIZE")
	v.BindEnv("AUDIT_LOG_PATH")
	v.BindEnv("COMMAND_TIMEOUT")

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Level returns the parsed LOG_LEVEL.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Validate checks that the configuration can be used to open the queue.
func (c *Config) Validate() error {
	if c.StorePath == "" {
		return fmt.Errorf("STORE_PATH must not be empty")
	}
	if c.DiseaseDataPath == "" {
		return fmt.Errorf("DISEASE_DATA_PATH must not be empty")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.CommandTimeout < 0 {
		return fmt.Errorf("COMMAND_TIMEOUT must not be negative, got %s", c.CommandTimeout)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL %q is not a valid level: %w", c.LogLevel, err)
	}
	return nil
}
