// Package config loads runtime configuration from the environment, with
// sensible defaults for local runs. Command flags may override individual
// values.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the binaries need to wire themselves up.
type Config struct {
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"` // "json" or "text"

	PostgresDSN   string `mapstructure:"POSTGRES_DSN"`
	ClickhouseDSN string `mapstructure:"CLICKHOUSE_DSN"`

	Season       int    `mapstructure:"SEASON"`
	SeasonAnchor string `mapstructure:"SEASON_ANCHOR"` // date of week 1, YYYY-MM-DD

	BasePrice     float64 `mapstructure:"BASE_PRICE"`
	PriceFloor    float64 `mapstructure:"PRICE_FLOOR"`
	DecayFactor   float64 `mapstructure:"DECAY_FACTOR"`
	MomentumAlpha float64 `mapstructure:"MOMENTUM_ALPHA"`

	ServerAddr string `mapstructure:"SERVER_ADDR"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("POSTGRES_DSN", "")
	v.SetDefault("CLICKHOUSE_DSN", "")
	v.SetDefault("SEASON", 2025)
	v.SetDefault("SEASON_ANCHOR", "2025-09-05")
	v.SetDefault("BASE_PRICE", 100.0)
	v.SetDefault("PRICE_FLOOR", 1.0)
	v.SetDefault("DECAY_FACTOR", 0.995)
	v.SetDefault("MOMENTUM_ALPHA", 0.3)
	v.SetDefault("SERVER_ADDR", ":8080")

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if _, err := cfg.Anchor(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Anchor parses the week-1 anchor date.
func (c *Config) Anchor() (time.Time, error) {
	t, err := time.Parse("2006-01-02", c.SeasonAnchor)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse season anchor %q: %w", c.SeasonAnchor, err)
	}
	return t.UTC(), nil
}
