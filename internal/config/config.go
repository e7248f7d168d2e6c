// Package config loads tabletop settings from an optional YAML file,
// TABLETOP_* environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/roach88/tabletop/internal/pick"
)

// Config holds all settings.
type Config struct {
	Seed     uint64         `mapstructure:"seed"`
	Database string         `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Playback PlaybackConfig `mapstructure:"playback"`
}

// LoggingConfig selects the log level and encoding.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// PlaybackConfig tunes the playback controller.
type PlaybackConfig struct {
	MaxRounds int    `mapstructure:"max_rounds"`
	Resolve   string `mapstructure:"resolve"`
}

// Policy parses Resolve.
func (p PlaybackConfig) Policy() (pick.Policy, error) {
	return pick.ParsePolicy(p.Resolve)
}

// EnvPrefix prefixes environment overrides: TABLETOP_PLAYBACK_MAX_ROUNDS.
const EnvPrefix = "TABLETOP"

// New returns a viper instance with defaults and environment overrides.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("seed", 1)
	v.SetDefault("database", "tabletop.db")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("playback.max_rounds", 10000)
	v.SetDefault("playback.resolve", "first")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads path, if given, on top of the defaults. An empty path uses
// defaults and environment only.
func Load(path string) (*Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return Decode(v)
}

// Decode unmarshals and validates the settings held by v.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings for values the controller would reject.
func (c *Config) Validate() error {
	var errs []error
	if c.Database == "" {
		errs = append(errs, errors.New("database must not be empty"))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown logging.level %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown logging.format %q", c.Logging.Format))
	}
	if c.Playback.MaxRounds <= 0 {
		errs = append(errs, fmt.Errorf("playback.max_rounds must be positive, got %d", c.Playback.MaxRounds))
	}
	if _, err := c.Playback.Policy(); err != nil {
		errs = append(errs, fmt.Errorf("playback.resolve: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
