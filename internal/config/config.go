package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap/zapcore"

	"github.com/Azhovan/envflat"
	"github.com/Azhovan/envflat/internal/logging"
	"github.com/Azhovan/envflat/internal/normalize"
)

var inputFormats = []string{"json", "yaml", "yml", "toml"}

// Config aggregates runtime settings resolved from multiple sources.
// Precedence: CLI flags > Environment variables > Defaults
type Config struct {
	Input     string
	Format    string // Input format; empty means infer from the file extension
	Separator string
	Prefix    string
	Output    envflat.Format
	Sanitize  bool
	LogLevel  string
}

// envConfig is the ENVFLAT_* environment layer.
type envConfig struct {
	Format    string `env:"ENVFLAT_FORMAT"`
	Separator string `env:"ENVFLAT_SEPARATOR"`
	Prefix    string `env:"ENVFLAT_PREFIX"`
	Output    string `env:"ENVFLAT_OUTPUT"`
	Sanitize  bool   `env:"ENVFLAT_SANITIZE"`
	LogLevel  string `env:"ENVFLAT_LOG_LEVEL"`
}

// CLIOverrides holds command-line values. Nil pointers were not given.
type CLIOverrides struct {
	Input     string
	Format    *string
	Separator *string
	Prefix    *string
	Output    *string
	Sanitize  *bool
	LogLevel  *string
}

// Load resolves configuration with precedence:
// CLI flags > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	if err := applyEnvConfig(&cfg); err != nil {
		return Config{}, err
	}

	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config that reproduces plain NAME=VALUE output.
func defaultConfig() Config {
	return Config{
		Separator: normalize.DefaultSeparator,
		Output:    envflat.FormatEnv,
		LogLevel:  logging.DefaultLevel,
	}
}

// applyEnvConfig applies ENVFLAT_* variables. Empty values leave the default in place.
func applyEnvConfig(cfg *Config) error {
	var ec envConfig
	if err := parseEnv(&ec); err != nil {
		return err
	}

	if ec.Format != "" {
		cfg.Format = ec.Format
	}
	if ec.Separator != "" {
		cfg.Separator = ec.Separator
	}
	if ec.Prefix != "" {
		cfg.Prefix = ec.Prefix
	}
	if ec.Output != "" {
		cfg.Output = envflat.Format(ec.Output)
	}
	if ec.Sanitize {
		cfg.Sanitize = true
	}
	if ec.LogLevel != "" {
		cfg.LogLevel = ec.LogLevel
	}
	return nil
}

// parseEnv populates cfg from environment variables using caarlos0/env.
func parseEnv(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.Input != "" {
		cfg.Input = overrides.Input
	}
	if overrides.Format != nil {
		cfg.Format = *overrides.Format
	}
	if overrides.Separator != nil {
		cfg.Separator = *overrides.Separator
	}
	if overrides.Prefix != nil {
		cfg.Prefix = *overrides.Prefix
	}
	if overrides.Output != nil {
		cfg.Output = envflat.Format(*overrides.Output)
	}
	if overrides.Sanitize != nil {
		cfg.Sanitize = *overrides.Sanitize
	}
	if overrides.LogLevel != nil {
		cfg.LogLevel = *overrides.LogLevel
	}
}

// Validate checks the final configuration and normalizes the output format.
func (c *Config) Validate() error {
	if c.Input == "" {
		return ErrMissingInput
	}
	if c.Separator == "" {
		return ErrInvalidSeparator
	}

	output, err := envflat.ParseFormat(string(c.Output))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	c.Output = output

	if c.Format != "" && !slices.Contains(inputFormats, strings.ToLower(c.Format)) {
		return fmt.Errorf("%w: %q (supported: json, yaml, toml)", ErrInvalidFormat, c.Format)
	}

	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	return nil
}

// FlattenOptions translates the naming settings into flatten options.
func (c Config) FlattenOptions() []envflat.Option {
	opts := []envflat.Option{
		envflat.WithSeparator(c.Separator),
		envflat.WithPrefix(c.Prefix),
	}
	if c.Sanitize {
		opts = append(opts, envflat.WithSanitizedNames())
	}
	return opts
}
