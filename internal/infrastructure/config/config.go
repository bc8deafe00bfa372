package config

import (
	"fmt"
	"strings"

	"github.com/markwash/meta/internal/infrastructure/logger"
	"github.com/spf13/viper"
)

// Config holds the modelgen configuration
type Config struct {
	Log      LogConfig
	Generate GenerateConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// GenerateConfig controls generated source files
type GenerateConfig struct {
	Header string // first line of every generated file
	Format bool   // run gofmt on the output
	Suffix string // output file suffix when no output path is given
}

// LoggerConfig converts the log section for the logger package
func (c LogConfig) LoggerConfig() *logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level = c.Level
	cfg.Format = c.Format
	cfg.Output = c.Output
	return cfg
}

// Load loads configuration from modelgen.toml and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with MODELGEN_ prefix (e.g., MODELGEN_LOG_LEVEL)
// 2. modelgen.toml in the first of paths that has one (default ".", "./config")
// 3. Built-in defaults
func Load(paths ...string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("modelgen")
	v.SetConfigType("toml")
	if len(paths) == 0 {
		paths = []string{".", "./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetDefault("generate.format", true)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("MODELGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Generate: GenerateConfig{
			Header: v.GetString("generate.header"),
			Format: v.GetBool("generate.format"),
			Suffix: v.GetString("generate.suffix"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stderr"
	}
	if cfg.Generate.Header == "" {
		cfg.Generate.Header = "// Code generated by modelgen. DO NOT EDIT."
	}
	if cfg.Generate.Suffix == "" {
		cfg.Generate.Suffix = "_gen.go"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	if !strings.HasPrefix(c.Generate.Header, "//") {
		return fmt.Errorf("generate.header must be a line comment")
	}
	if !strings.HasSuffix(c.Generate.Suffix, ".go") {
		return fmt.Errorf("generate.suffix must end in .go, got %q", c.Generate.Suffix)
	}
	return nil
}
