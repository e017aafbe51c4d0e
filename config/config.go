// Package config loads the engine configuration from file and environment.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// InputConfig names the normalized event tables to analyze. Either a single
// unified timeline or the separate access-log and change-document tables.
type InputConfig struct {
	// Timeline is a single pre-correlated event table. When set, AccessLog
	// and ChangeLog are ignored and the correlation stage is skipped.
	Timeline  string `mapstructure:"timeline"`
	AccessLog string `mapstructure:"access_log"`
	ChangeLog string `mapstructure:"change_log"`
	// Format of the input files: "csv" or "jsonl".
	Format string `mapstructure:"format" validate:"oneof=csv jsonl"`
}

// OutputConfig controls where the enriched table and run records go.
type OutputConfig struct {
	Dir string `mapstructure:"dir" validate:"required"`
	// Format of the exported table: "csv" or "jsonl".
	Format string `mapstructure:"format" validate:"oneof=csv jsonl"`
}

// Config holds all settings for one analysis run.
type Config struct {
	// SessionTimeout is the user+gap clustering timeout.
	SessionTimeout time.Duration `mapstructure:"session_timeout" validate:"gt=0"`
	// CorrelationTolerance is the nearest-match window for the change/access
	// join.
	CorrelationTolerance time.Duration `mapstructure:"correlation_tolerance" validate:"gt=0"`

	// CatalogOverlay is an optional YAML file merged over the built-in
	// reference catalog.
	CatalogOverlay string `mapstructure:"catalog_overlay"`

	Input  InputConfig  `mapstructure:"input"`
	Output OutputConfig `mapstructure:"output"`

	// DatabasePath is the SQLite file for run history. Empty disables
	// persistence.
	DatabasePath string `mapstructure:"database_path"`

	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
}

func setDefaults() {
	viper.SetDefault("session_timeout", "60m")
	viper.SetDefault("correlation_tolerance", "15m")
	viper.SetDefault("catalog_overlay", "")
	viper.SetDefault("input.timeline", "")
	viper.SetDefault("input.access_log", "")
	viper.SetDefault("input.change_log", "")
	viper.SetDefault("input.format", "csv")
	viper.SetDefault("output.dir", "./out")
	viper.SetDefault("output.format", "csv")
	viper.SetDefault("database_path", "")
	viper.SetDefault("log_level", "info")
}

func loadFromEnv() {
	viper.SetEnvPrefix("ARGUS")
	viper.AutomaticEnv()

	_ = viper.BindEnv("session_timeout", "ARGUS_SESSION_TIMEOUT")
	_ = viper.BindEnv("correlation_tolerance", "ARGUS_CORRELATION_TOLERANCE")
	_ = viper.BindEnv("catalog_overlay", "ARGUS_CATALOG_OVERLAY")
	_ = viper.BindEnv("input.timeline", "ARGUS_INPUT_TIMELINE")
	_ = viper.BindEnv("input.access_log", "ARGUS_INPUT_ACCESS_LOG")
	_ = viper.BindEnv("input.change_log", "ARGUS_INPUT_CHANGE_LOG")
	_ = viper.BindEnv("input.format", "ARGUS_INPUT_FORMAT")
	_ = viper.BindEnv("output.dir", "ARGUS_OUTPUT_DIR")
	_ = viper.BindEnv("output.format", "ARGUS_OUTPUT_FORMAT")
	_ = viper.BindEnv("database_path", "ARGUS_DATABASE_PATH")
	_ = viper.BindEnv("log_level", "ARGUS_LOG_LEVEL")
}

// LoadConfig loads configuration from config.yaml (working directory or
// ./config) and the environment, then validates it.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()
	loadFromEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, defaults and env vars apply.
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if c.Input.Timeline == "" && (c.Input.AccessLog == "") != (c.Input.ChangeLog == "") {
		return fmt.Errorf("config validation failed: access_log and change_log must both be set when no unified timeline is given")
	}
	return nil
}

// DatabaseFile resolves the run-history database path relative to the
// output directory when it is not absolute.
func (c *Config) DatabaseFile() string {
	if c.DatabasePath == "" || filepath.IsAbs(c.DatabasePath) {
		return c.DatabasePath
	}
	return filepath.Join(c.Output.Dir, c.DatabasePath)
}
