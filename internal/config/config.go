package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Calibration CalibrationConfig `mapstructure:"calibration"`
	Analytics   AnalyticsConfig   `mapstructure:"analytics"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// CalibrationConfig locates the tank calibration chart
type CalibrationConfig struct {
	FilePath string `mapstructure:"file_path"`
}

// AnalyticsConfig holds search analytics behavior
type AnalyticsConfig struct {
	RecentCapacity int `mapstructure:"recent_capacity"`
	RangeWidth     int `mapstructure:"range_width"`
}

// StorageConfig holds persistence configuration
type StorageConfig struct {
	Backend   string `mapstructure:"backend"`
	FilePath  string `mapstructure:"file_path"`
	DBPath    string `mapstructure:"db_path"`
	PebbleDir string `mapstructure:"pebble_dir"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
// A .env file in the working directory is applied first when present.
// An empty path skips the config file and uses defaults plus environment.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // ignore missing file

	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Enable environment variable override, e.g. HFO_TANK_STORAGE_BACKEND
	v.SetEnvPrefix("HFO_TANK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("calibration.file_path", "configs/calibration.yaml")

	v.SetDefault("analytics.recent_capacity", 20)
	v.SetDefault("analytics.range_width", 100)

	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.file_path", "./data/hfotank.json")
	v.SetDefault("storage.db_path", "./data/hfotank.db")
	v.SetDefault("storage.pebble_dir", "./data/pebble")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Calibration.FilePath == "" {
		return fmt.Errorf("calibration.file_path is required")
	}

	if c.Analytics.RecentCapacity < 1 {
		return fmt.Errorf("analytics.recent_capacity must be at least 1")
	}
	if c.Analytics.RangeWidth < 1 {
		return fmt.Errorf("analytics.range_width must be at least 1")
	}

	validBackends := map[string]bool{"file": true, "sqlite": true, "pebble": true, "memory": true}
	if !validBackends[c.Storage.Backend] {
		return fmt.Errorf("storage.backend must be one of: file, sqlite, pebble, memory")
	}
	switch c.Storage.Backend {
	case "file":
		if c.Storage.FilePath == "" {
			return fmt.Errorf("storage.file_path is required for the file backend")
		}
	case "sqlite":
		if c.Storage.DBPath == "" {
			return fmt.Errorf("storage.db_path is required for the sqlite backend")
		}
	case "pebble":
		if c.Storage.PebbleDir == "" {
			return fmt.Errorf("storage.pebble_dir is required for the pebble backend")
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
