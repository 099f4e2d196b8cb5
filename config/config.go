// Package config loads the YAML process configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Config is the whole process configuration.
type Config struct {
	Http struct {
		Port           int           `yaml:"port"`
		Timeout        time.Duration `yaml:"timeout"`
		MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	} `yaml:"http"`
	Artifacts struct {
		BaseDir string `yaml:"base_dir"`
	} `yaml:"artifacts"`
	Downloads struct {
		Capacity int           `yaml:"capacity"`
		TTL      time.Duration `yaml:"ttl"`
	} `yaml:"downloads"`
	Log LogConfig `yaml:"log"`
}

// LogConfig configures the console logger and the rotated log file.
// An empty File disables the file output.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Default returns the configuration used for keys the file omits.
func Default() *Config {
	cfg := &Config{}
	cfg.Http.Port = 8501
	cfg.Http.Timeout = 30 * time.Second
	cfg.Http.MaxUploadBytes = 10 << 20
	cfg.Artifacts.BaseDir = "."
	cfg.Downloads.Capacity = 128
	cfg.Downloads.TTL = 15 * time.Minute
	cfg.Log = LogConfig{
		Level:      "info",
		File:       "logs/app.log",
		MaxSizeMB:  50,
		MaxBackups: 3,
		MaxAgeDays: 28,
	}
	return cfg
}

// Load reads path on top of Default and validates the result.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	config := Default()
	if err := yaml.NewDecoder(file).Decode(config); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// Validate rejects out-of-range ports, sizes and durations and unknown
// log levels.
func (c *Config) Validate() error {
	if c.Http.Port <= 0 || c.Http.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", c.Http.Port)
	}
	if c.Http.Timeout <= 0 {
		return errors.New("http.timeout must be positive")
	}
	if c.Http.MaxUploadBytes <= 0 {
		return errors.New("http.max_upload_bytes must be positive")
	}
	if c.Artifacts.BaseDir == "" {
		return errors.New("artifacts.base_dir is required")
	}
	if c.Downloads.Capacity <= 0 {
		return errors.New("downloads.capacity must be positive")
	}
	if c.Downloads.TTL <= 0 {
		return errors.New("downloads.ttl must be positive")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log.level %q", c.Log.Level)
	}
	return nil
}
