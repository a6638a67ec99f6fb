/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/ssargent/nasbench/pkg/logging"
	"github.com/ssargent/nasbench/pkg/metrics"
	"github.com/ssargent/nasbench/pkg/nasbench"
	"github.com/ssargent/nasbench/pkg/tfrecord"
)

// Config represents the nasbench configuration
type Config struct {
	Decoder Decoder `yaml:"decoder" toml:"decoder"`
	Scanner Scanner `yaml:"scanner" toml:"scanner"`
	Archive Archive `yaml:"archive" toml:"archive"`
	Logging Logging `yaml:"logging" toml:"logging"`
}

// Decoder contains frame decoder settings
type Decoder struct {
	MaxRecordSize uint64 `yaml:"max_record_size" toml:"max_record_size"`
	BufferSize    int    `yaml:"buffer_size" toml:"buffer_size"`
}

// Scanner contains record interpretation settings
type Scanner struct {
	SkipMalformed bool `yaml:"skip_malformed" toml:"skip_malformed"`
	Strict        bool `yaml:"strict" toml:"strict"`
}

// Archive contains settings for the record archive
type Archive struct {
	Dir string `yaml:"dir" toml:"dir"`
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Decoder: Decoder{
			MaxRecordSize: tfrecord.DefaultMaxRecordSize,
			BufferSize:    tfrecord.DefaultBufferSize,
		},
		Archive: Archive{
			Dir: "./archive",
		},
		Logging: Logging{
			Level:  "info",
			Format: string(logging.FormatConsole),
		},
	}
}

// LoadConfig loads configuration from the specified path. Files ending in
// .toml are read as TOML, everything else as YAML. Missing values keep their
// defaults.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if isTOML(configPath) {
		_, err = toml.Decode(string(data), config)
	} else {
		err = yaml.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path, in TOML when
// the path ends in .toml and YAML otherwise
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var data []byte
	if isTOML(configPath) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(config); err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		data = buf.Bytes()
	} else {
		var err error
		if data, err = yaml.Marshal(config); err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values that cannot be caught by the decoder
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch logging.Format(c.Logging.Format) {
	case logging.FormatConsole, logging.FormatJSON, "":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	if c.Decoder.BufferSize < 0 {
		return fmt.Errorf("decoder buffer size must not be negative: %d", c.Decoder.BufferSize)
	}
	return nil
}

// ScannerConfig builds the scanner settings described by c.
func (c *Config) ScannerConfig(logger *zerolog.Logger, m *metrics.Metrics) nasbench.ScannerConfig {
	return nasbench.ScannerConfig{
		Reader: tfrecord.ReaderConfig{
			MaxRecordSize: c.Decoder.MaxRecordSize,
			BufferSize:    c.Decoder.BufferSize,
			Metrics:       m,
			Logger:        logger,
		},
		SkipMalformed: c.Scanner.SkipMalformed,
		Strict:        c.Scanner.Strict,
	}
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./nasbench.yaml"
	}

	// For Linux/macOS, use ~/.config/nasbench/config.yaml
	configDir := filepath.Join(homeDir, ".config", "nasbench")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
