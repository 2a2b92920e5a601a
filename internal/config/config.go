// Package config loads and validates the application configuration from
// ~/.config/dedup/config.yaml. Command-line flags override file values;
// the resolved scanner.Config is immutable once a scan starts.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/fenilsonani/dedup/internal/scanner"
	"github.com/fenilsonani/dedup/pkg/utils"
)

// Config represents the application configuration
type Config struct {
	Recursive      bool   `yaml:"recursive"`
	FollowSymlinks bool   `yaml:"follow_symlinks"`
	HashAlgorithm  string `yaml:"hash_algorithm"`
	MinSize        string `yaml:"min_size"` // human-readable, e.g. "1KB"
	MaxSize        string `yaml:"max_size"` // empty means unlimited
	AllBytes       bool   `yaml:"all_bytes"`
	Workers        int    `yaml:"workers"` // 0 means auto
	DryRun         bool   `yaml:"dry_run"`
	Verbose        bool   `yaml:"verbose"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Recursive:     true,
		HashAlgorithm: string(scanner.SHA256),
		MinSize:       "0",
	}
}

// Load loads configuration from a file, falling back to defaults when the
// file does not exist.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Save saves configuration to a file
func Save(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := c.ScanConfig(); err != nil {
		return err
	}
	return nil
}

// ScanConfig resolves the file configuration into the engine's immutable
// scan configuration, parsing human-readable sizes and the algorithm name.
func (c *Config) ScanConfig() (scanner.Config, error) {
	sc := scanner.Config{
		Recursive:      c.Recursive,
		FollowSymlinks: c.FollowSymlinks,
		AllBytes:       c.AllBytes,
		Workers:        c.Workers,
	}

	algo, err := scanner.ParseAlgorithm(c.HashAlgorithm)
	if err != nil {
		return scanner.Config{}, err
	}
	sc.Algorithm = algo

	if c.MinSize != "" {
		min, err := utils.ParseSize(c.MinSize)
		if err != nil {
			return scanner.Config{}, fmt.Errorf("invalid min_size: %w", err)
		}
		sc.MinSize = min
	}
	if c.MaxSize != "" {
		max, err := utils.ParseSize(c.MaxSize)
		if err != nil {
			return scanner.Config{}, fmt.Errorf("invalid max_size: %w", err)
		}
		sc.MaxSize = max
	}

	if err := sc.Validate(); err != nil {
		return scanner.Config{}, err
	}
	return sc, nil
}

// GetConfigPath returns the default config path
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "dedup", "config.yaml"), nil
}
