// Package config provides configuration management for shardkit: YAML
// file load/save, default RS/SSS parameters, and the structured
// file-backed Logger used by cmd/shardkit.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/shardkit/shardkit/matrix"
)

// Config represents the application configuration.
type Config struct {
	Version  int           `yaml:"version"`
	Home     string        `yaml:"home"`
	RS       RSConfig      `yaml:"rs"`
	SSS      SSSConfig     `yaml:"sss"`
	Security SecurityConfig `yaml:"security"`
	Output   OutputConfig  `yaml:"output"`
	Logging  LoggingConfig `yaml:"logging"`
}

// RSConfig holds the default Reed-Solomon encoding parameters applied
// when a command doesn't override them with flags.
type RSConfig struct {
	DataShards   int    `yaml:"data_shards"`
	ParityShards int    `yaml:"parity_shards"`
	ShardSize    int    `yaml:"shard_size"`
	MatrixType   string `yaml:"matrix_type"` // "vandermonde" or "cauchy"
}

// ResolvedMatrixType maps the configured matrix type string to a
// matrix.Type, defaulting to Vandermonde for an empty or unrecognized
// value.
func (c RSConfig) ResolvedMatrixType() matrix.Type {
	if c.MatrixType == "cauchy" {
		return matrix.TypeCauchy
	}
	return matrix.TypeVandermonde
}

// SSSConfig holds the default Shamir Secret Sharing parameters.
type SSSConfig struct {
	Threshold     int `yaml:"threshold"`
	TotalShares   int `yaml:"total_shares"`
	SecretMaxSize int `yaml:"secret_max_size"`
}

// SecurityConfig defines security settings.
type SecurityConfig struct {
	MemoryLock bool `yaml:"memory_lock"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Color         string `yaml:"color"`
	Verbose       bool   `yaml:"verbose"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads configuration from the specified file.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to the specified file.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Path returns the default config file path.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// DefaultHome returns the default shardkit home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shardkit"
	}
	return filepath.Join(home, ".shardkit")
}
