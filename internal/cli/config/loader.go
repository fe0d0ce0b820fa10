package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".prefixkv", "cli.yaml")
}

// Load loads CLI configuration from path. A missing file yields Default().
// Fields absent from the file keep their default values.
func Load(path string) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cli config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse cli config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path with owner-only permissions.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Overrides holds flag values explicitly set on the command line.
// Empty or zero fields leave the file value untouched.
type Overrides struct {
	Server      string
	Timeout     time.Duration
	Output      string
	HistoryFile string
}

// Merge applies overrides on top of cfg and returns cfg.
func Merge(cfg *CLIConfig, o Overrides) *CLIConfig {
	if o.Server != "" {
		cfg.Server = o.Server
	}
	if o.Timeout > 0 {
		cfg.Timeout = o.Timeout
	}
	if o.Output != "" {
		cfg.Output = o.Output
	}
	if o.HistoryFile != "" {
		cfg.HistoryFile = o.HistoryFile
	}
	return cfg
}
