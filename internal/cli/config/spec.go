package config

import "time"

// CLIConfig is the configuration for prefixkv-cli.
type CLIConfig struct {
	Server      string        `yaml:"server"`
	Timeout     time.Duration `yaml:"timeout"`
	Output      string        `yaml:"output"` // table, json, yaml
	HistoryFile string        `yaml:"history_file"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Server:  "127.0.0.1:6379",
		Timeout: 2 * time.Second,
		Output:  "table",
	}
}
