package config

import "time"

// ServerConfig is the root configuration for prefixkv-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	Storage StorageSection `koanf:"storage"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	KV      KVConfig      `koanf:"kv"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// KVConfig configures the line-protocol TCP server.
type KVConfig struct {
	Addr string `koanf:"addr"`

	// MaxLineBytes bounds a single request line, terminator excluded.
	MaxLineBytes int `koanf:"max_line_bytes"`

	// MaxConnections caps concurrent connections. 0 means unlimited.
	MaxConnections int `koanf:"max_connections"`

	// RateLimit is the per-connection command rate in commands/second.
	// 0 means unlimited.
	RateLimit float64 `koanf:"rate_limit"`

	IdleTimeout  time.Duration `koanf:"idle_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`
}

// StorageSection configures the in-memory store.
type StorageSection struct {
	InitialCapacity int     `koanf:"initial_capacity"`
	MaxLoadFactor   float64 `koanf:"max_load_factor"`

	// Consistency is "relaxed" or "strict".
	Consistency string `koanf:"consistency"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
