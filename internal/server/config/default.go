package config

// Default configuration values.
const (
	DefaultKVAddr       = "0.0.0.0:6379"
	DefaultMaxLineBytes = 1 << 20
	DefaultMetricsAddr  = "127.0.0.1:9121"

	DefaultInitialCapacity = 8
	DefaultMaxLoadFactor   = 0.75
	DefaultConsistency     = "relaxed"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			KV: KVConfig{
				Addr:         DefaultKVAddr,
				MaxLineBytes: DefaultMaxLineBytes,
			},
			Metrics: MetricsConfig{
				Enabled: false,
				Addr:    DefaultMetricsAddr,
			},
		},
		Storage: StorageSection{
			InitialCapacity: DefaultInitialCapacity,
			MaxLoadFactor:   DefaultMaxLoadFactor,
			Consistency:     DefaultConsistency,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
