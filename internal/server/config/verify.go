package config

import (
	"errors"
	"fmt"
	"net"

	"github.com/yndnr/prefixkv/internal/storage"
	"github.com/yndnr/prefixkv/internal/telemetry/logger"
)

// ErrInvalidConfig is wrapped by every error Verify returns.
var ErrInvalidConfig = errors.New("invalid config")

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func invalid(key, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, key, fmt.Sprintf(format, args...))
}

func verifyServer(cfg *ServerSection) error {
	if err := verifyAddr("server.kv.addr", cfg.KV.Addr); err != nil {
		return err
	}
	if cfg.KV.MaxLineBytes < 16 {
		return invalid("server.kv.max_line_bytes", "must be at least 16, got %d", cfg.KV.MaxLineBytes)
	}
	if cfg.KV.MaxConnections < 0 {
		return invalid("server.kv.max_connections", "must not be negative")
	}
	if cfg.KV.RateLimit < 0 {
		return invalid("server.kv.rate_limit", "must not be negative")
	}
	if cfg.KV.IdleTimeout < 0 {
		return invalid("server.kv.idle_timeout", "must not be negative")
	}
	if cfg.KV.WriteTimeout < 0 {
		return invalid("server.kv.write_timeout", "must not be negative")
	}

	if cfg.Metrics.Enabled {
		if err := verifyAddr("server.metrics.addr", cfg.Metrics.Addr); err != nil {
			return err
		}
		if cfg.Metrics.Addr == cfg.KV.Addr {
			return invalid("server.metrics.addr", "conflicts with server.kv.addr")
		}
	}
	return nil
}

func verifyAddr(key, addr string) error {
	if addr == "" {
		return invalid(key, "is required")
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return invalid(key, "%v", err)
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	if cfg.InitialCapacity < 1 {
		return invalid("storage.initial_capacity", "must be at least 1")
	}
	if cfg.MaxLoadFactor <= 0 {
		return invalid("storage.max_load_factor", "must be positive")
	}
	if _, err := storage.ParseConsistency(cfg.Consistency); err != nil {
		return invalid("storage.consistency", "%v", err)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return invalid("log.level", "unknown level %q", cfg.Level)
	}
	switch cfg.Format {
	case "", "json", "text":
	default:
		return invalid("log.format", "unknown format %q", cfg.Format)
	}
	return nil
}

// StoreConfig converts the storage section into a storage.Config.
func (cfg *ServerConfig) StoreConfig() (storage.Config, error) {
	mode, err := storage.ParseConsistency(cfg.Storage.Consistency)
	if err != nil {
		return storage.Config{}, err
	}
	return storage.Config{
		InitialCapacity: cfg.Storage.InitialCapacity,
		MaxLoadFactor:   cfg.Storage.MaxLoadFactor,
		Consistency:     mode,
	}, nil
}
