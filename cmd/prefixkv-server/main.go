package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/prefixkv/internal/infra/buildinfo"
	"github.com/yndnr/prefixkv/internal/infra/confloader"
	"github.com/yndnr/prefixkv/internal/infra/shutdown"
	"github.com/yndnr/prefixkv/internal/server/config"
	"github.com/yndnr/prefixkv/internal/server/httpserver"
	"github.com/yndnr/prefixkv/internal/server/kvserver"
	"github.com/yndnr/prefixkv/internal/storage"
	"github.com/yndnr/prefixkv/internal/telemetry/logger"
	"github.com/yndnr/prefixkv/internal/telemetry/metric"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintf(c.App.Writer, "prefixkv-server %s\n", buildinfo.String())
	}

	return &cli.App{
		Name:    "prefixkv-server",
		Usage:   "In-memory key-value store with prefix scans",
		Version: buildinfo.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				EnvVars: []string{"PREFIXKV_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (overrides server.kv.addr)",
			},
			&cli.BoolFlag{
				Name:  "watch-config",
				Usage: "Reload log.level when the configuration file changes",
			},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	configFile := c.String("config")

	overrides := map[string]any{}
	if addr := c.String("addr"); addr != "" {
		overrides["server.kv.addr"] = addr
	}

	cfg, err := loadConfig(configFile, overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	info := buildinfo.Get()
	log.Info("starting prefixkv-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", configFile)

	var reg *metric.Registry
	if cfg.Server.Metrics.Enabled {
		reg = metric.NewRegistry()
	}

	store, err := initStorage(cfg, reg, log)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	shutdownHandler := shutdown.NewHandler(shutdownTimeout)

	// Hooks run in reverse registration order.
	kvSrv := kvserver.New(&kvserver.Config{
		Addr:           cfg.Server.KV.Addr,
		MaxLineBytes:   cfg.Server.KV.MaxLineBytes,
		MaxConnections: cfg.Server.KV.MaxConnections,
		RateLimit:      cfg.Server.KV.RateLimit,
		IdleTimeout:    cfg.Server.KV.IdleTimeout,
		WriteTimeout:   cfg.Server.KV.WriteTimeout,
	}, store, log.Slog(), kvserver.WithMetrics(reg))

	if err := kvSrv.Start(context.Background()); err != nil {
		return fmt.Errorf("start kv server: %w", err)
	}
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down kv server")
		return kvSrv.Shutdown(ctx)
	})

	if cfg.Server.Metrics.Enabled {
		httpSrv, err := startMetricsServer(cfg, store, reg, log)
		if err != nil {
			_ = kvSrv.Shutdown(context.Background())
			return fmt.Errorf("start metrics server: %w", err)
		}
		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			log.Info("shutting down metrics server")
			return httpSrv.Shutdown(ctx)
		})
	}

	if c.Bool("watch-config") && configFile != "" {
		watcher, err := watchConfig(configFile, log)
		if err != nil {
			log.Warn("config watch disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown(func(context.Context) error {
				return watcher.Stop()
			})
		}
	}

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from defaults, file, environment and
// flag overrides.
func loadConfig(configFile string, overrides map[string]any) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}
	if len(overrides) > 0 {
		opts = append(opts, confloader.WithOverrides(overrides))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// initLogger initializes the structured logger and installs it as default.
func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}

	logger.SetDefault(log)
	return log, nil
}

func initStorage(cfg *config.ServerConfig, reg *metric.Registry, log logger.Logger) (*storage.Store, error) {
	storeCfg, err := cfg.StoreConfig()
	if err != nil {
		return nil, err
	}

	opts := []storage.Option{storage.WithLogger(log.Slog())}
	if reg != nil {
		opts = append(opts, storage.WithMetrics(reg))
	}

	store := storage.New(storeCfg, opts...)
	log.Info("storage initialized",
		"initial_capacity", storeCfg.InitialCapacity,
		"max_load_factor", storeCfg.MaxLoadFactor,
		"consistency", string(storeCfg.Consistency))
	return store, nil
}

func startMetricsServer(cfg *config.ServerConfig, store *storage.Store, reg *metric.Registry, log logger.Logger) (*httpserver.Server, error) {
	ln, err := net.Listen("tcp", cfg.Server.Metrics.Addr)
	if err != nil {
		return nil, err
	}

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Store:   store,
		Metrics: reg,
		Logger:  log.Slog(),
	})
	srv := httpserver.New(cfg.Server.Metrics.Addr, router)

	go func() {
		log.Info("metrics server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server error", "error", err)
		}
	}()
	return srv, nil
}

// watchConfig reloads the configuration file on change and applies the new
// log level. Other settings need a restart.
func watchConfig(configFile string, log logger.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log.Slog()))
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(configFile); err != nil {
		_ = watcher.Stop()
		return nil, err
	}

	watcher.OnChange(func(path string) {
		cfg, err := loadConfig(configFile, nil)
		if err != nil {
			log.Warn("config reload failed", "path", path, "error", err)
			return
		}
		if old := logger.GetLevel(); old != cfg.Log.Level {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level changed", "from", old, "to", cfg.Log.Level)
		}
	})
	watcher.StartAsync()

	log.Info("watching config file", "path", configFile)
	return watcher, nil
}
