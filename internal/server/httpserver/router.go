package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/yndnr/prefixkv/internal/server/httpserver/handler"
	"github.com/yndnr/prefixkv/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Store backs /healthz and /stats.
	Store handler.StatusSource

	// Metrics backs /metrics. Nil serves the global Prometheus registry.
	Metrics *metric.Registry

	// Logger for request logging.
	Logger *slog.Logger

	// EnableAccessLog logs every request at info level.
	EnableAccessLog bool
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	if cfg == nil {
		cfg = &RouterConfig{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	h := handler.New(cfg.Store, cfg.Logger)

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", cfg.Metrics.Handler())
	mux.Handle("/", h)

	// Order: Recover -> RequestID -> AccessLog -> mux
	var root http.Handler = mux
	if cfg.EnableAccessLog {
		root = AccessLog(cfg.Logger)(root)
	}
	return Chain(root, Recover(cfg.Logger), RequestID())
}
