package kvserver

import (
	"bufio"
	"context"
	"log/slog"
	"time"

	"github.com/yndnr/prefixkv/internal/telemetry/logger"
	"github.com/yndnr/prefixkv/internal/telemetry/metric"
)

// Store is the engine the command handler dispatches to.
type Store interface {
	Set(key, value string)
	Get(key string) (string, bool)
	Delete(key string) bool
	Scan(prefix string) []string
}

// CommandHandler executes parsed request lines against a Store.
type CommandHandler struct {
	store   Store
	metrics *metric.Registry
	logger  *slog.Logger
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(store Store, metrics *metric.Registry, logger *slog.Logger) *CommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommandHandler{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// Handle executes one non-blank, trimmed line and writes its reply to w.
// ctx carries the connection ID for logging.
func (h *CommandHandler) Handle(ctx context.Context, w *bufio.Writer, line string) error {
	start := time.Now()
	req := parseLine(line)

	var result string
	var err error
	switch req.name {
	case "SET":
		result, err = h.handleSet(w, req)
	case "GET":
		result, err = h.handleGet(w, req)
	case "DEL":
		result, err = h.handleDel(w, req)
	case "SCAN":
		result, err = h.handleScan(w, req)
	default:
		h.logger.Debug("unknown command", "conn_id", logger.ConnIDFromContext(ctx), "line", line)
		h.metrics.ObserveCommand("unknown", metric.ResultError, time.Since(start))
		return writeLine(w, ReplyUnknownCommand)
	}

	h.metrics.ObserveCommand(req.name, result, time.Since(start))
	return err
}

func (h *CommandHandler) handleSet(w *bufio.Writer, req request) (string, error) {
	if req.nargs < 2 {
		return metric.ResultError, writeLine(w, usage(req.name))
	}
	h.store.Set(req.arg, req.value)
	return metric.ResultOK, writeLine(w, ReplyOK)
}

func (h *CommandHandler) handleGet(w *bufio.Writer, req request) (string, error) {
	if req.nargs < 1 {
		return metric.ResultError, writeLine(w, usage(req.name))
	}
	v, ok := h.store.Get(req.arg)
	if !ok {
		return metric.ResultNil, writeLine(w, ReplyNil)
	}
	return metric.ResultOK, writeLine(w, v)
}

func (h *CommandHandler) handleDel(w *bufio.Writer, req request) (string, error) {
	if req.nargs < 1 {
		return metric.ResultError, writeLine(w, usage(req.name))
	}
	if !h.store.Delete(req.arg) {
		return metric.ResultNil, writeLine(w, ReplyNil)
	}
	return metric.ResultOK, writeLine(w, ReplyOK)
}

func (h *CommandHandler) handleScan(w *bufio.Writer, req request) (string, error) {
	if req.nargs < 1 {
		return metric.ResultError, writeLine(w, usage(req.name))
	}
	keys := h.store.Scan(req.arg)
	if len(keys) == 0 {
		return metric.ResultNil, writeLine(w, ReplyNil)
	}
	for _, k := range keys {
		if err := writeLine(w, k); err != nil {
			return metric.ResultOK, err
		}
	}
	return metric.ResultOK, nil
}
