// Package logger provides structured logging for prefixkv.
//
// It wraps log/slog:
//
//   - logger.go: handler selection (json or text), level parsing, global default
//   - context.go: connection IDs carried in a context
//   - redact.go: shortening of stored values before they reach the log
//
// The minimum level lives in a shared slog.LevelVar so it can be changed at
// runtime, for example when the config file is rewritten.
package logger
