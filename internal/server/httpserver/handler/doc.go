// Package handler provides the HTTP handlers behind httpserver.
//
//   - health.go: liveness and consistency check
//   - stats.go: store statistics
package handler
