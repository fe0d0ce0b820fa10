// Package httpserver provides the operational HTTP endpoint of prefixkv-server.
//
// It uses the Go standard library net/http and serves:
//
//   - GET /metrics: Prometheus exposition
//   - GET /healthz: liveness plus table/trie consistency check
//   - GET /stats: store sizes as JSON
//
// The key-value data itself is only reachable over the line protocol.
package httpserver
