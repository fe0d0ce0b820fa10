// Package main provides the entry point for prefixkv-server.
//
// The server keeps every key in memory and serves:
//
//   - the line protocol (SET/GET/DEL/SCAN) on server.kv.addr
//   - optionally, /metrics, /healthz and /stats on server.metrics.addr
//
// Usage:
//
//	prefixkv-server [flags]
//	prefixkv-server --config /path/to/config.yaml --watch-config
//
// Configuration comes from defaults, the YAML file, PREFIXKV_ environment
// variables and flags, in increasing priority.
package main
