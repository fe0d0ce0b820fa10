// Package metric provides Prometheus metrics for prefixkv.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: Prometheus registry, server metrics and HTTP handler
//   - collector.go: Custom collector reading store statistics at scrape time
//
// Metrics include:
//
//   - Command latency histograms and per-result counters
//   - Connection gauges and counters
//   - Key, bucket and trie node gauges
//   - Rehash counter
//
// A nil *Registry is valid and records nothing, so components can be built
// without metrics in tests.
package metric
