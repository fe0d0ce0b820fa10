// Package output renders prefixkv-cli reports.
//
//   - formatter.go: Formatter interface and factory
//   - table.go: aligned text tables
//   - json.go, yaml.go: machine-readable output
//   - progress.go: operation counter for long benchmarks
package output
