// Package command provides CLI command definitions for prefixkv-cli.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: root command, global flags, settings resolution
//   - exec.go: one-shot command execution
//   - repl.go: interactive mode
//   - bench.go: single-connection and multi-connection benchmarks
//
// Running prefixkv-cli with no command starts the REPL; running it with
// arguments that are not a command sends them as one command line.
package command
