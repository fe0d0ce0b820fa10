// Command prefixkv-cli is the command-line client for prefixkv.
//
// Usage:
//
//	prefixkv-cli [global flags] exec <command...>
//	prefixkv-cli [global flags] repl
//	prefixkv-cli [global flags] bench single --n 20000
//	prefixkv-cli [global flags] bench mt --threads 8 --ops 2000
//
// Global flags: --server/-s (env PREFIXKV_CLI_SERVER), --timeout,
// --output/-o and --config (default ~/.prefixkv/cli.yaml).
package main
