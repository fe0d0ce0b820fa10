// Package confloader loads prefixkv configuration with koanf.
//
// Priority (highest to lowest):
//
//  1. Overrides (command-line flags)
//  2. Environment variables (PREFIXKV_ prefix)
//  3. YAML configuration file
//  4. Default values already present in the target struct
//
// Environment variables use a double underscore between sections so that
// keys containing underscores survive:
//
//	PREFIXKV_SERVER__KV__MAX_LINE_BYTES=4096  ->  server.kv.max_line_bytes
//
// Watcher reports writes to the configuration file using fsnotify.
package confloader
