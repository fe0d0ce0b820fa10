// Package config provides the prefixkv-server configuration.
//
// This package defines the server configuration structure and validation:
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Validation of addresses, limits and enum values
//
// Configuration is loaded via internal/infra/confloader from a YAML file,
// PREFIXKV_ environment variables and command-line flags.
package config
