// Package config provides prefixkv-cli configuration.
//
//   - spec.go: CLIConfig struct (~/.prefixkv/cli.yaml)
//   - loader.go: loading, saving and flag merging
//
// Every field has a matching global flag; flags given on the command line
// take precedence over the file.
package config
