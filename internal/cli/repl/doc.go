// Package repl provides the interactive mode of prefixkv-cli.
//
//   - repl.go: prompt loop; each line is sent to the server as one command
//   - completer.go: keyword lookup behind the local "help" command
//   - history.go: command history persistence
package repl
