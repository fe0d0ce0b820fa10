// Package tests holds cross-package integration tests and benchmarks for
// prefixkv. It has no non-test code.
package tests
