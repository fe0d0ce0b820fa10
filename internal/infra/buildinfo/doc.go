// Package buildinfo provides build information for prefixkv.
//
// Values are injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/prefixkv/internal/infra/buildinfo.Version=v1.0.0 \
//	  -X github.com/yndnr/prefixkv/internal/infra/buildinfo.Commit=abc123"
//
// GoVersion falls back to the running toolchain version.
package buildinfo
