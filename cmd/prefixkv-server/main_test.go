package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig("", nil)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Server.KV.Addr != "0.0.0.0:6379" {
		t.Errorf("KV.Addr = %q, want 0.0.0.0:6379", cfg.Server.KV.Addr)
	}
}

func TestLoadConfig_FileAndOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	content := "server:\n  kv:\n    addr: \"127.0.0.1:7000\"\n    max_connections: 3\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path, map[string]any{"server.kv.addr": "127.0.0.1:7001"})
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Server.KV.Addr != "127.0.0.1:7001" {
		t.Errorf("KV.Addr = %q, want flag override", cfg.Server.KV.Addr)
	}
	if cfg.Server.KV.MaxConnections != 3 {
		t.Errorf("KV.MaxConnections = %d, want 3", cfg.Server.KV.MaxConnections)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(path, []byte("storage:\n  consistency: eventual\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(path, nil); err == nil {
		t.Error("loadConfig() accepted an unknown consistency mode")
	}
}

func TestNewApp_Flags(t *testing.T) {
	app := newApp()
	names := map[string]bool{}
	for _, f := range app.Flags {
		for _, n := range f.Names() {
			names[n] = true
		}
	}
	for _, want := range []string{"config", "addr", "watch-config"} {
		if !names[want] {
			t.Errorf("missing flag --%s", want)
		}
	}
	if app.Version == "" {
		t.Error("app.Version is empty")
	}
}
