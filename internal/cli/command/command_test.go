package command

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/prefixkv/internal/cli/connection"
	"github.com/yndnr/prefixkv/internal/server/kvserver"
	"github.com/yndnr/prefixkv/internal/storage"
)

func startServer(t *testing.T) string {
	t.Helper()
	cfg := kvserver.DefaultConfig()
	cfg.Addr = "127.0.0.1:0"

	srv := kvserver.New(cfg, storage.New(storage.DefaultConfig()), nil)
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv.Addr().String()
}

// runApp runs the CLI against addr with an isolated config file.
func runApp(t *testing.T, addr, stdin string, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	app := App()
	app.Writer = out
	app.ErrWriter = &bytes.Buffer{}
	app.Reader = strings.NewReader(stdin)

	full := []string{"prefixkv-cli", "--config", filepath.Join(t.TempDir(), "cli.yaml"), "--server", addr}
	full = append(full, args...)
	err := app.Run(full)
	return out.String(), err
}

func TestApp(t *testing.T) {
	app := App()
	if app.Name != "prefixkv-cli" {
		t.Errorf("Name = %q, want prefixkv-cli", app.Name)
	}

	names := make(map[string]bool)
	for _, cmd := range app.Commands {
		names[cmd.Name] = true
	}
	for _, name := range []string{"exec", "repl", "bench"} {
		if !names[name] {
			t.Errorf("missing command: %s", name)
		}
	}

	flags := make(map[string]bool)
	for _, f := range app.Flags {
		flags[f.Names()[0]] = true
	}
	for _, name := range []string{"config", "server", "timeout", "output"} {
		if !flags[name] {
			t.Errorf("missing flag: %s", name)
		}
	}
}

func TestExec(t *testing.T) {
	addr := startServer(t)

	if out, err := runApp(t, addr, "", "exec", "SET", "greeting", "hello", "world"); err != nil || out != "+OK\n" {
		t.Fatalf("exec SET = %q, %v", out, err)
	}
	out, err := runApp(t, addr, "", "exec", "GET", "greeting")
	if err != nil {
		t.Fatal(err)
	}
	if out != "hello world\n" {
		t.Errorf("exec GET = %q, want %q", out, "hello world\n")
	}
}

func TestExec_Missing(t *testing.T) {
	addr := startServer(t)
	out, err := runApp(t, addr, "", "exec", "GET", "nothing")
	if err != nil {
		t.Fatal(err)
	}
	if out != "(nil)\n" {
		t.Errorf("exec GET = %q, want (nil)", out)
	}
}

func TestExec_NoArgs(t *testing.T) {
	if _, err := runApp(t, "127.0.0.1:1", "", "exec"); err == nil {
		t.Error("exec without arguments should fail")
	}
}

func TestRootAction_ExecutesArgs(t *testing.T) {
	addr := startServer(t)
	out, err := runApp(t, addr, "", "SET", "a", "1")
	if err != nil {
		t.Fatal(err)
	}
	if out != "+OK\n" {
		t.Errorf("output = %q, want +OK", out)
	}
}

func TestREPL(t *testing.T) {
	addr := startServer(t)
	out, err := runApp(t, addr, "SET user:1 alice\nSET user:2 bob\nSCAN user:\nquit\n", "repl")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "user:1\nuser:2\n") {
		t.Errorf("repl output = %q", out)
	}
	if strings.Count(out, "prefixkv> ") != 4 {
		t.Errorf("repl prompts = %d, want 4", strings.Count(out, "prefixkv> "))
	}
}

func TestREPL_SaveHistory(t *testing.T) {
	addr := startServer(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "cli.yaml")
	historyPath := filepath.Join(dir, "history")
	if err := os.WriteFile(cfgPath, []byte("history_file: "+historyPath+"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	app := App()
	app.Writer = &bytes.Buffer{}
	app.Reader = strings.NewReader("GET a\nexit\n")
	if err := app.Run([]string{"prefixkv-cli", "--config", cfgPath, "-s", addr, "repl", "--save-history"}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(historyPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "GET a\n" {
		t.Errorf("history = %q", data)
	}
}

func TestSettings_ConfigFileAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte("server: 10.1.1.1:7000\noutput: yaml\ntimeout: 9s\n"), 0600); err != nil {
		t.Fatal(err)
	}

	var got *Settings
	app := App()
	app.Commands = nil
	app.Action = func(c *cli.Context) error {
		got = GetSettings(c)
		return nil
	}
	if err := app.Run([]string{"prefixkv-cli", "--config", path, "-o", "json"}); err != nil {
		t.Fatal(err)
	}

	if got.Server != "10.1.1.1:7000" {
		t.Errorf("Server = %q, want value from file", got.Server)
	}
	if got.Timeout != 9*time.Second {
		t.Errorf("Timeout = %v, want 9s", got.Timeout)
	}
	if got.Format != "json" {
		t.Errorf("Format = %q, want flag value json", got.Format)
	}
}

func TestSettings_BadOutput(t *testing.T) {
	if _, err := runApp(t, "127.0.0.1:1", "", "-o", "xml", "exec", "GET", "a"); err == nil {
		t.Error("unknown output format should fail")
	}
}

func TestRunSingle(t *testing.T) {
	client := connection.NewClient(startServer(t), 2*time.Second)

	reports, err := RunSingle(client, 200)
	if err != nil {
		t.Fatalf("RunSingle() error = %v", err)
	}
	if len(reports) != 2 || reports[0].Phase != "SET" || reports[1].Phase != "GET" {
		t.Fatalf("reports = %+v", reports)
	}
	for _, r := range reports {
		if r.Ops != 200 || r.OpsPerSec <= 0 {
			t.Errorf("report %+v", r)
		}
	}
}

func TestRunMulti(t *testing.T) {
	addr := startServer(t)
	client := connection.NewClient(addr, 2*time.Second)

	report, err := RunMulti(context.Background(), client, 4, 50, 0, nil)
	if err != nil {
		t.Fatalf("RunMulti() error = %v", err)
	}
	if report.TotalOps != 200 {
		t.Errorf("TotalOps = %d, want 200", report.TotalOps)
	}

	out, err := client.Exec(context.Background(), "SCAN t3-")
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(out, "\n"); n != 50 {
		t.Errorf("SCAN t3- returned %d keys, want 50", n)
	}
}

func TestRunMulti_RateLimited(t *testing.T) {
	client := connection.NewClient(startServer(t), 2*time.Second)

	// 40 ops at 20/s: the first 20 use the burst, the rest take about 1s.
	start := time.Now()
	if _, err := RunMulti(context.Background(), client, 2, 20, 20, nil); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 800*time.Millisecond {
		t.Errorf("rate-limited run took %v, want at least 800ms", elapsed)
	}
}

func TestBenchCommand_JSON(t *testing.T) {
	addr := startServer(t)
	out, err := runApp(t, addr, "", "-o", "json", "bench", "mt", "--threads", "2", "--ops", "5")
	if err != nil {
		t.Fatal(err)
	}

	var report MultiReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("output %q is not JSON: %v", out, err)
	}
	if report.TotalOps != 10 || report.Threads != 2 {
		t.Errorf("report = %+v", report)
	}
}

func TestBenchCommand_SingleTable(t *testing.T) {
	addr := startServer(t)
	out, err := runApp(t, addr, "", "bench", "single", "--n", "20")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "PHASE") || !strings.Contains(out, "GET") {
		t.Errorf("table output = %q", out)
	}
}
