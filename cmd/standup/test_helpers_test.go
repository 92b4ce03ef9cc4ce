package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"standup/internal/assist"
	"standup/internal/config"
	"standup/internal/daemon"
	"standup/internal/logging"
	"standup/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	daemon     *daemon.Daemon
	serverURL  string
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	for _, key := range []string{"OPENAI_API_KEY", "STANDUP_API_TOKEN", "ALL_PROXY", "all_proxy"} {
		t.Setenv(key, "")
	}

	cfg := testsupport.NewConfig(t)
	configPath := filepath.Join(homeDir, ".config", "standup", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	store := testsupport.MustOpenStore(t, cfg)
	d, err := daemon.New(cfg, store, assist.NewFromConfig(cfg, nil), logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := d.Start(ctx); err != nil {
		cancel()
		t.Fatalf("daemon.Start: %v", err)
	}
	t.Cleanup(func() {
		cancel()
		d.Stop()
	})

	return &cliTestEnv{
		cfg:        cfg,
		daemon:     d,
		serverURL:  "http://" + d.Address(),
		configPath: configPath,
		baseDir:    base,
	}
}

func runCLI(t *testing.T, args []string, serverURL, configPath string) (string, string, error) {
	t.Helper()
	return runCLIWithInput(t, args, serverURL, configPath, "")
}

func runCLIWithInput(t *testing.T, args []string, serverURL, configPath, stdin string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	var flags []string
	if serverURL != "" {
		flags = append(flags, "--server", serverURL)
	}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\ndata_dir = %q\nlog_dir = %q\n\n[server]\nbind = %q\n\n[logging]\njournal = false\n",
		cfg.Paths.DataDir,
		cfg.Paths.LogDir,
		cfg.Server.Bind,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
