package daemon_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"standup/internal/assist"
	"standup/internal/config"
	"standup/internal/daemon"
	"standup/internal/logging"
	"standup/internal/notes"
	"standup/internal/testsupport"
)

func TestDaemonStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := notes.Open(cfg)
	if err != nil {
		t.Fatalf("notes.Open: %v", err)
	}
	d, err := daemon.New(cfg, store, assist.NewFromConfig(cfg, nil), logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() {
		d.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	status := d.Status(ctx)
	if !status.Running {
		t.Fatal("expected daemon to report running")
	}
	if status.DatabasePath != cfg.DatabasePath() {
		t.Fatalf("unexpected database path %q", status.DatabasePath)
	}

	resp, err := http.Get("http://" + d.Address() + "/api/status")
	if err != nil {
		t.Fatalf("GET /api/status: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from status, got %d", resp.StatusCode)
	}

	// Second start should fail
	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}

	d.Stop()
	time.Sleep(50 * time.Millisecond)
	status = d.Status(ctx)
	if status.Running {
		t.Fatal("expected daemon to be stopped")
	}
}

func TestDaemonLockPreventsSecondInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first := newDaemon(t, cfg)
	second := newDaemon(t, cfg)

	ctx := context.Background()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("first Start failed: %v", err)
	}
	defer first.Stop()

	if err := second.Start(ctx); err == nil {
		second.Stop()
		t.Fatal("expected second instance to be refused")
	}
}

func TestNewRequiresDependencies(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if _, err := daemon.New(cfg, nil, nil, nil); err == nil {
		t.Fatal("expected error without store and services")
	}
}

func newDaemon(t *testing.T, cfg *config.Config) *daemon.Daemon {
	t.Helper()
	store := testsupport.MustOpenStore(t, cfg)
	d, err := daemon.New(cfg, store, assist.NewFromConfig(cfg, nil), logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(d.Stop)
	return d
}
