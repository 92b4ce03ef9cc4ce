package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"standup/internal/assist"
	"standup/internal/config"
	"standup/internal/logging"
	"standup/internal/notes"
)

// Daemon owns the note store and the HTTP API and enforces single-instance
// execution per data directory.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *notes.Store
	services *assist.Services
	api      *apiServer

	lockPath string
	lock     *flock.Flock

	running   atomic.Bool
	startedAt atomic.Pointer[time.Time]
	cancel    context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running                 bool
	PID                     int
	Address                 string
	DatabasePath            string
	LockFilePath            string
	NoteCount               int
	Model                   string
	LLMConfigured           bool
	TranscriptionConfigured bool
	StartedAt               time.Time
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *notes.Store, services *assist.Services, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || services == nil {
		return nil, errors.New("daemon requires config, store, and assist services")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := cfg.LockPath()
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		services: services,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	d.api = newAPIServer(cfg, d, logger)
	return d, nil
}

// Start acquires the daemon lock and begins serving the API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another standup server is already running for this data directory")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.api.start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return fmt.Errorf("start api server: %w", err)
	}
	d.cancel = cancel

	now := time.Now().UTC()
	d.startedAt.Store(&now)
	d.running.Store(true)
	d.logger.Info("standup server started",
		logging.String("lock", d.lockPath),
		logging.String("address", d.api.address()),
		logging.String("database", d.store.Path()),
	)
	return nil
}

// Stop stops serving and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("standup server stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Address returns the listening address once started.
func (d *Daemon) Address() string {
	return d.api.address()
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	llmCfg := d.cfg.GetLLM()
	status := Status{
		Running:                 d.running.Load(),
		PID:                     os.Getpid(),
		Address:                 d.api.address(),
		DatabasePath:            d.store.Path(),
		LockFilePath:            d.lockPath,
		Model:                   llmCfg.Model,
		LLMConfigured:           llmCfg.Configured(),
		TranscriptionConfigured: d.cfg.GetTranscription().Configured(),
	}
	if started := d.startedAt.Load(); started != nil {
		status.StartedAt = *started
	}
	count, err := d.store.Count(ctx)
	if err != nil {
		d.logger.Warn("note count unavailable", logging.Error(err))
	}
	status.NoteCount = count
	return status
}

// Handler exposes the API routes without a listener.
func (d *Daemon) Handler() http.Handler {
	return d.api.handler
}
