package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	slogmulti "github.com/samber/slog-multi"

	"standup/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level       string
	Format      string
	OutputPaths []string
	Development bool
	// Journal forwards records to the systemd journal. Console output to
	// stdout/stderr is suppressed when the process runs as a systemd service
	// because journald already captures it.
	Journal bool
}

// New constructs a slog logger using the provided options. Every output path
// gets its own handler; the handlers are fanned out so a slow or failing file
// never hides records from the console.
func New(opts Options) (*slog.Logger, error) {
	levelVar := new(slog.LevelVar)
	levelVar.Set(parseLevel(opts.Level))

	addSource := opts.Development || levelVar.Level() <= slog.LevelDebug

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}
	if format != "console" && format != "json" {
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	service := opts.Journal && runningAsSystemdService()

	writers, err := openWriters(defaultSlice(opts.OutputPaths, []string{"stdout"}), service)
	if err != nil {
		return nil, err
	}

	handlers := make([]slog.Handler, 0, len(writers)+1)
	for _, w := range writers {
		switch format {
		case "json":
			handlers = append(handlers, newJSONHandler(w, levelVar, addSource))
		default:
			handlers = append(handlers, newPrettyHandler(w, levelVar, addSource))
		}
	}

	if opts.Journal {
		journal, err := newJournalHandler(levelVar)
		if err != nil {
			if len(handlers) == 0 {
				return nil, fmt.Errorf("open systemd journal: %w", err)
			}
			slog.New(slogmulti.Fanout(handlers...)).Warn("systemd journal unavailable; continuing without it", Error(err))
		} else {
			handlers = append(handlers, journal)
		}
	}

	switch len(handlers) {
	case 0:
		return NewNop(), nil
	case 1:
		return slog.New(handlers[0]), nil
	default:
		return slog.New(slogmulti.Fanout(handlers...)), nil
	}
}

// NewFromConfig creates a logger using application config defaults.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{Level: "info", Format: "console", OutputPaths: []string{"stdout"}})
	}

	outputPaths := []string{"stdout"}
	if logPath := cfg.LogPath(); logPath != "" {
		outputPaths = append(outputPaths, logPath)
	}

	return New(Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputPaths,
		Journal:     cfg.Logging.Journal,
	})
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func defaultSlice(value []string, fallback []string) []string {
	if len(value) == 0 {
		return append([]string(nil), fallback...)
	}
	return append([]string(nil), value...)
}

func openWriters(paths []string, skipConsole bool) ([]io.Writer, error) {
	seen := map[string]struct{}{}
	var writers []io.Writer

	for _, path := range paths {
		trimmed := strings.TrimSpace(path)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}

		switch trimmed {
		case "stdout":
			if !skipConsole {
				writers = append(writers, os.Stdout)
			}
		case "stderr":
			if !skipConsole {
				writers = append(writers, os.Stderr)
			}
		default:
			if err := ensureLogDir(trimmed); err != nil {
				return nil, err
			}
			file, err := os.OpenFile(trimmed, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
			if err != nil {
				return nil, fmt.Errorf("open log file %s: %w", trimmed, err)
			}
			writers = append(writers, file)
		}
	}
	return writers, nil
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
