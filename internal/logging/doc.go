// Package logging assembles structured slog loggers and formatting helpers used
// across the standup server and CLI.
//
// It owns the console and JSON handlers, fans records out to stdout, the log
// file, and optionally the systemd journal, and exposes context-aware helpers
// so request handlers automatically tag log lines with note dates, routes, and
// correlation IDs. The package also provides a no-op logger for tests and
// wiring code that cannot fail.
package logging
