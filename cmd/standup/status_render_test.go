package main

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"standup/internal/preflight"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Server", statusError, "Not running", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Server:", "[ERROR] Not running")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Server", statusOK, "Running", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestResultLineUsesFailKind(t *testing.T) {
	line := resultLine(preflight.Result{Name: "LLM", Detail: "Missing API key"}, statusWarn, false)
	if !strings.Contains(line, "[WARN] Missing API key") {
		t.Fatalf("expected warn line, got %q", line)
	}
	line = resultLine(preflight.Result{Name: "LLM", Passed: true, Detail: "gpt"}, statusWarn, false)
	if !strings.Contains(line, "[OK] gpt") {
		t.Fatalf("expected ok line, got %q", line)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}

func TestStatusCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"status"}, env.serverURL, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "== Server ==")
	requireContains(t, out, "[OK] running")
	requireContains(t, out, "0 stored")
	requireContains(t, out, "== Storage ==")
	requireContains(t, out, "[WARN] Missing API key")

	out, _, err = runCLI(t, []string{"status"}, "http://127.0.0.1:1", env.configPath)
	if err != nil {
		t.Fatalf("status with server down: %v", err)
	}
	requireContains(t, out, "[WARN] not running")
}

func TestRenderNoteTable(t *testing.T) {
	summary := strings.Repeat("x", 80)
	table := renderNoteTable(nil)
	if !strings.Contains(table, "Date") {
		t.Fatalf("expected header, got %q", table)
	}
	out := truncate(summary, summaryColumnWidth)
	if len([]rune(out)) != summaryColumnWidth || !strings.HasSuffix(out, "…") {
		t.Fatalf("truncate = %q", out)
	}
}
