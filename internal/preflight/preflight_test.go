package preflight

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"standup/internal/config"
	"standup/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if result := CheckFreeSpace("space", dir, 1); !result.Passed {
		t.Fatalf("expected pass with a 1 byte floor, got: %s", result.Detail)
	}
	result := CheckFreeSpace("space", dir, ^uint64(0))
	if result.Passed {
		t.Fatal("expected failure with an impossible floor")
	}
	if !strings.Contains(result.Detail, "need") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
	if result := CheckFreeSpace("space", filepath.Join(dir, "missing"), 1); result.Passed {
		t.Fatal("expected failure for missing path")
	}
}

func TestFormatBytes(t *testing.T) {
	cases := map[uint64]string{
		512:     "512 B",
		2048:    "2.0 KiB",
		5 << 20: "5.0 MiB",
	}
	for in, want := range cases {
		if got := formatBytes(in); got != want {
			t.Errorf("formatBytes(%d) = %q, want %q", in, got, want)
		}
	}
}

func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": content}}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckLLM(t *testing.T) {
	srv := completionServer(t, `{"ok":true}`)
	result := CheckLLM(context.Background(), "LLM", config.LLMConfig{APIKey: "k", BaseURL: srv.URL, Model: "m"})
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}

	result = CheckLLM(context.Background(), "LLM", config.LLMConfig{BaseURL: srv.URL})
	if result.Passed || result.Detail != "API key missing" {
		t.Fatalf("expected missing key failure, got %+v", result)
	}
}

func TestCheckLLM_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	result := CheckLLM(context.Background(), "LLM", config.LLMConfig{APIKey: "bad", BaseURL: srv.URL, Model: "m"})
	if result.Passed {
		t.Fatal("expected failure for rejected key")
	}
}

func TestCheckServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"error":"unauthorized"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"running":true,"pid":42,"noteCount":3}}`))
	}))
	defer srv.Close()

	result := CheckServer(context.Background(), srv.URL, "good")
	if !result.Passed || result.Detail != "running (pid 42, 3 notes)" {
		t.Fatalf("unexpected result %+v", result)
	}
	result = CheckServer(context.Background(), srv.URL, "bad")
	if result.Passed || !strings.Contains(result.Detail, "auth failed") {
		t.Fatalf("expected auth failure, got %+v", result)
	}
	if result := CheckServer(context.Background(), "", ""); result.Passed {
		t.Fatal("expected failure for missing url")
	}
}

func TestCheckServer_NotRunning(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	result := CheckServer(context.Background(), addr, "")
	if result.Passed || !strings.HasPrefix(result.Detail, "not running") {
		t.Fatalf("expected not running, got %+v", result)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_MinimalConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := RunAll(context.Background(), cfg)
	if len(results) != 3 {
		t.Fatalf("expected 3 results without an LLM key, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
}

func TestRunAll_IncludesLLMWhenConfigured(t *testing.T) {
	srv := completionServer(t, `{"ok":true}`)
	cfg := testsupport.NewConfig(t, testsupport.WithLLM(srv.URL, "key"))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := RunAll(context.Background(), cfg)
	found := false
	for _, r := range results {
		if r.Name == "Note LLM" {
			found = true
			if !r.Passed {
				t.Errorf("LLM check failed: %s", r.Detail)
			}
		}
	}
	if !found {
		t.Fatal("expected LLM check in results")
	}
}

func TestConfigSummaries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if result := LLMFromConfig(cfg); result.Passed {
		t.Fatalf("expected LLM summary to fail without key, got %+v", result)
	}
	if result := TranscriptionFromConfig(cfg); result.Passed {
		t.Fatalf("expected transcription summary to fail without key, got %+v", result)
	}

	cfg = testsupport.NewConfig(t, testsupport.WithLLM("http://example.invalid", "k"), testsupport.WithTranscription("http://example.invalid", "k"))
	if result := LLMFromConfig(cfg); !result.Passed || result.Detail == "" {
		t.Fatalf("expected LLM summary to pass, got %+v", result)
	}
	if result := TranscriptionFromConfig(cfg); !result.Passed {
		t.Fatalf("expected transcription summary to pass, got %+v", result)
	}
	if result := LLMFromConfig(nil); result.Detail != "Unknown" {
		t.Fatalf("nil config detail = %q", result.Detail)
	}
}
