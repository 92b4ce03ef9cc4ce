package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func completionHandler(t *testing.T, content string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{
			"choices": []any{
				map[string]any{
					"finish_reason": "stop",
					"message":       map[string]any{"content": content},
				},
			},
		}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}
}

func TestCompleteJSONSendsPromptsAndHeaders(t *testing.T) {
	var captured chatCompletionRequest
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		completionHandler(t, `{"today":["ship"]}`)(w, r)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	content, err := client.CompleteJSON(context.Background(), "system", "user text")
	if err != nil {
		t.Fatalf("CompleteJSON returned error: %v", err)
	}
	if content != `{"today":["ship"]}` {
		t.Fatalf("unexpected content %q", content)
	}
	if auth != "Bearer test" {
		t.Fatalf("unexpected auth header %q", auth)
	}
	if captured.Model != "demo-model" || len(captured.Messages) != 2 {
		t.Fatalf("unexpected request %+v", captured)
	}
	if captured.Messages[1].Content != "user text" {
		t.Fatalf("unexpected user message %+v", captured.Messages[1])
	}
	if captured.ResponseFormat["type"] != "json_object" {
		t.Fatalf("expected json_object response format, got %v", captured.ResponseFormat)
	}
	if captured.Temperature != nil {
		t.Fatalf("expected temperature to be omitted, got %v", *captured.Temperature)
	}
}

func TestCompleteJSONRequiresKey(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	if client.Configured() {
		t.Fatal("expected unconfigured client")
	}
	_, err := client.CompleteJSON(context.Background(), "system", "user")
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestClientHealthCheck(t *testing.T) {
	server := httptest.NewServer(completionHandler(t, "```json\n{\"ok\":true}\n```"))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
}

func TestClientHealthCheckFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad", BaseURL: server.URL, Model: "demo"})
	err := client.HealthCheck(context.Background())
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 status error, got %v", err)
	}
}

func TestClientDeltaAndLegacyTextContent(t *testing.T) {
	for name, choice := range map[string]map[string]any{
		"delta": {"delta": map[string]any{"content": `{"ok":true}`}},
		"text":  {"text": `{"ok":true}`},
	} {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{choice}})
			}))
			defer server.Close()

			client := NewClient(Config{APIKey: "test", BaseURL: server.URL})
			if err := client.HealthCheck(context.Background()); err != nil {
				t.Fatalf("HealthCheck returned error: %v", err)
			}
		})
	}
}

func TestClientEmptyContentHasSnippet(t *testing.T) {
	server := httptest.NewServer(completionHandler(t, ""))
	defer server.Close()

	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"},
		WithRetryMaxAttempts(1),
	)
	_, err := client.CompleteJSON(context.Background(), "system", "user")
	var empty *EmptyContentError
	if !errors.As(err, &empty) {
		t.Fatalf("expected empty content error, got %v", err)
	}
	if !strings.Contains(err.Error(), "response_snippet=") {
		t.Fatalf("expected snippet in error, got %v", err)
	}
}

func TestClientRetriesOnHTTP429(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		completionHandler(t, `{"ok":true}`)(w, r)
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL, Model: "demo-model"},
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
		WithRetryBackoff(0, 10*time.Second),
		WithRetryMaxAttempts(5),
	)
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
	if len(slept) != 1 || slept[0] != time.Second {
		t.Fatalf("expected single sleep of 1s, got %v", slept)
	}
}

func TestClientSingleAttemptDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL}, WithRetryMaxAttempts(1))
	if _, err := client.CompleteJSON(context.Background(), "system", "user"); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single call, got %d", calls.Load())
	}
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL}, WithSleeper(func(time.Duration) {}))
	if _, err := client.CompleteJSON(context.Background(), "system", "user"); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single call for 400, got %d", calls.Load())
	}
}

func TestClientRetriesOnEmptyContentThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		content := ""
		if calls.Add(1) >= 3 {
			content = `{"ok":true}`
		}
		completionHandler(t, content)(w, r)
	}))
	defer server.Close()

	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL},
		WithRetryBackoff(0, 0),
		WithSleeper(func(time.Duration) {}),
	)
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 calls, got %d", calls.Load())
	}
}

func TestNewClientBadProxySurfacesOnRequest(t *testing.T) {
	client := NewClient(Config{APIKey: "test", BaseURL: "http://127.0.0.1:1", ProxyAddr: "gopher://x"}, WithRetryMaxAttempts(1))
	_, err := client.CompleteJSON(context.Background(), "system", "user")
	if err == nil || !strings.Contains(err.Error(), "proxy") {
		t.Fatalf("expected proxy error, got %v", err)
	}
}

func TestWithTemperatureIsSent(t *testing.T) {
	var captured chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&captured)
		completionHandler(t, `{"ok":true}`)(w, r)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL}, WithTemperature(0.2))
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
	if captured.Temperature == nil || *captured.Temperature != 0.2 {
		t.Fatalf("expected temperature 0.2, got %v", captured.Temperature)
	}
}
