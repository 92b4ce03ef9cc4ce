// Package llm provides an OpenAI-compatible chat client used to structure and
// classify standup notes.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.CompleteJSON: send system/user prompts, receive a JSON payload.
// Client.HealthCheck: verify API key and model availability.
// DecodeLLMJSON: decode a payload, tolerating code fences and stray prose.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx errors, network timeouts, and empty
// content with exponential backoff (base 1s, max 10s, 3 attempts by default).
// Request-scoped callers construct the client with WithRetryMaxAttempts(1).
// Context cancellation aborts retries immediately.
//
// # Fallback
//
// The client never substitutes results. Callers decide what a failure means;
// the note processor and classifier in internal/assist fall back to local
// heuristics.
package llm
