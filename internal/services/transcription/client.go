// Package transcription uploads recorded audio to an OpenAI-compatible
// /audio/transcriptions endpoint and returns plain text.
package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"
	"time"

	"standup/internal/services/transport"
)

const (
	defaultEndpoint = "https://api.openai.com/v1/audio/transcriptions"
	defaultModel    = "whisper-1"
	defaultLanguage = "en"
	defaultTimeout  = 120 * time.Second
	defaultFilename = "audio.webm"
)

// userError is a fixed condition whose text is shown to callers as is.
type userError string

func (e userError) Error() string       { return string(e) }
func (e userError) UserMessage() string { return string(e) }

var (
	// ErrMissingAPIKey is returned when no credentials are configured.
	ErrMissingAPIKey error = userError("OpenAI API key is not configured")
	// ErrEmptyAudio is returned when the upload carries no bytes.
	ErrEmptyAudio error = userError("No audio data provided")
)

var mimeTypes = map[string]string{
	"webm": "audio/webm",
	"mp3":  "audio/mpeg",
	"mp4":  "audio/mp4",
	"m4a":  "audio/m4a",
	"wav":  "audio/wav",
	"ogg":  "audio/ogg",
	"flac": "audio/flac",
}

// Config captures the speech-to-text endpoint settings.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Language       string
	TimeoutSeconds int
	ProxyAddr      string
}

// Client sends audio to the transcription endpoint. It never retries.
type Client struct {
	cfg        Config
	httpClient *http.Client
	buildErr   error
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
			c.buildErr = nil
		}
	}
}

// NewClient constructs a transcription client.
func NewClient(cfg Config, opts ...Option) *Client {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultEndpoint
	}
	if cfg.Model = strings.TrimSpace(cfg.Model); cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Language = strings.TrimSpace(cfg.Language); cfg.Language == "" {
		cfg.Language = defaultLanguage
	}
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{cfg: cfg}
	client.httpClient, client.buildErr = transport.NewHTTPClient(timeout, cfg.ProxyAddr)
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Configured reports whether the client has an API key.
func (c *Client) Configured() bool {
	return c != nil && c.cfg.APIKey != ""
}

// APIError is a non-2xx response from the provider.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("transcription: http %d: %s", e.StatusCode, e.Message)
}

// UserMessage returns the text shown to API callers.
func (e *APIError) UserMessage() string {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return "Invalid OpenAI API key"
	case http.StatusTooManyRequests:
		return "Rate limit exceeded. Please try again later."
	default:
		return "API error: " + e.Message
	}
}

// MimeType maps an audio filename extension to its content type, defaulting
// to audio/webm.
func MimeType(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if mime, ok := mimeTypes[ext]; ok {
		return mime
	}
	return "audio/webm"
}

// Transcribe uploads audio and returns the trimmed transcript.
func (c *Client) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if !c.Configured() {
		return "", ErrMissingAPIKey
	}
	if len(audio) == 0 {
		return "", ErrEmptyAudio
	}
	if c.buildErr != nil {
		return "", c.buildErr
	}
	filename = strings.TrimSpace(filepath.Base(filename))
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		filename = defaultFilename
	}

	body, contentType, err := c.encodeForm(audio, filename)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, body)
	if err != nil {
		return "", fmt.Errorf("transcription: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription: http error: %w", err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("transcription: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", &APIError{StatusCode: resp.StatusCode, Message: errorMessage(payload, resp.Status)}
	}
	return strings.TrimSpace(string(payload)), nil
}

func (c *Client) encodeForm(audio []byte, filename string) (io.Reader, string, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", MimeType(filename))
	part, err := form.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("transcription: create file part: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, "", fmt.Errorf("transcription: write audio: %w", err)
	}
	for _, field := range [][2]string{
		{"model", c.cfg.Model},
		{"language", c.cfg.Language},
		{"response_format", "text"},
	} {
		if err := form.WriteField(field[0], field[1]); err != nil {
			return nil, "", fmt.Errorf("transcription: write %s: %w", field[0], err)
		}
	}
	if err := form.Close(); err != nil {
		return nil, "", fmt.Errorf("transcription: close form: %w", err)
	}
	return &buf, form.FormDataContentType(), nil
}

// errorMessage extracts error.message from an OpenAI error body, falling back
// to the raw body or HTTP status text.
func errorMessage(body []byte, status string) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && strings.TrimSpace(parsed.Error.Message) != "" {
		return strings.TrimSpace(parsed.Error.Message)
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return status
}
