package notecache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"standup/internal/api"
)

// ErrAPIUnavailable reports that no server address is configured.
var ErrAPIUnavailable = errors.New("standup API unavailable")

// APIError is a non-success envelope returned by the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("standup API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("standup API returned status %d: %s", e.StatusCode, e.Message)
}

// UserMessage returns the server-provided error text.
func (e *APIError) UserMessage() string {
	return e.Message
}

// Client issues requests against a running standup server.
type Client struct {
	base  *url.URL
	token string
	http  *http.Client
}

// NewClient parses serverURL (a bind address or URL) and returns a client.
// An empty address yields a nil client whose calls report ErrAPIUnavailable.
func NewClient(serverURL, token string, timeout time.Duration) (*Client, error) {
	serverURL = strings.TrimSpace(serverURL)
	if serverURL == "" {
		return nil, nil
	}
	if !strings.Contains(serverURL, "://") {
		serverURL = "http://" + serverURL
	}
	base, err := url.Parse(serverURL)
	if err != nil {
		return nil, err
	}
	base.Path = ""
	base.RawQuery = ""
	base.Fragment = ""

	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		base:  base,
		token: strings.TrimSpace(token),
		http:  &http.Client{Timeout: timeout},
	}, nil
}

// BaseURL returns the server root the client talks to.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.base.String()
}

// GetNote fetches the note stored for date. A nil note with a nil error
// means the server has no note for that day.
func (c *Client) GetNote(ctx context.Context, date string) (*api.Note, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/notes/"+url.PathEscape(date), nil, nil)
	if err != nil {
		return nil, err
	}
	var note *api.Note
	if err := decodeData(env, &note); err != nil {
		return nil, err
	}
	return note, nil
}

// ListMonth fetches every note in a calendar month, newest first.
func (c *Client) ListMonth(ctx context.Context, year int, month time.Month) ([]api.Note, error) {
	values := url.Values{}
	values.Set("year", strconv.Itoa(year))
	values.Set("month", strconv.Itoa(int(month)))
	env, err := c.do(ctx, http.MethodGet, "/api/notes", values, nil)
	if err != nil {
		return nil, err
	}
	var list []api.Note
	if err := decodeData(env, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ListPage fetches one page of the full listing, newest first.
func (c *Client) ListPage(ctx context.Context, limit, offset int) ([]api.Note, api.Pagination, error) {
	values := url.Values{}
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		values.Set("offset", strconv.Itoa(offset))
	}
	env, err := c.do(ctx, http.MethodGet, "/api/notes", values, nil)
	if err != nil {
		return nil, api.Pagination{}, err
	}
	var list []api.Note
	if err := decodeData(env, &list); err != nil {
		return nil, api.Pagination{}, err
	}
	var page api.Pagination
	if env.Pagination != nil {
		page = *env.Pagination
	}
	return list, page, nil
}

// SaveNote upserts the note for date and returns the stored record.
func (c *Client) SaveNote(ctx context.Context, date string, in api.NoteInput) (*api.Note, error) {
	in.Date = api.Some(date)
	env, err := c.do(ctx, http.MethodPost, "/api/notes", nil, in)
	if err != nil {
		return nil, err
	}
	var note *api.Note
	if err := decodeData(env, &note); err != nil {
		return nil, err
	}
	if note == nil {
		return nil, errors.New("standup API returned no note after save")
	}
	return note, nil
}

// UpdateNote applies a partial update to date. Unlike SaveNote it does not
// require rawText.
func (c *Client) UpdateNote(ctx context.Context, date string, in api.NoteInput) (*api.Note, error) {
	in.Date = api.Field[string]{}
	env, err := c.do(ctx, http.MethodPut, "/api/notes/"+url.PathEscape(date), nil, in)
	if err != nil {
		return nil, err
	}
	var note *api.Note
	if err := decodeData(env, &note); err != nil {
		return nil, err
	}
	if note == nil {
		return nil, errors.New("standup API returned no note after update")
	}
	return note, nil
}

// DeleteNote removes the note for date. The returned message is set when
// nothing matched.
func (c *Client) DeleteNote(ctx context.Context, date string) (string, error) {
	env, err := c.do(ctx, http.MethodDelete, "/api/notes/"+url.PathEscape(date), nil, nil)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// Process structures raw text into sections.
func (c *Client) Process(ctx context.Context, rawText string) (api.ProcessedNote, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/process", nil, api.ProcessRequest{RawText: rawText})
	if err != nil {
		return api.ProcessedNote{}, err
	}
	var out api.ProcessedNote
	err = decodeData(env, &out)
	return out, err
}

// Classify assigns a taxonomy category to the given content.
func (c *Client) Classify(ctx context.Context, req api.ClassifyRequest) (api.Classification, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/classify", nil, req)
	if err != nil {
		return api.Classification{}, err
	}
	var out api.Classification
	err = decodeData(env, &out)
	return out, err
}

// Transcribe uploads audio as a multipart form and returns the text.
func (c *Client) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if strings.TrimSpace(filename) == "" {
		filename = "recording.webm"
	}
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("audio", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audio); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	resp, err := c.send(ctx, http.MethodPost, "/api/transcribe", nil, &body, writer.FormDataContentType())
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	env, err := readEnvelope(resp)
	if err != nil {
		return "", err
	}
	if env.Text == nil {
		return "", nil
	}
	return *env.Text, nil
}

// ExportCSV downloads the timesheet CSV. A zero month exports every note.
func (c *Client) ExportCSV(ctx context.Context, year int, month time.Month) ([]byte, error) {
	values := url.Values{}
	if month != 0 {
		values.Set("year", strconv.Itoa(year))
		values.Set("month", strconv.Itoa(int(month)))
	}
	resp, err := c.send(ctx, http.MethodGet, "/api/export.csv", values, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		_, err := readEnvelope(resp)
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

// Taxonomy fetches the category table.
func (c *Client) Taxonomy(ctx context.Context) (api.TaxonomyResponse, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/taxonomy", nil, nil)
	if err != nil {
		return api.TaxonomyResponse{}, err
	}
	var out api.TaxonomyResponse
	err = decodeData(env, &out)
	return out, err
}

// Status fetches server health.
func (c *Client) Status(ctx context.Context) (api.ServerStatus, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/status", nil, nil)
	if err != nil {
		return api.ServerStatus{}, err
	}
	var out api.ServerStatus
	err = decodeData(env, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) (api.Envelope, error) {
	var body io.Reader
	contentType := ""
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return api.Envelope{}, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}
	resp, err := c.send(ctx, method, path, query, body, contentType)
	if err != nil {
		return api.Envelope{}, err
	}
	defer resp.Body.Close()
	return readEnvelope(resp)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Response, error) {
	if c == nil {
		return nil, ErrAPIUnavailable
	}
	endpoint := c.base.ResolveReference(&url.URL{Path: path, RawQuery: query.Encode()})
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.http.Do(req)
}

func readEnvelope(resp *http.Response) (api.Envelope, error) {
	var env api.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 400 {
			return api.Envelope{}, &APIError{StatusCode: resp.StatusCode}
		}
		return api.Envelope{}, fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= 400 || !env.Success {
		return env, &APIError{StatusCode: resp.StatusCode, Message: env.Error}
	}
	return env, nil
}

func decodeData(env api.Envelope, target any) error {
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, target); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

// IsAPIUnavailable reports whether err means the server could not be reached.
func IsAPIUnavailable(err error) bool {
	if err == nil {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		err = urlErr.Err
	}
	var opErr *net.OpError
	return errors.Is(err, ErrAPIUnavailable) || errors.As(err, &opErr)
}
