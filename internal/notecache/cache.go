package notecache

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"standup/internal/api"
	"standup/internal/logging"
	"standup/internal/notes"
)

const defaultTaskSummary = "Work completed for the day"

// API is the subset of Client the cache depends on.
type API interface {
	GetNote(ctx context.Context, date string) (*api.Note, error)
	ListMonth(ctx context.Context, year int, month time.Month) ([]api.Note, error)
	SaveNote(ctx context.Context, date string, in api.NoteInput) (*api.Note, error)
	DeleteNote(ctx context.Context, date string) (string, error)
	Process(ctx context.Context, rawText string) (api.ProcessedNote, error)
	Classify(ctx context.Context, req api.ClassifyRequest) (api.Classification, error)
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
	ExportCSV(ctx context.Context, year int, month time.Month) ([]byte, error)
}

// View is the note for the selected date. Note is nil when the cache holds
// nothing for that day.
type View struct {
	Date string
	Note *api.Note
}

// EditorState is what an editor shows after loading the selected date.
type EditorState struct {
	Date           string
	RawText        string
	Processed      *api.ProcessedNote
	Classification *api.Classification
}

// Cache holds notes keyed by canonical date plus the selected date.
type Cache struct {
	api    API
	logger *slog.Logger

	mu       sync.Mutex
	notes    map[string]api.Note
	selected string
	watchers map[int]func(View)
	nextID   int
}

// New returns an empty cache with today selected.
func New(client API, logger *slog.Logger) *Cache {
	return &Cache{
		api:      client,
		logger:   logging.NewComponentLogger(logger, "notecache"),
		notes:    make(map[string]api.Note),
		selected: notes.Today(),
		watchers: make(map[int]func(View)),
	}
}

// Select changes the selected date. Watchers are notified when the
// canonical date differs from the current selection.
func (c *Cache) Select(date string) error {
	key, err := notes.CanonicalDate(date)
	if err != nil {
		return err
	}
	c.mu.Lock()
	if c.selected == key {
		c.mu.Unlock()
		return nil
	}
	c.selected = key
	c.mu.Unlock()
	c.notify()
	return nil
}

// Selected returns the canonical selected date.
func (c *Cache) Selected() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Current returns the cached note for the selected date.
func (c *Cache) Current() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Lookup returns the cached note for date without contacting the server.
func (c *Cache) Lookup(date string) (*api.Note, bool) {
	key, err := notes.CanonicalDate(date)
	if err != nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	note, ok := c.notes[key]
	if !ok {
		return nil, false
	}
	note = cloneNote(note)
	return &note, true
}

// Len returns the number of cached notes.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.notes)
}

// Watch registers fn to receive the current view after every selection or
// entry change. The returned function unregisters it.
func (c *Cache) Watch(fn func(View)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.watchers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.watchers, id)
		c.mu.Unlock()
	}
}

// FetchOne loads date from the server. A failed request or a missing note
// leaves any cached entry in place.
func (c *Cache) FetchOne(ctx context.Context, date string) (*api.Note, error) {
	key, err := notes.CanonicalDate(date)
	if err != nil {
		return nil, err
	}
	note, err := c.api.GetNote(ctx, key)
	if err != nil {
		c.logger.Warn("note fetch failed",
			logging.String(logging.FieldNoteDate, key),
			logging.Error(err),
			logging.String(logging.FieldEventType, "cache_fetch_failed"),
			logging.String(logging.FieldImpact, "cached entry kept"),
		)
		return nil, err
	}
	if note == nil {
		return nil, nil
	}
	c.store(key, *note)
	return note, nil
}

// FetchMonth loads a month and merges it into the cache. Cached dates the
// server no longer returns are kept.
func (c *Cache) FetchMonth(ctx context.Context, year int, month time.Month) ([]api.Note, error) {
	list, err := c.api.ListMonth(ctx, year, month)
	if err != nil {
		c.logger.Warn("month fetch failed",
			logging.Int("year", year),
			logging.Int("month", int(month)),
			logging.Error(err),
			logging.String(logging.FieldEventType, "cache_fetch_failed"),
			logging.String(logging.FieldImpact, "cached entries kept"),
		)
		return nil, err
	}
	if len(list) == 0 {
		return list, nil
	}
	c.mu.Lock()
	for _, note := range list {
		key, err := notes.CanonicalDate(note.Date)
		if err != nil {
			c.logger.Debug("skipping note with unparseable date", logging.String(logging.FieldNoteDate, note.Date))
			continue
		}
		c.notes[key] = cloneNote(note)
	}
	c.mu.Unlock()
	c.notify()
	return list, nil
}

// Save upserts date and replaces the cached entry with the server's record.
func (c *Cache) Save(ctx context.Context, date string, in api.NoteInput) (*api.Note, error) {
	key, err := notes.CanonicalDate(date)
	if err != nil {
		return nil, err
	}
	note, err := c.api.SaveNote(ctx, key, in)
	if err != nil {
		return nil, err
	}
	c.store(key, *note)
	return note, nil
}

// Remove deletes date on the server and evicts it on success.
func (c *Cache) Remove(ctx context.Context, date string) error {
	key, err := notes.CanonicalDate(date)
	if err != nil {
		return err
	}
	if _, err := c.api.DeleteNote(ctx, key); err != nil {
		return err
	}
	c.evict(key)
	return nil
}

// Invalidate drops the given dates, or every entry when none are given.
func (c *Cache) Invalidate(dates ...string) {
	c.mu.Lock()
	if len(dates) == 0 {
		clear(c.notes)
	}
	for _, date := range dates {
		if key, err := notes.CanonicalDate(date); err == nil {
			delete(c.notes, key)
		}
	}
	c.mu.Unlock()
	c.notify()
}

// Load fetches the selected date and derives the editor state from it. A
// missing note yields an empty state for that date.
func (c *Cache) Load(ctx context.Context) (EditorState, error) {
	date := c.Selected()
	note, err := c.FetchOne(ctx, date)
	if err != nil {
		return EditorState{Date: date}, err
	}
	return editorState(date, note), nil
}

// Process structures raw text through the server.
func (c *Cache) Process(ctx context.Context, rawText string) (api.ProcessedNote, error) {
	return c.api.Process(ctx, rawText)
}

// Classify assigns a taxonomy category through the server.
func (c *Cache) Classify(ctx context.Context, req api.ClassifyRequest) (api.Classification, error) {
	return c.api.Classify(ctx, req)
}

// Transcribe sends a recording to the server.
func (c *Cache) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	return c.api.Transcribe(ctx, audio, filename)
}

// ExportCSV downloads the timesheet for a month, or everything when month
// is zero.
func (c *Cache) ExportCSV(ctx context.Context, year int, month time.Month) ([]byte, error) {
	return c.api.ExportCSV(ctx, year, month)
}

func (c *Cache) store(key string, note api.Note) {
	c.mu.Lock()
	c.notes[key] = cloneNote(note)
	c.mu.Unlock()
	c.notify()
}

func (c *Cache) evict(key string) {
	c.mu.Lock()
	_, ok := c.notes[key]
	delete(c.notes, key)
	c.mu.Unlock()
	if ok {
		c.notify()
	}
}

func (c *Cache) viewLocked() View {
	view := View{Date: c.selected}
	if note, ok := c.notes[c.selected]; ok {
		note = cloneNote(note)
		view.Note = &note
	}
	return view
}

// notify delivers the current view outside the lock so watchers may call
// back into the cache.
func (c *Cache) notify() {
	c.mu.Lock()
	view := c.viewLocked()
	watchers := maps.Clone(c.watchers)
	c.mu.Unlock()
	for _, fn := range watchers {
		fn(view)
	}
}

func editorState(date string, note *api.Note) EditorState {
	state := EditorState{Date: date}
	if note == nil {
		return state
	}
	state.RawText = note.RawText
	if len(note.Yesterday) > 0 || len(note.Today) > 0 || len(note.Blockers) > 0 {
		processed := api.ProcessedNote{
			Yesterday:    append([]string{}, note.Yesterday...),
			Today:        append([]string{}, note.Today...),
			Blockers:     append([]string{}, note.Blockers...),
			ProseSummary: deref(note.ProseSummary),
			ActionItems:  append([]api.ActionItem{}, note.ActionItems...),
		}
		state.Processed = &processed
	}
	if category, description := deref(note.TaskCategory), deref(note.TaskDescription); category != "" && description != "" {
		summary := deref(note.TaskSummary)
		if summary == "" {
			summary = defaultTaskSummary
		}
		state.Classification = &api.Classification{
			TaskCategory:    category,
			TaskDescription: description,
			TaskSummary:     summary,
		}
	}
	return state
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// cloneNote copies the lists and optional strings so a cached entry never
// shares storage with a value handed to callers.
func cloneNote(n api.Note) api.Note {
	n.Yesterday = slices.Clone(n.Yesterday)
	n.Today = slices.Clone(n.Today)
	n.Blockers = slices.Clone(n.Blockers)
	n.ActionItems = slices.Clone(n.ActionItems)
	n.ProseSummary = cloneString(n.ProseSummary)
	n.TaskCategory = cloneString(n.TaskCategory)
	n.TaskDescription = cloneString(n.TaskDescription)
	n.TaskSummary = cloneString(n.TaskSummary)
	return n
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
