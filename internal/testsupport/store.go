package testsupport

import (
	"context"
	"testing"

	"standup/internal/config"
	"standup/internal/notes"
)

// MustOpenStore opens a notes.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *notes.Store {
	t.Helper()

	store, err := notes.Open(cfg)
	if err != nil {
		t.Fatalf("notes.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedNote writes a note with the given raw text for date.
func SeedNote(t testing.TB, store *notes.Store, date, rawText string) *notes.DailyNote {
	t.Helper()

	note, err := store.Upsert(context.Background(), date, notes.Patch{RawText: &rawText})
	if err != nil {
		t.Fatalf("store.Upsert(%s): %v", date, err)
	}
	return note
}

// StringPtr returns a pointer to value, for building patches inline.
func StringPtr(value string) *string {
	return &value
}
