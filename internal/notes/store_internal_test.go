package notes

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenPath(filepath.Join(t.TempDir(), "standup.db"))
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func insertLegacy(t *testing.T, store *Store, id, key, raw string) {
	t.Helper()
	_, err := store.db.Exec(
		`INSERT INTO daily_notes (id, date, raw_text, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, key, raw, "2024-03-05T09:00:00Z", "2024-03-05T09:00:00Z",
	)
	if err != nil {
		t.Fatalf("insert legacy row: %v", err)
	}
}

func TestDeleteFallsBackToDayRange(t *testing.T) {
	store := openTestStore(t)
	insertLegacy(t, store, "legacy-1", "2024-03-05T09:00:00.000Z", "legacy")
	insertLegacy(t, store, "other-day", "2024-03-06T00:00:00.000Z", "keep")

	result, err := store.Delete(context.Background(), "2024-03-05")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !result.Matched || !result.Lenient || result.Rows != 1 {
		t.Fatalf("unexpected delete result %#v", result)
	}

	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected the next day's note to survive, got %d rows", count)
	}
}

func TestGetReadsLegacyKey(t *testing.T) {
	store := openTestStore(t)
	insertLegacy(t, store, "legacy-1", "2024-03-05T09:00:00.000Z", "legacy")

	note, err := store.Get(context.Background(), "2024-03-05")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if note == nil || note.ID != "legacy-1" {
		t.Fatalf("expected legacy note, got %#v", note)
	}
	if len(note.Blockers) != 0 || note.Blockers == nil {
		t.Fatalf("expected default blockers list, got %#v", note.Blockers)
	}
}

func TestUpsertAdoptsLegacyKey(t *testing.T) {
	store := openTestStore(t)
	insertLegacy(t, store, "legacy-1", "2024-03-05T09:00:00.000Z", "legacy")

	raw := "rewritten"
	note, err := store.Upsert(context.Background(), "2024-03-05", Patch{RawText: &raw})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if note.ID != "legacy-1" || note.Date != "2024-03-05" {
		t.Fatalf("expected legacy row rekeyed, got %#v", note)
	}
}

func TestDecodeToleratesCorruptLists(t *testing.T) {
	if got := decodeStrings("not json"); got == nil || len(got) != 0 {
		t.Fatalf("decodeStrings = %#v", got)
	}
	if got := decodeActionItems(`[{"id":"1","text":"x"}]`); len(got) != 1 || got[0].Text != "x" {
		t.Fatalf("decodeActionItems = %#v", got)
	}
	if got := decodeActionItems("null"); got == nil {
		t.Fatal("expected empty slice for null")
	}
}

func TestPlaceholders(t *testing.T) {
	if got := placeholders(3); got != "?, ?, ?" {
		t.Fatalf("placeholders(3) = %q", got)
	}
	if got := placeholders(0); got != "" {
		t.Fatalf("placeholders(0) = %q", got)
	}
}
