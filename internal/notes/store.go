package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"standup/internal/config"
	"standup/internal/services"
)

// Store persists daily notes in SQLite, one row per calendar date.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open initializes or connects to the note database under the configured data directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.DatabasePath())
}

// OpenPath opens the database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
	// DSN pragmas apply to every pooled connection.
	dsn := dbPath + "?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)&_txlock=immediate"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	store := &Store{db: db, path: dbPath, now: func() time.Time { return time.Now().UTC() }}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Get returns the note for a calendar date, or nil when none exists.
func (s *Store) Get(ctx context.Context, date string) (*DailyNote, error) {
	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	start, end := dayBounds(day)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM daily_notes
         WHERE date >= ? AND date < ?
         ORDER BY (date = ?) DESC, updated_at DESC
         LIMIT 1`,
		start, end, start,
	)
	note, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return note, nil
}

// Range returns notes dated from start through end inclusive, newest first.
func (s *Store) Range(ctx context.Context, start, end string) ([]DailyNote, error) {
	from, err := ParseDate(start)
	if err != nil {
		return nil, err
	}
	to, err := ParseDate(end)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, services.Wrap(services.ErrValidation, "notes", "range",
			fmt.Sprintf("end %s is before start %s", FormatDate(to), FormatDate(from)), nil)
	}
	_, upper := dayBounds(to)
	notes, err := s.queryNotes(ctx,
		`SELECT `+noteColumns+` FROM daily_notes WHERE date >= ? AND date < ? ORDER BY date DESC`,
		FormatDate(from), upper,
	)
	if err != nil {
		return nil, fmt.Errorf("range notes: %w", err)
	}
	return notes, nil
}

// Month returns every note in a calendar month, newest first.
func (s *Store) Month(ctx context.Context, year int, month time.Month) ([]DailyNote, error) {
	first, last, err := MonthBounds(year, month)
	if err != nil {
		return nil, err
	}
	return s.Range(ctx, FormatDate(first), FormatDate(last))
}

// List returns a page of notes, newest first. A non-positive limit returns
// every note from offset onward.
func (s *Store) List(ctx context.Context, limit, offset int) ([]DailyNote, error) {
	if limit <= 0 {
		limit = -1
	}
	if offset < 0 {
		offset = 0
	}
	notes, err := s.queryNotes(ctx,
		`SELECT `+noteColumns+` FROM daily_notes ORDER BY date DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// Count returns the number of stored notes.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM daily_notes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return count, nil
}

// Upsert creates the note for date or updates the fields set in patch. New
// notes take defaults for absent fields. Concurrent writers to the same date
// are serialized by SQLite; the last write wins.
func (s *Store) Upsert(ctx context.Context, date string, patch Patch) (*DailyNote, error) {
	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	key := FormatDate(day)

	fields, err := patchFields(patch)
	if err != nil {
		return nil, err
	}

	columns := []string{"id", "date"}
	args := []any{uuid.NewString(), key}
	sets := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		columns = append(columns, f.column)
		args = append(args, f.value)
		if f.present {
			sets = append(sets, f.column+" = excluded."+f.column)
		}
	}
	timestamp := s.now().Format(time.RFC3339Nano)
	columns = append(columns, "created_at", "updated_at")
	args = append(args, timestamp, timestamp)
	sets = append(sets, "updated_at = excluded.updated_at")

	query := `INSERT INTO daily_notes (` + strings.Join(columns, ", ") + `)
         VALUES (` + placeholders(len(columns)) + `)
         ON CONFLICT(date) DO UPDATE SET ` + strings.Join(sets, ", ") + `
         RETURNING ` + noteColumns

	var note *DailyNote
	err = retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		if err := adoptLegacyKey(ctx, tx, day); err != nil {
			return err
		}
		row := tx.QueryRowContext(ctx, query, args...)
		scanned, err := scanNote(row)
		if err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		note = scanned
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("upsert note %s: %w", key, err)
	}
	return note, nil
}

// adoptLegacyKey rewrites a timestamp-form key for day to the canonical form
// when no canonical row exists yet, so the upsert updates it instead of
// creating a second row for the same calendar date.
func adoptLegacyKey(ctx context.Context, tx *sql.Tx, day time.Time) error {
	start, end := dayBounds(day)
	_, err := tx.ExecContext(ctx,
		`UPDATE daily_notes SET date = ?
         WHERE id = (
             SELECT id FROM daily_notes
             WHERE date > ? AND date < ?
             ORDER BY updated_at DESC LIMIT 1
         )
         AND NOT EXISTS (SELECT 1 FROM daily_notes WHERE date = ?)`,
		start, start, end, start,
	)
	if err != nil {
		return fmt.Errorf("adopt legacy key: %w", err)
	}
	return nil
}

// Delete removes the note for date. When the exact key is absent every row
// whose key falls inside the calendar day is removed instead. Finding nothing
// is not an error.
func (s *Store) Delete(ctx context.Context, date string) (DeleteResult, error) {
	day, err := ParseDate(date)
	if err != nil {
		return DeleteResult{}, err
	}
	start, end := dayBounds(day)

	res, err := s.execWithRetry(ctx, `DELETE FROM daily_notes WHERE date = ?`, start)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("delete note %s: %w", start, err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return DeleteResult{Matched: true, Rows: n}, nil
	}

	res, err = s.execWithRetry(ctx, `DELETE FROM daily_notes WHERE date >= ? AND date < ?`, start, end)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("delete note range %s: %w", start, err)
	}
	n, _ := res.RowsAffected()
	return DeleteResult{Matched: n > 0, Lenient: n > 0, Rows: n}, nil
}

type field struct {
	column  string
	value   any
	present bool
}

func patchFields(p Patch) ([]field, error) {
	fields := make([]field, 0, 9)

	text := func(column string, value *string, nullable bool) {
		f := field{column: column, value: "", present: value != nil}
		if nullable {
			f.value = nil
		}
		if value != nil {
			if nullable {
				f.value = nullableString(*value)
			} else {
				f.value = *value
			}
		}
		fields = append(fields, f)
	}
	list := func(column string, present bool, value any) error {
		encoded, err := encodeJSON(value)
		if err != nil {
			return err
		}
		fields = append(fields, field{column: column, value: encoded, present: present})
		return nil
	}

	text("raw_text", p.RawText, false)
	for _, l := range []struct {
		column string
		value  *[]string
	}{
		{"yesterday_json", p.Yesterday},
		{"today_json", p.Today},
		{"blockers_json", p.Blockers},
	} {
		values := []string{}
		if l.value != nil && *l.value != nil {
			values = *l.value
		}
		if err := list(l.column, l.value != nil, values); err != nil {
			return nil, err
		}
	}
	text("prose_summary", p.ProseSummary, true)
	items := []ActionItem{}
	if p.ActionItems != nil && *p.ActionItems != nil {
		items = *p.ActionItems
	}
	if err := list("action_items_json", p.ActionItems != nil, items); err != nil {
		return nil, err
	}
	text("task_category", p.TaskCategory, true)
	text("task_description", p.TaskDescription, true)
	text("task_summary", p.TaskSummary, true)
	return fields, nil
}

func placeholders(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", count), ", ")
}
