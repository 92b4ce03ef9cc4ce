package notes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

const noteColumns = "id, date, raw_text, yesterday_json, today_json, blockers_json, prose_summary, action_items_json, task_category, task_description, task_summary, created_at, updated_at"

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code()&0xff == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// retryOnBusy re-runs op while SQLite reports lock contention. It is a
// driver-level guard, not a retry of the domain operation: op either fully
// applied or did not apply at all.
func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil || !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay = min(delay*2, busyRetryMaxBackoff)
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	})
	return res, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(scanner rowScanner) (*DailyNote, error) {
	var (
		note            DailyNote
		yesterdayRaw    string
		todayRaw        string
		blockersRaw     string
		actionItemsRaw  string
		proseSummary    sql.NullString
		taskCategory    sql.NullString
		taskDescription sql.NullString
		taskSummary     sql.NullString
		createdRaw      string
		updatedRaw      string
	)
	if err := scanner.Scan(
		&note.ID,
		&note.Date,
		&note.RawText,
		&yesterdayRaw,
		&todayRaw,
		&blockersRaw,
		&proseSummary,
		&actionItemsRaw,
		&taskCategory,
		&taskDescription,
		&taskSummary,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	note.Yesterday = decodeStrings(yesterdayRaw)
	note.Today = decodeStrings(todayRaw)
	note.Blockers = decodeStrings(blockersRaw)
	note.ActionItems = decodeActionItems(actionItemsRaw)
	note.ProseSummary = proseSummary.String
	note.TaskCategory = taskCategory.String
	note.TaskDescription = taskDescription.String
	note.TaskSummary = taskSummary.String
	if created, err := parseTimeString(createdRaw); err == nil {
		note.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		note.UpdatedAt = updated
	}
	return &note, nil
}

func (s *Store) queryNotes(ctx context.Context, query string, args ...any) ([]DailyNote, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DailyNote
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *note)
	}
	return out, rows.Err()
}

// decodeStrings tolerates malformed column contents by returning an empty
// list; a corrupt list must not make the whole note unreadable.
func decodeStrings(raw string) []string {
	out := []string{}
	if strings.TrimSpace(raw) == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

func decodeActionItems(raw string) []ActionItem {
	out := []ActionItem{}
	if strings.TrimSpace(raw) == "" {
		return out
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return []ActionItem{}
	}
	return out
}

func encodeJSON(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("encode list column: %w", err)
	}
	return string(data), nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
