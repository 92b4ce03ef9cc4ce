// Package export renders notes as the timesheet CSV.
package export

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"standup/internal/notes"
)

// ContentType is the media type served for CSV downloads.
const ContentType = "text/csv; charset=utf-8"

// Header lists the exported columns in order.
var Header = []string{"Date", "Task Category", "Task Description", "Task Summary"}

// Filename returns the download name for one month, or for every note when
// month is zero.
func Filename(year int, month time.Month) string {
	if month == 0 {
		return "standup-tasks-all.csv"
	}
	return fmt.Sprintf("standup-tasks-%04d-%02d.csv", year, int(month))
}

// CSV renders the header and one row per note, oldest first. Records are
// joined by "\n" with no trailing newline.
func CSV(list []notes.DailyNote) string {
	sorted := make([]notes.DailyNote, len(list))
	copy(sorted, list)
	sort.SliceStable(sorted, func(i, j int) bool {
		return rowDate(sorted[i].Date) < rowDate(sorted[j].Date)
	})

	lines := make([]string, 0, len(sorted)+1)
	lines = append(lines, joinRecord(Header))
	for _, note := range sorted {
		lines = append(lines, joinRecord([]string{
			rowDate(note.Date),
			note.TaskCategory,
			note.TaskDescription,
			note.TaskSummary,
		}))
	}
	return strings.Join(lines, "\n")
}

// Write streams CSV(list) to w.
func Write(w io.Writer, list []notes.DailyNote) error {
	_, err := io.WriteString(w, CSV(list))
	return err
}

// rowDate reduces a stored key to YYYY-MM-DD. Keys that do not parse are
// exported as stored.
func rowDate(key string) string {
	if canonical, err := notes.CanonicalDate(key); err == nil {
		return canonical
	}
	return key
}

func joinRecord(fields []string) string {
	escaped := make([]string, len(fields))
	for i, field := range fields {
		escaped[i] = escapeField(field)
	}
	return strings.Join(escaped, ",")
}

// escapeField quotes a field only when it holds a comma, quote, CR or LF.
func escapeField(value string) string {
	if !strings.ContainsAny(value, ",\"\r\n") {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
