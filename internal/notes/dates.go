package notes

import (
	"fmt"
	"strings"
	"time"

	"standup/internal/services"
)

// DateLayout is the canonical storage form of a note key.
const DateLayout = "2006-01-02"

// ParseDate accepts a calendar date (YYYY-MM-DD) or a full timestamp and
// returns the calendar day as UTC midnight. For timestamps only the part
// before 'T' is used, so "2024-03-05T23:30:00-08:00" is March 5th regardless
// of its offset.
func ParseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if idx := strings.IndexByte(trimmed, 'T'); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	if trimmed == "" {
		return time.Time{}, services.Wrap(services.ErrValidation, "notes", "parse date", "date is required", nil)
	}
	day, err := time.ParseInLocation(DateLayout, trimmed, time.UTC)
	if err != nil {
		return time.Time{}, services.Wrap(services.ErrValidation, "notes", "parse date",
			fmt.Sprintf("invalid date %q (want YYYY-MM-DD)", value), nil)
	}
	return day, nil
}

// CanonicalDate normalizes value to YYYY-MM-DD.
func CanonicalDate(value string) (string, error) {
	day, err := ParseDate(value)
	if err != nil {
		return "", err
	}
	return FormatDate(day), nil
}

// FormatDate renders the calendar day of t in canonical form.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns the canonical key for the current UTC day.
func Today() string {
	return FormatDate(time.Now().UTC())
}

// dayBounds returns the half-open key range [day, day+1) covering every key
// stored for the calendar day, including legacy keys carrying a time part.
func dayBounds(day time.Time) (string, string) {
	return FormatDate(day), FormatDate(day.AddDate(0, 0, 1))
}

// MonthBounds returns the first and last calendar day of a month.
func MonthBounds(year int, month time.Month) (time.Time, time.Time, error) {
	if month < time.January || month > time.December {
		return time.Time{}, time.Time{}, services.Wrap(services.ErrValidation, "notes", "month",
			fmt.Sprintf("month %d out of range", month), nil)
	}
	if year < 1 || year > 9999 {
		return time.Time{}, time.Time{}, services.Wrap(services.ErrValidation, "notes", "month",
			fmt.Sprintf("year %d out of range", year), nil)
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1), nil
}
