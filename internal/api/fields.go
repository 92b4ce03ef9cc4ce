package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"standup/internal/notes"
)

// Field records whether a JSON member was present. An explicit null sets
// both Set and Null.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns a present field holding value.
func Some[T any](value T) Field[T] {
	return Field[T]{Set: true, Value: value}
}

// Null returns a present field holding an explicit null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// IsZero reports whether the member was absent, for omitzero.
func (f Field[T]) IsZero() bool {
	return !f.Set
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

// MarshalJSON implements json.Marshaler.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

var bulletMarker = regexp.MustCompile(`^[-•*]\s*`)

// ListField is a list of strings that also decodes from a legacy
// newline-separated string.
type ListField []string

// UnmarshalJSON accepts an array of strings, a string, or null.
func (l *ListField) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")):
		*l = ListField{}
		return nil
	case trimmed[0] == '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*l = SplitLegacyList(text)
		return nil
	case trimmed[0] == '[':
		var values []string
		if err := json.Unmarshal(trimmed, &values); err != nil {
			return fmt.Errorf("list must contain strings: %w", err)
		}
		out := make(ListField, 0, len(values))
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("list must be a string or an array, got %s", trimmed)
	}
}

// MarshalJSON always emits an array.
func (l ListField) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// SplitLegacyList splits a stored bullet string into items, dropping blank
// lines and a leading "-", "*" or "•" marker on each.
func SplitLegacyList(text string) ListField {
	out := ListField{}
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		item := strings.TrimSpace(bulletMarker.ReplaceAllString(strings.TrimSpace(line), ""))
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// ActionItemList is a list of action items that also decodes from an array
// encoded as a JSON string.
type ActionItemList []ActionItem

// UnmarshalJSON accepts an array, a string holding an array, or null.
// A string that does not hold an array decodes to an empty list. Entries
// that are not objects or have no text are dropped.
func (a *ActionItemList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*a = ActionItemList{}
		return nil
	}
	if trimmed[0] == '"' {
		var encoded string
		if err := json.Unmarshal(trimmed, &encoded); err != nil {
			return err
		}
		encoded = strings.TrimSpace(encoded)
		if encoded == "" || encoded[0] != '[' {
			*a = ActionItemList{}
			return nil
		}
		trimmed = []byte(encoded)
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return fmt.Errorf("actionItems: %w", err)
	}
	out := make(ActionItemList, 0, len(entries))
	for i, entry := range entries {
		var fields map[string]any
		if err := json.Unmarshal(entry, &fields); err != nil || fields == nil {
			continue
		}
		item := notes.ActionItemFromFields(fields)
		if item.Text == "" {
			continue
		}
		if item.ID == "" {
			item.ID = strconv.Itoa(i + 1)
		}
		out = append(out, item)
	}
	*a = out
	return nil
}

// MarshalJSON always emits an array.
func (a ActionItemList) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]ActionItem(a))
}
