package notes

import (
	"encoding/json"
	"strconv"
	"strings"
)

// UnmarshalJSON accepts ids written as strings, numbers or booleans and reads
// completed by truthiness, so payloads from older clients still decode.
func (a *ActionItem) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*a = ActionItemFromFields(fields)
	return nil
}

// ActionItemFromFields builds an item from a decoded JSON object. The id and
// text are trimmed; a missing id stays empty for the caller to default.
func ActionItemFromFields(fields map[string]any) ActionItem {
	return ActionItem{
		ID:        strings.TrimSpace(scalarString(fields["id"])),
		Text:      strings.TrimSpace(scalarString(fields["text"])),
		Completed: truthy(fields["completed"]),
	}
}

func scalarString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// truthy follows JavaScript's Boolean(): null, false, 0 and "" are false,
// everything else is true.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	default:
		return true
	}
}
