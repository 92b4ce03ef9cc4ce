package api

import (
	"encoding/json"
	"strings"
	"time"

	"standup/internal/assist"
	"standup/internal/notes"
	"standup/internal/taxonomy"
)

// FromNote converts a stored note to its API representation.
func FromNote(note *notes.DailyNote) *Note {
	if note == nil {
		return nil
	}
	dto := &Note{
		ID:              note.ID,
		Date:            note.Date,
		RawText:         note.RawText,
		Yesterday:       ListField(nonNilStrings(note.Yesterday)),
		Today:           ListField(nonNilStrings(note.Today)),
		Blockers:        ListField(nonNilStrings(note.Blockers)),
		ProseSummary:    optional(note.ProseSummary),
		ActionItems:     ActionItemList(note.ActionItems),
		TaskCategory:    optional(note.TaskCategory),
		TaskDescription: optional(note.TaskDescription),
		TaskSummary:     optional(note.TaskSummary),
	}
	if dto.ActionItems == nil {
		dto.ActionItems = ActionItemList{}
	}
	if !note.CreatedAt.IsZero() {
		dto.CreatedAt = note.CreatedAt.UTC().Format(dateTimeFormat)
	}
	if !note.UpdatedAt.IsZero() {
		dto.UpdatedAt = note.UpdatedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromNotes converts a slice of stored notes. The result is never nil so it
// encodes as an array.
func FromNotes(list []notes.DailyNote) []Note {
	out := make([]Note, 0, len(list))
	for i := range list {
		out = append(out, *FromNote(&list[i]))
	}
	return out
}

// DailyNote converts the transport form back to the domain model. Keys that
// carry a time component are reduced to their calendar date.
func (n Note) DailyNote() notes.DailyNote {
	date := n.Date
	if canonical, err := notes.CanonicalDate(date); err == nil {
		date = canonical
	}
	out := notes.DailyNote{
		ID:              n.ID,
		Date:            date,
		RawText:         n.RawText,
		Yesterday:       nonNilStrings(n.Yesterday),
		Today:           nonNilStrings(n.Today),
		Blockers:        nonNilStrings(n.Blockers),
		ProseSummary:    deref(n.ProseSummary),
		ActionItems:     []notes.ActionItem(n.ActionItems),
		TaskCategory:    deref(n.TaskCategory),
		TaskDescription: deref(n.TaskDescription),
		TaskSummary:     deref(n.TaskSummary),
	}
	if out.ActionItems == nil {
		out.ActionItems = []notes.ActionItem{}
	}
	if t, err := time.Parse(time.RFC3339Nano, n.CreatedAt); err == nil {
		out.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, n.UpdatedAt); err == nil {
		out.UpdatedAt = t
	}
	return out
}

// Patch converts the present members of the input to a store patch. An
// explicit null clears the field.
func (in NoteInput) Patch() notes.Patch {
	var p notes.Patch
	p.RawText = stringPatch(in.RawText)
	p.Yesterday = listPatch(in.Yesterday)
	p.Today = listPatch(in.Today)
	p.Blockers = listPatch(in.Blockers)
	p.ProseSummary = stringPatch(in.ProseSummary)
	if in.ActionItems.Set {
		items := []notes.ActionItem(in.ActionItems.Value)
		if items == nil {
			items = []notes.ActionItem{}
		}
		p.ActionItems = &items
	}
	p.TaskCategory = stringPatch(in.TaskCategory)
	p.TaskDescription = stringPatch(in.TaskDescription)
	p.TaskSummary = stringPatch(in.TaskSummary)
	return p
}

// InputFromPatch builds the request body for a patch. Empty optional strings
// are sent as null.
func InputFromPatch(date string, p notes.Patch) NoteInput {
	var in NoteInput
	if date != "" {
		in.Date = Some(date)
	}
	if p.RawText != nil {
		in.RawText = Some(*p.RawText)
	}
	in.Yesterday = listInput(p.Yesterday)
	in.Today = listInput(p.Today)
	in.Blockers = listInput(p.Blockers)
	in.ProseSummary = optionalInput(p.ProseSummary)
	if p.ActionItems != nil {
		in.ActionItems = Some(ActionItemList(*p.ActionItems))
	}
	in.TaskCategory = optionalInput(p.TaskCategory)
	in.TaskDescription = optionalInput(p.TaskDescription)
	in.TaskSummary = optionalInput(p.TaskSummary)
	return in
}

// FromProcessed converts a structuring result.
func FromProcessed(p assist.ProcessedNote) ProcessedNote {
	out := ProcessedNote{
		Yesterday:    nonNilStrings(p.Yesterday),
		Today:        nonNilStrings(p.Today),
		Blockers:     nonNilStrings(p.Blockers),
		ProseSummary: p.ProseSummary,
		ActionItems:  p.ActionItems,
	}
	if out.ActionItems == nil {
		out.ActionItems = []ActionItem{}
	}
	return out
}

// FromClassification converts a classifier result.
func FromClassification(c assist.Classification) Classification {
	return Classification{
		TaskCategory:    c.TaskCategory,
		TaskDescription: c.TaskDescription,
		TaskSummary:     c.TaskSummary,
	}
}

// Input converts the request to classifier input.
func (r ClassifyRequest) Input() assist.ClassificationInput {
	return assist.ClassificationInput{
		Yesterday:    []string(r.Yesterday),
		Today:        []string(r.Today),
		Blockers:     []string(r.Blockers),
		ProseSummary: r.ProseSummary,
		RawText:      r.RawText,
	}
}

// Taxonomy returns the category table in order.
func Taxonomy() TaxonomyResponse {
	names := taxonomy.Categories()
	resp := TaxonomyResponse{Categories: make([]TaxonomyCategory, 0, len(names))}
	for _, name := range names {
		resp.Categories = append(resp.Categories, TaxonomyCategory{
			Name:         name,
			Descriptions: taxonomy.DescriptionsFor(name),
		})
	}
	category, description := taxonomy.Fallback()
	resp.Fallback = Classification{TaskCategory: category, TaskDescription: description}
	return resp
}

// MarshalData encodes value for Envelope.Data. A nil value encodes as null.
func MarshalData(value any) (json.RawMessage, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

func stringPatch(f Field[string]) *string {
	if !f.Set {
		return nil
	}
	value := ""
	if !f.Null {
		value = f.Value
	}
	return &value
}

func listPatch(f Field[ListField]) *[]string {
	if !f.Set {
		return nil
	}
	values := nonNilStrings(f.Value)
	return &values
}

func listInput(values *[]string) Field[ListField] {
	if values == nil {
		return Field[ListField]{}
	}
	return Some(ListField(nonNilStrings(*values)))
}

func optionalInput(value *string) Field[string] {
	if value == nil {
		return Field[string]{}
	}
	if strings.TrimSpace(*value) == "" {
		return Null[string]()
	}
	return Some(*value)
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
