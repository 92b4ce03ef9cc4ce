package notes

import "time"

// ActionItem is a follow-up extracted from a note.
type ActionItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// DailyNote is the single record kept for one calendar date. Empty strings
// stand for absent optional values.
type DailyNote struct {
	ID              string
	Date            string
	RawText         string
	Yesterday       []string
	Today           []string
	Blockers        []string
	ProseSummary    string
	ActionItems     []ActionItem
	TaskCategory    string
	TaskDescription string
	TaskSummary     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Patch carries the fields to write in an upsert. A nil field is left
// untouched on an existing note and takes its default on a new one.
type Patch struct {
	RawText         *string
	Yesterday       *[]string
	Today           *[]string
	Blockers        *[]string
	ProseSummary    *string
	ActionItems     *[]ActionItem
	TaskCategory    *string
	TaskDescription *string
	TaskSummary     *string
}

// Empty reports whether the patch sets no fields.
func (p Patch) Empty() bool {
	return p.RawText == nil && p.Yesterday == nil && p.Today == nil && p.Blockers == nil &&
		p.ProseSummary == nil && p.ActionItems == nil && p.TaskCategory == nil &&
		p.TaskDescription == nil && p.TaskSummary == nil
}

// DeleteResult describes the outcome of a delete. Deleting a date with no
// note succeeds with Matched=false.
type DeleteResult struct {
	Matched bool
	// Lenient is set when the exact key missed and rows were removed by
	// calendar-day range instead.
	Lenient bool
	Rows    int64
}
