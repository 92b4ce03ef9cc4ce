package api

import (
	"encoding/json"

	"standup/internal/notes"
)

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Envelope is the outer shape of every JSON response.
type Envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data,omitempty"`
	Text       *string         `json:"text,omitempty"`
	Error      string          `json:"error,omitempty"`
	Message    string          `json:"message,omitempty"`
	Pagination *Pagination     `json:"pagination,omitempty"`
}

// Pagination describes a page of the full note listing.
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ActionItem is a follow-up extracted from a note.
type ActionItem = notes.ActionItem

// Note is the transport form of a stored note.
type Note struct {
	ID              string         `json:"id"`
	Date            string         `json:"date"`
	RawText         string         `json:"rawText"`
	Yesterday       ListField      `json:"yesterday"`
	Today           ListField      `json:"today"`
	Blockers        ListField      `json:"blockers"`
	ProseSummary    *string        `json:"proseSummary"`
	ActionItems     ActionItemList `json:"actionItems"`
	TaskCategory    *string        `json:"taskCategory"`
	TaskDescription *string        `json:"taskDescription"`
	TaskSummary     *string        `json:"taskSummary"`
	CreatedAt       string         `json:"createdAt,omitempty"`
	UpdatedAt       string         `json:"updatedAt,omitempty"`
}

// NoteInput is the body of a note write. Absent members are left untouched.
type NoteInput struct {
	Date            Field[string]         `json:"date,omitzero"`
	RawText         Field[string]         `json:"rawText,omitzero"`
	Yesterday       Field[ListField]      `json:"yesterday,omitzero"`
	Today           Field[ListField]      `json:"today,omitzero"`
	Blockers        Field[ListField]      `json:"blockers,omitzero"`
	ProseSummary    Field[string]         `json:"proseSummary,omitzero"`
	ActionItems     Field[ActionItemList] `json:"actionItems,omitzero"`
	TaskCategory    Field[string]         `json:"taskCategory,omitzero"`
	TaskDescription Field[string]         `json:"taskDescription,omitzero"`
	TaskSummary     Field[string]         `json:"taskSummary,omitzero"`
}

// ProcessRequest is the body of POST /api/process.
type ProcessRequest struct {
	RawText string `json:"rawText"`
}

// ProcessedNote is the result of structuring a raw note.
type ProcessedNote struct {
	Yesterday    []string     `json:"yesterday"`
	Today        []string     `json:"today"`
	Blockers     []string     `json:"blockers"`
	ProseSummary string       `json:"proseSummary"`
	ActionItems  []ActionItem `json:"actionItems"`
}

// ClassifyRequest is the body of POST /api/classify. List members accept a
// string or an array.
type ClassifyRequest struct {
	Yesterday    ListField `json:"yesterday,omitempty"`
	Today        ListField `json:"today,omitempty"`
	Blockers     ListField `json:"blockers,omitempty"`
	ProseSummary string    `json:"proseSummary,omitempty"`
	RawText      string    `json:"rawText,omitempty"`
}

// Classification is the taxonomy assignment for a day.
type Classification struct {
	TaskCategory    string `json:"taskCategory"`
	TaskDescription string `json:"taskDescription"`
	TaskSummary     string `json:"taskSummary"`
}

// TaxonomyCategory lists the descriptions allowed for one category.
type TaxonomyCategory struct {
	Name         string   `json:"name"`
	Descriptions []string `json:"descriptions"`
}

// TaxonomyResponse is the payload of GET /api/taxonomy, in table order.
type TaxonomyResponse struct {
	Categories []TaxonomyCategory `json:"categories"`
	Fallback   Classification     `json:"fallback"`
}

// ServerStatus reports server health for GET /api/status.
type ServerStatus struct {
	Running                 bool   `json:"running"`
	PID                     int    `json:"pid"`
	DatabasePath            string `json:"databasePath"`
	LockFilePath            string `json:"lockFilePath"`
	NoteCount               int    `json:"noteCount"`
	Model                   string `json:"model"`
	LLMConfigured           bool   `json:"llmConfigured"`
	TranscriptionConfigured bool   `json:"transcriptionConfigured"`
	StartedAt               string `json:"startedAt,omitempty"`
}

// DeleteResult reports what a delete removed.
type DeleteResult struct {
	Deleted int64 `json:"deleted"`
	Lenient bool  `json:"lenient,omitempty"`
}
