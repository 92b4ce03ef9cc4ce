// Package api defines the wire-format types shared by the HTTP server and its
// Go client. It translates notes.DailyNote into transport-friendly DTOs and
// request bodies back into notes.Patch values.
//
// # Key Types
//
// Envelope: every JSON response is {success, data?, error?, message?,
// pagination?}; transcription adds a top-level text member.
//
// Note: a stored note with camelCase members. Optional strings are null when
// empty; list members are always arrays.
//
// NoteInput: the body of POST /api/notes and PUT /api/notes/{date}. Each
// member records whether it was present so updates only touch what the
// caller sent. An explicit null clears a field.
//
// # Design Notes
//
// List members accept either a JSON array or a legacy newline-separated
// string with bullet markers. actionItems also accepts an array encoded as a
// JSON string, which older clients stored verbatim.
package api
