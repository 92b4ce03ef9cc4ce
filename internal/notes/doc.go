// Package notes persists daily standup notes in SQLite.
//
// Each calendar date holds at most one note, keyed by its canonical
// YYYY-MM-DD form. Writes go through Upsert, a single INSERT ... ON CONFLICT
// statement that only overwrites the fields present in the Patch. Deletes are
// idempotent: an exact-key miss falls back to removing any row whose key lies
// inside the calendar day, which covers keys written with a time component,
// and finding nothing is still a success.
//
// List-valued fields (yesterday, today, blockers, action items) are stored as
// JSON arrays and come back as slices.
package notes
