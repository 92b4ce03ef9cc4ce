// Package daemon runs the long-lived standup server process.
//
// It wires configuration, the note store, and the assist services into a
// single lifecycle with flock-based locking so only one server owns a data
// directory at a time. The HTTP API lives here too: every route shares the
// same middleware chain (request IDs, optional bearer auth, panic recovery,
// access logging) and the same response envelope.
//
// Keep orchestration and transport here. Note semantics live in
// internal/notes and model calls in internal/assist.
package daemon
