// Package notecache is the client side of the standup API.
//
// Client wraps the HTTP routes served by the daemon. Cache layers a
// date-keyed map of notes over a Client, tracks the selected date, and pushes
// the selected note to watchers whenever either changes. A cache miss means
// "no note for this date yet"; entries are only replaced by server responses
// and only removed by a successful delete or an explicit Invalidate.
package notecache
