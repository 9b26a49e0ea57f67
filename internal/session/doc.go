// Package session manages per-conversation history records in the
// key-value store.
//
// A session is an ordered sequence of turns keyed by an opaque string ID.
// After creation the history is always a well-formed JSON array, never
// null; only reading a nonexistent ID yields ErrSessionNotFound. Every
// mutating operation refreshes the session's TTL, so a conversation
// expires a fixed duration after its most recent write.
//
// Consistency: Append is a read-modify-write without cross-call locking.
// Concurrent appends to the same session may lose updates
// (last-writer-wins); this is an accepted limitation of the design, not a
// bug to compensate for. Appends to different sessions are independent.
package session
