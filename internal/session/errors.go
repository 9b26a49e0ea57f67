package session

import "errors"

// Sentinel errors for session operations; check with errors.Is().
var (
	// ErrSessionNotFound indicates the session ID has no live record in
	// the store. Distinct from an existing session with empty history.
	ErrSessionNotFound = errors.New("session not found")

	// ErrCorruptSession indicates the stored history is not a valid JSON
	// array. The record is surfaced as-is, never auto-repaired.
	ErrCorruptSession = errors.New("corrupt session data")
)
