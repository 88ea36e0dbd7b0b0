package domain

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session already exists")

	// ErrCompletionFailed is the single failure taxonomy for completion
	// calls. Callers check it with errors.Is and report the wrapped
	// description; the conversation is never mutated by a failed call.
	ErrCompletionFailed = errors.New("completion service call failed")

	ErrInvalidPreferences = errors.New("invalid preferences")
)
