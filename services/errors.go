package services

import (
	"errors"
	"strings"
)

// Sentinel errors for the services layer. Controllers map these onto HTTP
// statuses; everything else is treated as a persistence failure.
var (
	// ErrAlreadyExists is returned when registering a username that is taken.
	ErrAlreadyExists = errors.New("username already exists")
	// ErrInvalidCredentials covers both unknown usernames and wrong passwords
	// so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrForbidden is returned when the acting user does not own the record.
	ErrForbidden = errors.New("not allowed")
	// ErrInvalidSubject is returned for subjects outside the fixed vocabulary.
	ErrInvalidSubject = errors.New("invalid subject")
	// ErrUnknownPersona is returned for persona ids outside the fixed table.
	ErrUnknownPersona = errors.New("unknown persona")
	// ErrChatNotConfigured is returned when no completion API key is set.
	// Chat is unavailable but the rest of the application keeps working.
	ErrChatNotConfigured = errors.New("chat is not configured")
	// ErrCompletionFailed wraps upstream completion API failures.
	ErrCompletionFailed = errors.New("completion request failed")
)

// NormalizeUsername lowercases and trims a username. All lookups and writes go
// through this so "  Alice " and "alice" are the same account.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
