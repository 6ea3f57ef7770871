// Package apperr holds the error taxonomy shared by the stores and services.
// Services wrap these sentinels with context; the HTTP layer maps them to status codes.
package apperr

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write would duplicate an existing grant.
	ErrConflict = errors.New("conflict")
	// ErrInvalidCredentials is returned when the password does not match. It never says which field was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateEmail is returned when registering an email that already exists.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrUnauthorized is returned when an operation needs an authenticated caller and has none.
	ErrUnauthorized = errors.New("unauthorized")
)

// Message is an error whose text may be shown to clients. It unwraps to one of the sentinels above.
type Message struct {
	Kind error
	Text string
}

// New returns a Message of the given kind.
func New(kind error, text string) error {
	return &Message{Kind: kind, Text: text}
}

func (e *Message) Error() string { return e.Text }

func (e *Message) Unwrap() error { return e.Kind }

// ClientMessage returns the client-facing text carried by err, if any.
func ClientMessage(err error) (string, bool) {
	var m *Message
	if errors.As(err, &m) {
		return m.Text, true
	}
	return "", false
}

// ValidationError reports malformed input, one message per field.
type ValidationError struct {
	Fields map[string]string
}

// NewValidation returns a ValidationError with a single field message.
func NewValidation(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// Add records msg for field and returns the receiver so calls can be chained.
func (e *ValidationError) Add(field, msg string) *ValidationError {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
	return e
}

// OrNil returns nil when no field was recorded, so callers can build errors incrementally.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidation reports whether err wraps a ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
