package domain

import "errors"

// Sentinel errors shared by services and repositories. Controllers map them to
// HTTP status codes with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidInput      = errors.New("invalid input")
	ErrAlreadyRegistered = errors.New("already registered for this event")
	ErrEventNotOpen      = errors.New("event is not open for registration")
)
