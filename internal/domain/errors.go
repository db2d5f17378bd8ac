package domain

import "errors"

// Sentinel errors shared across aggregates. Services return these and
// controllers pick status codes with errors.Is; aggregate-specific errors
// (not found, duplicates, transition conflicts) live next to their types.
var (
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
)
