package storage

import "errors"

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("storage: not found")
	// ErrDuplicateKey is returned when an insert collides with an existing
	// (player, season, week) slot.
	ErrDuplicateKey = errors.New("storage: duplicate key")
	// ErrInvalidInput is returned when a caller passes a row that cannot be
	// persisted (missing player id, non-positive week).
	ErrInvalidInput = errors.New("storage: invalid input")
)
