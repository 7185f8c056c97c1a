package storage

import (
	"errors"
)

var (
	// ErrNotFound is returned when the requested entry does not exist.
	ErrNotFound = errors.New("storage entry not found")

	errNotStarted = errors.New("storage module not started")
)
