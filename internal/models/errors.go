package models

import "errors"

var (
	// ErrNotFound is wrapped by data-access errors when the requested row does not exist
	ErrNotFound = errors.New("not found")
	// ErrConflict is wrapped when a write violates a uniqueness rule
	ErrConflict = errors.New("already exists")
)
