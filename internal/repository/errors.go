package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicatePhone is returned when a user insert collides with an
	// existing phone number.
	ErrDuplicatePhone = errors.New("phone number already registered")
)
