package repository

import "errors"

// Common repository errors
var (
	// ErrContactNotFound is returned when no contact has the requested id
	ErrContactNotFound = errors.New("contact not found")

	// ErrTaskNotFound is returned when no task has the requested id
	ErrTaskNotFound = errors.New("task not found")

	// ErrUserExists is returned when signing up with an email that is taken
	ErrUserExists = errors.New("user already exists")
)
