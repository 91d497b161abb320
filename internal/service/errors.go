package service

import (
	"errors"

	"join/internal/repository"
)

var (
	ErrContactNotFound    = repository.ErrContactNotFound
	ErrTaskNotFound       = repository.ErrTaskNotFound
	ErrSubtaskNotFound    = errors.New("subtask not found")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrContactNameMissing = errors.New("contact name is required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoDrag             = errors.New("no task is being dragged")
)
