package domain

import "errors"

// Error categories. Service errors wrap one of these so the HTTP layer can map
// them with errors.Is without knowing every concrete error.
var (
	ErrNotFound               = errors.New("not found")
	ErrConflict               = errors.New("conflict")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrForbidden              = errors.New("forbidden")
	ErrValidation             = errors.New("validation failed")
)
