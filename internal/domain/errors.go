package domain

import "errors"

// Sentinel errors for the attendance workflow. Services return these (possibly
// wrapped) and controllers match them with errors.Is to pick a status code.
var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrDeadlinePassed    = errors.New("registration deadline has passed")
	ErrAlreadyRegistered = errors.New("already registered for this event")
	ErrAlreadyFinalized  = errors.New("attendance has already been submitted for this event")
	ErrInvalidInput      = errors.New("invalid input")
)
