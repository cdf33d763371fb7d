package service

import "errors"

// Failure taxonomy shared by all services. Handlers map these onto HTTP
// status codes; anything else is surfaced as an internal error.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)
