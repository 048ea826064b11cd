package services

import "errors"

// Sentinel errors the handlers translate into HTTP statuses.
var (
	ErrValidation   = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotReady     = errors.New("service not ready")
)
