package domain

import "errors"

var (
	// Authentication failures.
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidToken      = errors.New("invalid token")
	ErrExpiredToken      = errors.New("expired token")
	ErrUnknownSubject    = errors.New("unknown subject")
	ErrUnauthorized      = errors.New("unauthorized")

	// Resource failures.
	ErrNotFound       = errors.New("not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrDuplicateEmail = errors.New("email already exists")
)
