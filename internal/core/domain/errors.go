package domain

import "errors"

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("access forbidden")
	ErrStorageFailure = errors.New("storage failure")

	// ErrDuplicate is a StorageFailure caused by a unique key violation.
	ErrDuplicate = errors.New("duplicate key")
	// ErrReferenceViolation is a StorageFailure caused by a write that would
	// point at a missing record, or remove a record still pointed at.
	ErrReferenceViolation = errors.New("reference violation")

	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	ErrInvalidCredentials = errors.New("invalid credentials")
)
