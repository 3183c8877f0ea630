package repository

import "errors"

// Errors returned by repositories backed by the external REST backend.
// Implementations wrap them so callers can match with errors.Is.
var (
	ErrNotFound         = errors.New("record not found")
	ErrConflict         = errors.New("record conflicts with existing data")
	ErrUnauthorized     = errors.New("backend refused the credentials")
	ErrRejected         = errors.New("backend rejected the request")
	ErrUnavailable      = errors.New("backend unavailable")
	ErrUnexpectedStatus = errors.New("unexpected backend response")
)
