package repo

import "errors"

var (
	// ErrUnauthorized means the request's token does not verify for the
	// record's owning phone.
	ErrUnauthorized = errors.New("repo: unauthorized")
	// ErrInvalidInput means client-supplied data failed validation.
	ErrInvalidInput = errors.New("repo: invalid input")
	// ErrQuotaExceeded means the user already owns the maximum number of checks.
	ErrQuotaExceeded = errors.New("repo: quota exceeded")
	// ErrConflict means the user↔check linkage was found already broken.
	// It is a data integrity fault, not a normal miss.
	ErrConflict = errors.New("repo: integrity conflict")
)
