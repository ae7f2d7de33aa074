// Package apperr defines the error taxonomy the engine surfaces to callers.
package apperr

import (
	"errors"
	"fmt"
)

// Kind sentinels. Every engine error wraps exactly one of these so callers
// can branch with errors.Is without depending on message text.
var (
	// ErrValidation covers malformed, missing, or out-of-range input.
	ErrValidation = errors.New("validation error")
	// ErrNotFound covers references to absent entities.
	ErrNotFound = errors.New("not found")
	// ErrConflict covers uniqueness violations (duplicate name).
	ErrConflict = errors.New("conflict")
	// ErrAccess covers entities that exist but belong to another subscription.
	ErrAccess = errors.New("access denied")
	// ErrCapacity covers the per-item price-count limit.
	ErrCapacity = errors.New("capacity exceeded")
)

type Error struct {
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Kind != nil {
		return e.Kind.Error()
	}
	return "app error"
}

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

func Validationf(format string, args ...interface{}) *Error {
	return newError(ErrValidation, format, args...)
}

func NotFoundf(format string, args ...interface{}) *Error {
	return newError(ErrNotFound, format, args...)
}

func Conflictf(format string, args ...interface{}) *Error {
	return newError(ErrConflict, format, args...)
}

func Accessf(format string, args ...interface{}) *Error {
	return newError(ErrAccess, format, args...)
}

func Capacityf(format string, args ...interface{}) *Error {
	return newError(ErrCapacity, format, args...)
}
