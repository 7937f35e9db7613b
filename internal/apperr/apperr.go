// Package apperr classifies application errors so that each layer can decide
// how to surface them without string matching.
package apperr

import (
	"errors"
	"fmt"

	"github.com/mmynk/ekkora/internal/docstore"
)

// Kind is the class of an application error.
type Kind int

const (
	// Internal is anything not otherwise classified.
	Internal Kind = iota
	// Validation is a missing or invalid input; never sent to the store.
	Validation
	// Permission is a role-guard or store access rejection.
	Permission
	// NotFound is a referenced tenant, profile, or record that does not exist.
	NotFound
	// Conflict is a write that contradicts existing state.
	Conflict
	// Transient is a network or availability failure.
	Transient
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Permission:
		return "permission"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case Transient:
		return "transient"
	default:
		return "internal"
	}
}

// Error is a classified error with a user-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

func newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validationf returns a Validation error.
func Validationf(format string, args ...any) error { return newf(Validation, format, args...) }

// Permissionf returns a Permission error.
func Permissionf(format string, args ...any) error { return newf(Permission, format, args...) }

// NotFoundf returns a NotFound error.
func NotFoundf(format string, args ...any) error { return newf(NotFound, format, args...) }

// Conflictf returns a Conflict error.
func Conflictf(format string, args ...any) error { return newf(Conflict, format, args...) }

// Wrap attaches a kind and message to err. A nil err returns nil.
func Wrap(kind Kind, err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf classifies err. Document store sentinels are translated so callers
// can stay ignorant of the backend.
func KindOf(err error) Kind {
	if err == nil {
		return Internal
	}
	var e *Error
	if errors.As(err, &e) && (e.Kind != Internal || e.Err == nil) {
		return e.Kind
	}
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		return NotFound
	case errors.Is(err, docstore.ErrPermissionDenied):
		return Permission
	case errors.Is(err, docstore.ErrAlreadyExists):
		return Conflict
	case errors.Is(err, docstore.ErrUnavailable):
		return Transient
	}
	return Internal
}

// Is reports whether err is of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
