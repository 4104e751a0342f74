// internal/services/errors.go
package services

import (
	"errors"

	"github.com/javajoker/agrimarket-backend/internal/i18n"
)

// Error kinds surfaced to callers. Anything else is a store fault.
var (
	ErrBadRequest      = errors.New("bad request")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

// Error pairs an error kind with a translatable message.
type Error struct {
	Kind error
	Key  string
	Args []interface{}
}

func newError(kind error, key string, args ...interface{}) *Error {
	return &Error{Kind: kind, Key: key, Args: args}
}

func (e *Error) Error() string {
	return e.Kind.Error() + ": " + i18n.T("en", e.Key, e.Args...)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Message renders the error for lang.
func (e *Error) Message(lang string) string {
	return i18n.T(lang, e.Key, e.Args...)
}
