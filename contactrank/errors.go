package contactrank

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	ErrNoMatches      ErrorKind = "no_matches"
	ErrInvalidContact ErrorKind = "invalid_contact"
	ErrIO             ErrorKind = "io"
	ErrStorage        ErrorKind = "storage"
	ErrNotFound       ErrorKind = "not_found"
	ErrReadOnly       ErrorKind = "read_only"
	ErrConfig         ErrorKind = "config"
)

type Error struct {
	Kind    ErrorKind
	Message string
	Field   string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	base := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Field != "" {
		base = fmt.Sprintf("%s (field=%s)", base, e.Field)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", base, e.Cause)
	}
	return base
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func Wrap(kind ErrorKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

func New(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// NoMatchesError reports that no contact contains the search term.
func NoMatchesError(term string) *Error {
	return &Error{Kind: ErrNoMatches, Message: fmt.Sprintf("no entries found for %q", term)}
}

func InvalidContactError(field, msg string) *Error {
	return &Error{Kind: ErrInvalidContact, Field: field, Message: msg}
}

func NotFoundError(id string) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("contact not found: %s", id)}
}

func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
