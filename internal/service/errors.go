package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so callers can decide abort-vs-skip and map
// to an HTTP status without string matching.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	// KindFeed covers upstream feed failures (network, auth, rate limit).
	KindFeed
	// KindStore covers persistence failures.
	KindStore
	// KindValidation covers rejected input; nothing was written.
	KindValidation
	KindNotFound
	// KindConflict covers operations invalid for the entity's current state.
	KindConflict
)

// Error is a structured service error: a kind plus a human-readable message.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the kind of a service error, KindInternal for anything else.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

func feedError(msg string, err error) *Error {
	return &Error{Kind: KindFeed, Message: msg, Err: err}
}

func storeError(msg string, err error) *Error {
	return &Error{Kind: KindStore, Message: msg, Err: err}
}

func validationError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func notFoundError(msg string, err error) *Error {
	return &Error{Kind: KindNotFound, Message: msg, Err: err}
}

func conflictError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}
