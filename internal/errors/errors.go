// Package errors defines the domain error taxonomy and its single mapping
// to HTTP statuses. Services return these sentinels (or Store wrappers);
// the transport layer turns them into the {success:false, error} envelope.
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrUnauthorized     = errors.New("unauthorized")

	ErrProfileNotFound    = errors.New("profile not found")
	ErrPreferencesNotSet  = errors.New("preferences not set")
	ErrMatchNotFound      = errors.New("match not found")
	ErrChatNotFound       = errors.New("chat not found")
	ErrPoolNotFound       = errors.New("pool not found")
	ErrProfileExists      = errors.New("profile already exists")
	ErrNotMatchMember     = errors.New("not a member of this match")

	ErrAlreadyConfirmed = errors.New("you have already confirmed this date")
	ErrAlreadyConfirmedElsewhere = errors.New(
		"you have already confirmed a date with someone else; you can only confirm one match")
	ErrChatExpired = errors.New(
		"this conversation has expired; one of you has already confirmed with someone else")

	ErrInvalidInput = errors.New("invalid input")
)

// StoreError wraps a persistence failure with enough context (operation,
// key) to diagnose it. It is never swallowed: a failed read mid-algorithm
// fails the whole operation.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("store: %s (%s): %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Store builds a StoreError.
func Store(op, key string, err error) error {
	return &StoreError{Op: op, Key: key, Err: err}
}

// Invalid builds a validation error carrying a caller-facing message.
func Invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

// HTTPStatus maps a domain error to an HTTP status code for the envelope.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrNotMatchMember):
		return http.StatusForbidden
	case errors.Is(err, ErrProfileNotFound),
		errors.Is(err, ErrPreferencesNotSet),
		errors.Is(err, ErrMatchNotFound),
		errors.Is(err, ErrChatNotFound),
		errors.Is(err, ErrPoolNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyConfirmed),
		errors.Is(err, ErrAlreadyConfirmedElsewhere),
		errors.Is(err, ErrChatExpired),
		errors.Is(err, ErrProfileExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the caller-facing error string. Store failures are
// reported generically; their detail belongs in logs, not responses.
func Message(err error) string {
	var se *StoreError
	if errors.As(err, &se) {
		return "a storage error occurred, please retry"
	}
	return err.Error()
}
