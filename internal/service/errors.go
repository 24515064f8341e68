package service

import (
	"errors"
	"fmt"
)

var (
	// ErrTransactionFailed is returned when a mined claim transaction reverted.
	ErrTransactionFailed = errors.New("transaction failed")
	// ErrClaimNotFound is returned for a token with no stored claim.
	ErrClaimNotFound = errors.New("claim not found")
	// ErrNoSession is returned when an operation needs a click session and none exists.
	ErrNoSession = errors.New("no click session")
)

// InputError reports a missing or malformed argument. It is raised before any
// network call.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("missing required field: %s", e.Field)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ValidationError reports a claim that failed local or on-chain verification.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func missing(field string) error {
	return &InputError{Field: field}
}

func invalid(field, format string, args ...interface{}) error {
	return &InputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
