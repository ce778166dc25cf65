// Package apperr defines the error kinds surfaced by the study engine.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers
type Kind string

const (
	KindValidation Kind = "VALIDATION_ERROR"
	KindNotFound   Kind = "NOT_FOUND"
	KindStore      Kind = "STORE_ERROR"
)

// Error is a classified error with an optional cause
type Error struct {
	Kind    Kind   `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports bad caller input; nothing was persisted
func Validation(message string, details string) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

// NotFound reports a missing target entity
func NotFound(resource string, id string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Details: id,
	}
}

// Store wraps a failure of the underlying store
func Store(op string, err error) *Error {
	return &Error{Kind: KindStore, Message: op, Err: err}
}

// IsKind reports whether err, or anything it wraps, is an *Error of kind k
func IsKind(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}
