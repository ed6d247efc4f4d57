// Package apperrors defines the error taxonomy shared by the valuation core.
//
// Every error carries a Code. Startup failures (missing or corrupt artifacts)
// are not recoverable; per-request failures are, and the HTTP layer maps the
// code to a status without inspecting messages.
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a stable, machine readable error identifier.
type Code string

const (
	CodeMissingArtifact     Code = "MISSING_ARTIFACT"
	CodeCorruptArtifact     Code = "CORRUPT_ARTIFACT"
	CodeNoLocationAvailable Code = "NO_LOCATION_AVAILABLE"
	CodeAmbiguousLocation   Code = "AMBIGUOUS_LOCATION"
	CodeInvalidInput        Code = "INVALID_INPUT"
	CodeKeyConsistency      Code = "KEY_CONSISTENCY"
	CodeModelUnavailable    Code = "MODEL_UNAVAILABLE"
)

// Sentinels for errors.Is. Matching is by code only.
var (
	ErrMissingArtifact     = &Error{Code: CodeMissingArtifact}
	ErrCorruptArtifact     = &Error{Code: CodeCorruptArtifact}
	ErrNoLocationAvailable = &Error{Code: CodeNoLocationAvailable}
	ErrAmbiguousLocation   = &Error{Code: CodeAmbiguousLocation}
	ErrInvalidInput        = &Error{Code: CodeInvalidInput}
	ErrKeyConsistency      = &Error{Code: CodeKeyConsistency}
	ErrModelUnavailable    = &Error{Code: CodeModelUnavailable}
)

// Error is a structured application error.
type Error struct {
	Code        Code                   `json:"code"`
	Message     string                 `json:"message"`
	Details     string                 `json:"details,omitempty"`
	Recoverable bool                   `json:"recoverable"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`

	cause error
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// NewMissingArtifactError reports an absent score table or chunk set.
// expected and found are chunk counts; pass 0, 0 for single-file artifacts.
func NewMissingArtifactError(artifact string, expected, found int, missing []string) *Error {
	details := fmt.Sprintf("artifact: %s", artifact)
	if expected > 0 {
		details = fmt.Sprintf("artifact: %s, expected %d chunks, found %d", artifact, expected, found)
		if len(missing) > 0 {
			details += ", missing: " + strings.Join(missing, ", ")
		}
	}
	return &Error{
		Code:        CodeMissingArtifact,
		Message:     "required artifact not found",
		Details:     details,
		Recoverable: false,
		Metadata: map[string]interface{}{
			"artifact": artifact,
			"expected": expected,
			"found":    found,
			"missing":  missing,
		},
	}
}

// NewCorruptArtifactError wraps a deserialization failure.
func NewCorruptArtifactError(artifact string, err error) *Error {
	return &Error{
		Code:        CodeCorruptArtifact,
		Message:     "artifact could not be deserialized",
		Details:     fmt.Sprintf("artifact: %s, error: %v", artifact, err),
		Recoverable: false,
		Metadata:    map[string]interface{}{"artifact": artifact},
		cause:       err,
	}
}

// NewNoLocationAvailableError reports an empty candidate set for a ward filter.
func NewNoLocationAvailableError(ward string) *Error {
	return &Error{
		Code:        CodeNoLocationAvailable,
		Message:     "no location matches the selected ward",
		Details:     fmt.Sprintf("ward: %s", ward),
		Recoverable: true,
		Metadata:    map[string]interface{}{"ward": ward},
	}
}

// NewAmbiguousLocationError reports a display name shared by several keys.
func NewAmbiguousLocationError(display string, candidates []string) *Error {
	return &Error{
		Code:        CodeAmbiguousLocation,
		Message:     "town name matches more than one location",
		Details:     fmt.Sprintf("town: %s, candidates: %s", display, strings.Join(candidates, ", ")),
		Recoverable: true,
		Metadata: map[string]interface{}{
			"town":       display,
			"candidates": candidates,
		},
	}
}

// NewInvalidInputError reports out-of-range or unknown user input.
func NewInvalidInputError(field, details string) *Error {
	return &Error{
		Code:        CodeInvalidInput,
		Message:     fmt.Sprintf("invalid %s", field),
		Details:     details,
		Recoverable: true,
		Metadata:    map[string]interface{}{"field": field},
	}
}

// NewKeyConsistencyError is an internal invariant violation: a resolved key
// is missing from the table it was derived from.
func NewKeyConsistencyError(key string) *Error {
	return &Error{
		Code:        CodeKeyConsistency,
		Message:     "resolved location key is missing from the score table",
		Details:     fmt.Sprintf("key: %s", key),
		Recoverable: false,
		Metadata:    map[string]interface{}{"key": key},
	}
}

// NewModelUnavailableError is returned per request while the service is degraded.
func NewModelUnavailableError(cause error) *Error {
	return &Error{
		Code:        CodeModelUnavailable,
		Message:     "valuation model is unavailable",
		Details:     fmt.Sprint(cause),
		Recoverable: false,
		cause:       cause,
	}
}
