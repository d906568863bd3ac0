// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reply

import "errors"

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from a reply backend.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches sentinel errors by type so wrapped variants still compare equal.
func (e *ClientError) Is(target error) bool {
	var t *ClientError
	if !errors.As(target, &t) {
		return false
	}
	return t.Type == e.Type && t.Type != ErrTypeUnknown
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeNotRunning
	ErrTypeTimeout
	ErrTypeModelNotFound
	ErrTypeConnection
	ErrTypeInvalidResponse
	ErrTypeEmptyPrompt
)

// Sentinel errors for easy checking.
var (
	ErrNotRunning    = &ClientError{Type: ErrTypeNotRunning, Message: "Ollama is not running"}
	ErrTimeout       = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrModelNotFound = &ClientError{Type: ErrTypeModelNotFound, Message: "model not found"}
	ErrEmptyPrompt   = &ClientError{Type: ErrTypeEmptyPrompt, Message: "prompt is empty"}
)

// IsNotRunning checks if an error indicates the backend is not reachable.
func IsNotRunning(err error) bool { return errors.Is(err, ErrNotRunning) }

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool { return errors.Is(err, ErrTimeout) }

// IsModelNotFound checks if an error is a model not found error.
func IsModelNotFound(err error) bool { return errors.Is(err, ErrModelNotFound) }
