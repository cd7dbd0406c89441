/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

// Package errors provides structured errors with stable machine-readable codes.
//
// Errors carry an ErrorCode, a human-readable message, an optional wrapped cause
// and an optional details map. Callers branch on codes with CodeOf or IsCode
// instead of matching message text.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a class of failure independent of its message text.
type ErrorCode string

const (
	// ErrCodeInvalidRequest indicates malformed or out-of-range caller input.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"

	// ErrCodeNotFound indicates a named object that does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeUnknownContext indicates a kubeconfig context name that is not
	// present in the loaded document. Details carry "context" (the requested
	// name) and "valid" (the full set of known context names).
	ErrCodeUnknownContext ErrorCode = "UNKNOWN_CONTEXT"

	// ErrCodeConfigUnavailable indicates the expected absence of ambient
	// in-cluster configuration. It drives fallback to the local kubeconfig
	// and must not be used for generic I/O or parse failures.
	ErrCodeConfigUnavailable ErrorCode = "CONFIG_UNAVAILABLE"

	// ErrCodeInvalidClientType indicates a resource family outside the
	// supported set. Details carry "type" and "valid".
	ErrCodeInvalidClientType ErrorCode = "INVALID_CLIENT_TYPE"

	// ErrCodeUnavailable indicates a dependency that could not be reached.
	ErrCodeUnavailable ErrorCode = "UNAVAILABLE"

	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// StructuredError is the concrete error type carrying a code, message,
// optional cause and optional details.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Details map[string]any
	Err     error
}

func (e *StructuredError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *StructuredError) Unwrap() error {
	return e.Err
}

// New returns a StructuredError with the given code and message.
func New(code ErrorCode, message string) error {
	return &StructuredError{Code: code, Message: message}
}

// Newf returns a StructuredError with a formatted message.
func Newf(code ErrorCode, format string, args ...any) error {
	return &StructuredError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns a StructuredError wrapping cause. A nil cause yields nil.
func Wrap(code ErrorCode, message string, cause error) error {
	if cause == nil {
		return nil
	}
	return &StructuredError{Code: code, Message: message, Err: cause}
}

// WrapWithContext returns a StructuredError wrapping cause with a details map.
// Unlike Wrap, a nil cause still yields an error; details alone can justify one.
func WrapWithContext(code ErrorCode, message string, cause error, details map[string]any) error {
	return &StructuredError{Code: code, Message: message, Err: cause, Details: details}
}

// CodeOf extracts the ErrorCode from err, walking the wrap chain.
// Errors without a structured code report ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}

// IsCode reports whether err (or anything it wraps) carries the given code.
func IsCode(err error, code ErrorCode) bool {
	var se *StructuredError
	return errors.As(err, &se) && se.Code == code
}
