/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_CarriesCodeAndMessage(t *testing.T) {
	err := New(ErrCodeNotFound, "config not found")

	var se *StructuredError
	if !errors.As(err, &se) {
		t.Fatalf("expected StructuredError, got %T", err)
	}
	assert.Equal(t, ErrCodeNotFound, se.Code)
	assert.Equal(t, "NOT_FOUND: config not found", err.Error())
}

func TestWrap_NilCauseReturnsNil(t *testing.T) {
	assert.NoError(t, Wrap(ErrCodeInternal, "should vanish", nil))
}

func TestWrap_PreservesCauseChain(t *testing.T) {
	cause := errors.New("disk gone")
	err := Wrap(ErrCodeUnavailable, "store unreachable", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk gone")
}

func TestWrapWithContext_KeepsDetails(t *testing.T) {
	err := WrapWithContext(ErrCodeUnknownContext, "context not found", nil,
		map[string]any{"context": "staging", "valid": []string{"dev", "prod"}})

	var se *StructuredError
	if !errors.As(err, &se) {
		t.Fatalf("expected StructuredError, got %T", err)
	}
	assert.Equal(t, "staging", se.Details["context"])
	assert.Equal(t, []string{"dev", "prod"}, se.Details["valid"])
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"structured", New(ErrCodeInvalidClientType, "bad type"), ErrCodeInvalidClientType},
		{"wrapped structured", fmt.Errorf("outer: %w", New(ErrCodeConfigUnavailable, "no serviceaccount")), ErrCodeConfigUnavailable},
		{"plain error defaults internal", errors.New("boom"), ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Fatalf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("resolution failed: %w", New(ErrCodeConfigUnavailable, "not in cluster"))

	assert.True(t, IsCode(err, ErrCodeConfigUnavailable))
	assert.False(t, IsCode(err, ErrCodeNotFound))
	assert.False(t, IsCode(errors.New("plain"), ErrCodeConfigUnavailable))
}
