// errors_test.go: tests for structured error definitions
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package properties

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		sourceMissing bool
		parseError    bool
	}{
		{
			name:          "source not found",
			err:           NewSourceNotFoundError("/etc/app.json", fmt.Errorf("no such file")),
			sourceMissing: true,
		},
		{
			name:          "not a regular file",
			err:           NewSourceNotRegularError("/etc"),
			sourceMissing: true,
		},
		{
			name:       "parse failure",
			err:        NewParseError("/etc/app.json", fmt.Errorf("unexpected EOF")),
			parseError: true,
		},
		{
			name:       "unsupported format",
			err:        NewUnsupportedFormatError("/etc/app.txt", "unknown"),
			parseError: true,
		},
		{
			name:       "invalid key",
			err:        NewInvalidKeyError(""),
			parseError: true,
		},
		{
			name:       "unsupported value",
			err:        NewUnsupportedValueError("k", make(chan int)),
			parseError: true,
		},
		{
			name:       "empty source",
			err:        NewSourceEmptyError("/etc/app.json"),
			parseError: true,
		},
		{
			name:       "env expansion",
			err:        NewEnvExpansionError("DB_HOST", fmt.Errorf("not set")),
			parseError: true,
		},
		{
			name: "plain error matches nothing",
			err:  fmt.Errorf("plain"),
		},
		{
			name: "nil error matches nothing",
			err:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.sourceMissing, IsSourceNotFound(tt.err))
			assert.Equal(t, tt.parseError, IsParseError(tt.err))
		})
	}
}

func TestErrorConstructors_CarryCause(t *testing.T) {
	cause := fmt.Errorf("disk exploded")
	err := NewParseError("/etc/app.json", cause)
	assert.Contains(t, err.Error(), "parse")

	wrapped := NewSourceNotFoundError("/tmp/x", cause)
	assert.True(t, IsSourceNotFound(wrapped))
	assert.False(t, IsParseError(wrapped))
}

func TestWatcherStopTimeoutError(t *testing.T) {
	err := NewWatcherStopTimeoutError(5 * time.Second)
	assert.Equal(t, ErrCodeWatcherStopTimeout, string(err.Code))
}

func TestListenerPanicError(t *testing.T) {
	err := NewListenerPanicError(2, "boom")
	assert.Equal(t, ErrCodeListenerPanic, string(err.Code))
}
