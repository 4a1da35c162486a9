// errors.go: structured error definitions for the go-properties library
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package properties

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/agilira/go-errors"
)

// Error codes for the go-properties library
const (
	// Source errors (1000-1099)
	ErrCodeSourceNotFound   = "PROPS_1001"
	ErrCodeSourceNotRegular = "PROPS_1002"
	ErrCodeSourceTooLarge   = "PROPS_1003"
	ErrCodeSourceEmpty      = "PROPS_1004"

	// Parse errors (1100-1199)
	ErrCodeParseError        = "PROPS_1101"
	ErrCodeUnsupportedFormat = "PROPS_1102"
	ErrCodeInvalidKey        = "PROPS_1103"
	ErrCodeUnsupportedValue  = "PROPS_1104"
	ErrCodeEnvExpansion      = "PROPS_1105"

	// Watcher errors (1200-1299)
	ErrCodeWatcherStopTimeout = "PROPS_1201"

	// Listener errors (1300-1399)
	ErrCodeListenerPanic = "PROPS_1301"
)

// Source error constructors

func NewSourceNotFoundError(path string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeSourceNotFound, "Property source not found").
		WithUserMessage("The configured property file cannot be accessed").
		WithContext("path", path).
		WithSeverity("error")
}

func NewSourceNotRegularError(path string) *errors.Error {
	return errors.New(ErrCodeSourceNotRegular, "Property source is not a regular file").
		WithUserMessage("The property source path must point to a regular file").
		WithContext("path", path).
		WithSeverity("error")
}

func NewSourceTooLargeError(path string, size, limit int64) *errors.Error {
	return errors.New(ErrCodeSourceTooLarge, "Property source exceeds size limit").
		WithUserMessage("The property file is too large to load").
		WithContext("path", path).
		WithContext("size_bytes", size).
		WithContext("limit_bytes", limit).
		WithSeverity("error")
}

func NewSourceEmptyError(path string) *errors.Error {
	return errors.New(ErrCodeSourceEmpty, "Property source is empty").
		WithUserMessage("The property file contains no data").
		WithContext("path", path).
		WithSeverity("error")
}

// Parse error constructors

func NewParseError(path string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeParseError, "Failed to parse property source").
		WithUserMessage("The property file could not be parsed").
		WithContext("path", path).
		WithSeverity("error")
}

func NewUnsupportedFormatError(path, format string) *errors.Error {
	return errors.New(ErrCodeUnsupportedFormat, "Unsupported property source format").
		WithUserMessage("The property file format is not supported").
		WithContext("path", path).
		WithContext("format", format).
		WithSeverity("error")
}

func NewInvalidKeyError(key string) *errors.Error {
	return errors.New(ErrCodeInvalidKey, "Invalid property key").
		WithUserMessage("Property keys must be non-empty strings").
		WithContext("key", key).
		WithSeverity("error")
}

func NewUnsupportedValueError(key string, value any) *errors.Error {
	return errors.New(ErrCodeUnsupportedValue, "Unsupported property value type").
		WithUserMessage("The property value cannot be represented as a scalar").
		WithContext("key", key).
		WithContext("go_type", typeName(value)).
		WithSeverity("error")
}

func NewEnvExpansionError(variable string, cause error) *errors.Error {
	return errors.Wrap(cause, ErrCodeEnvExpansion, "Environment variable expansion failed").
		WithUserMessage("A referenced environment variable could not be resolved").
		WithContext("variable", variable).
		WithSeverity("error")
}

// Watcher error constructors

func NewWatcherStopTimeoutError(timeout time.Duration) *errors.Error {
	return errors.New(ErrCodeWatcherStopTimeout, "Watcher stop timed out").
		WithUserMessage("The polling task did not exit within the stop timeout").
		WithContext("timeout", timeout.String()).
		WithSeverity("warning")
}

// Listener error constructors

func NewListenerPanicError(index int, recovered any) *errors.Error {
	return errors.New(ErrCodeListenerPanic, "Change listener panicked").
		WithUserMessage("A registered change listener failed during notification").
		WithContext("listener_index", index).
		WithContext("panic", recovered).
		WithSeverity("error")
}

// IsSourceNotFound reports whether err carries a source access error code.
func IsSourceNotFound(err error) bool {
	return hasErrorCode(err, ErrCodeSourceNotFound, ErrCodeSourceNotRegular)
}

// IsParseError reports whether err carries one of the recoverable
// parse-time error codes.
func IsParseError(err error) bool {
	return hasErrorCode(err,
		ErrCodeParseError,
		ErrCodeUnsupportedFormat,
		ErrCodeInvalidKey,
		ErrCodeUnsupportedValue,
		ErrCodeEnvExpansion,
		ErrCodeSourceEmpty,
		ErrCodeSourceTooLarge,
	)
}

func typeName(value any) string {
	return fmt.Sprintf("%T", value)
}

func hasErrorCode(err error, codes ...string) bool {
	if err == nil {
		return false
	}
	var propsErr *errors.Error
	if !stderrors.As(err, &propsErr) {
		return false
	}
	for _, code := range codes {
		if string(propsErr.Code) == code {
			return true
		}
	}
	return false
}
