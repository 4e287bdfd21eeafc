package custom_errors

import (
	"errors"
)

// ILmnrError interface
type ILmnrError interface {
	error
	IsLmnrError() bool
	GetCode() int
}

// InvalidWindowError is a caller error: an inverted absolute range or a
// negative relative duration. Never retried.
type InvalidWindowError struct {
	Message string
}

func (e *InvalidWindowError) Error() string {
	return e.Message
}

func (e *InvalidWindowError) IsLmnrError() bool {
	return true
}

func (e *InvalidWindowError) GetCode() int {
	return 400
}

// BackingStoreError covers transport and row-decode failures talking to
// ClickHouse. Surfaced to the caller as retryable; this service does not
// retry queries itself.
type BackingStoreError struct {
	Message string
	Cause   error
}

func (e *BackingStoreError) Error() string {
	return e.Message
}

func (e *BackingStoreError) Unwrap() error {
	return e.Cause
}

func (e *BackingStoreError) IsLmnrError() bool {
	return true
}

func (e *BackingStoreError) GetCode() int {
	return 502
}

func NewInvalidWindowError(msg string) ILmnrError {
	return &InvalidWindowError{Message: msg}
}

// NewBackingStoreError wraps a ClickHouse transport or decode failure.
func NewBackingStoreError(err error) ILmnrError {
	var target ILmnrError
	if errors.As(err, &target) {
		return target
	}
	return &BackingStoreError{
		Message: "backing store unavailable: " + err.Error(),
		Cause:   err,
	}
}

func Unwrap[T ILmnrError](err error) (T, bool) {
	var target T
	if errors.As(err, &target) {
		return target, true
	}
	return target, false
}
