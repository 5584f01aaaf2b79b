package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found,
// e.g. a room with no checked-in reservation. Not retryable.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks before
// any store call was made. Never auto-retried.
var ErrValidation = errors.New("validation error")

// ErrAggregation indicates that a guest bill could not be fully composed
// because one of its parallel fetches failed. Retryable by reloading.
var ErrAggregation = errors.New("bill aggregation failed")

// ErrPersistence indicates that the store rejected a write. The raw store
// error is wrapped; the message is safe to surface to a user.
var ErrPersistence = errors.New("persistence error")

// ErrTimeout indicates an operation exceeded its deadline with the commit
// state unknown. Retryable only after a refresh.
var ErrTimeout = errors.New("operation timed out")

// ErrReadOnly indicates a mutation was rejected because the terminal has
// been offline past its grace window. Requires restored connectivity.
var ErrReadOnly = errors.New("terminal is read-only")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// AppError carries a status code and a user-presentable message alongside
// the underlying cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *AppError) Unwrap() error {
	return e.Err
}
