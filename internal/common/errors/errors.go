// Package errors provides standardized error handling for the simulation engine.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Engine errors
	ErrCodeCannotEvaluate      ErrorCode = "CANNOT_EVALUATE"
	ErrCodeCannotDecide        ErrorCode = "CANNOT_DECIDE"
	ErrCodeQueueEmpty          ErrorCode = "QUEUE_EMPTY"
	ErrCodePoolExhausted       ErrorCode = "POOL_EXHAUSTED"
	ErrCodeSessionStateInvalid ErrorCode = "SESSION_STATE_INVALID"

	// Content errors
	ErrCodeContentLoadFailed ErrorCode = "CONTENT_LOAD_FAILED"
	ErrCodeContentInvalid    ErrorCode = "CONTENT_INVALID"
	ErrCodeQuestNotFound     ErrorCode = "QUEST_NOT_FOUND"
	ErrCodeUnknownTraitRef   ErrorCode = "UNKNOWN_TRAIT_REF"

	// Backend errors
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeCacheUnavailable         ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeTelemetryFailed          ErrorCode = "TELEMETRY_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewCannotEvaluateError marks an evaluation given invalid input.
func NewCannotEvaluateError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCannotEvaluate,
		Message:   "Candidate cannot be evaluated",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCannotDecideError rejects a decision on an entry that is missing or
// already decided.
func NewCannotDecideError(candidateID, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCannotDecide,
		Message:   "Decision cannot be recorded",
		Details:   fmt.Sprintf("candidateId: %s, %s", candidateID, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueueEmptyError signals an operation that needs a populated queue.
func NewQueueEmptyError() *StandardError {
	return &StandardError{
		Code:      ErrCodeQueueEmpty,
		Message:   "Session queue is empty",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionStateInvalidError flags a lifecycle call out of order.
func NewSessionStateInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionStateInvalid,
		Message:   "Session is not in a valid state for this operation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewContentLoadFailedError creates a retryable content source error.
func NewContentLoadFailedError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeContentLoadFailed,
		Message:   "Content pack load failed",
		Details:   fmt.Sprintf("source: %s, error: %s", source, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewContentInvalidError creates a non-retryable schema/reference error.
func NewContentInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeContentInvalid,
		Message:   "Content pack failed validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQuestNotFoundError creates a non-retryable quest lookup error.
func NewQuestNotFoundError(questID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQuestNotFound,
		Message:   "Quest not found in the loaded quest line",
		Details:   fmt.Sprintf("questId: %s", questID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownTraitRefError creates a non-retryable trait resolution error.
func NewUnknownTraitRefError(traitID, owner string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownTraitRef,
		Message:   "Trait reference not present in the catalog",
		Details:   fmt.Sprintf("traitId: %s, referencedBy: %s", traitID, owner),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryName string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("query: %s, error: %s", queryName, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryTimeoutError creates a retryable query timeout error.
func NewQueryTimeoutError(queryName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryTimeout,
		Message:   "Database query timeout",
		Details:   fmt.Sprintf("query: %s", queryName),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheUnavailableError creates a retryable cache error. Callers are
// expected to degrade to a direct load.
func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Content cache unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewTelemetryFailedError creates a non-retryable telemetry error; sinks
// log and drop rather than fail the session.
func NewTelemetryFailedError(sink string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTelemetryFailed,
		Message:   "Telemetry sink write failed",
		Details:   fmt.Sprintf("sink: %s, error: %s", sink, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Helpers
// ==========================

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}

// GetCode extracts the error code, or empty for foreign errors.
func GetCode(err error) ErrorCode {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ""
}

// WithMetadata attaches a metadata key to the error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}
