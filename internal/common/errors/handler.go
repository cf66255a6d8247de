// internal/common/errors/handler.go
package errors

import (
	"time"
)

// Logger is the subset of the logging interface the handler needs,
// declared here to avoid an import cycle with common/logger.
type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// ErrorHandler normalizes and logs errors surfaced by session runs.
type ErrorHandler struct {
	logger Logger
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle normalizes err to a StandardError, logs it at a level matching
// its retryability, and returns the normalized error for the caller.
func (h *ErrorHandler) Handle(scope string, err error) *StandardError {
	stdErr := h.normalizeError(err)

	fields := map[string]interface{}{
		"scope":     scope,
		"errorCode": string(stdErr.Code),
		"details":   stdErr.Details,
		"retryable": stdErr.Retryable,
	}
	for k, v := range stdErr.Metadata {
		fields[k] = v
	}

	if stdErr.Retryable {
		h.logger.Warn(stdErr.Message, fields)
	} else {
		h.logger.Error(stdErr.Message, fields)
	}
	return stdErr
}

// normalizeError ensures we always have a StandardError.
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
