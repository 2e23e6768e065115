// Package errors provides the standardized error taxonomy shared by the scoring
// API, the portal and the operator tooling.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Input problems, recoverable by re-entry.
	ErrCodeInvalidFeatureRecord ErrorCode = "INVALID_FEATURE_RECORD"
	ErrCodeInvalidRequestBody   ErrorCode = "INVALID_REQUEST_BODY"

	// Prediction path.
	ErrCodeRemoteFailure    ErrorCode = "REMOTE_FAILURE"
	ErrCodeModelUnavailable ErrorCode = "MODEL_UNAVAILABLE"

	// Extraction path.
	ErrCodeEmptyAudioInput             ErrorCode = "EMPTY_AUDIO_INPUT"
	ErrCodeMalformedExtractionResponse ErrorCode = "MALFORMED_EXTRACTION_RESPONSE"
	ErrCodeExtractionUnavailable       ErrorCode = "EXTRACTION_UNAVAILABLE"
	ErrCodeExtractionFailed            ErrorCode = "EXTRACTION_FAILED"

	// Persistence.
	ErrCodeDatabaseInsertFailed ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeQueryExecutionFailed ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeRecordNotFound       ErrorCode = "RECORD_NOT_FOUND"

	ErrCodeRateLimited   ErrorCode = "RATE_LIMITED"
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches any StandardError carrying the same code, so callers can write
// errors.Is(err, errors.New...(...)) or compare against the Err* sentinels.
func (e *StandardError) Is(target error) bool {
	var t *StandardError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is checks.
var (
	ErrInvalidFeatureRecord        = &StandardError{Code: ErrCodeInvalidFeatureRecord}
	ErrRemoteFailure               = &StandardError{Code: ErrCodeRemoteFailure}
	ErrModelUnavailable            = &StandardError{Code: ErrCodeModelUnavailable}
	ErrEmptyAudioInput             = &StandardError{Code: ErrCodeEmptyAudioInput}
	ErrMalformedExtractionResponse = &StandardError{Code: ErrCodeMalformedExtractionResponse}
	ErrExtractionUnavailable       = &StandardError{Code: ErrCodeExtractionUnavailable}
	ErrExtractionFailed            = &StandardError{Code: ErrCodeExtractionFailed}
	ErrRecordNotFound              = &StandardError{Code: ErrCodeRecordNotFound}
)

// ==========================
// 2. Error Constructors
// ==========================

// NewInvalidFeatureRecordError creates a non-retryable input error.
func NewInvalidFeatureRecordError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidFeatureRecord,
		Message:   "Invalid feature record",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidRequestBodyError creates a non-retryable decoding error.
func NewInvalidRequestBodyError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequestBody,
		Message:   "Invalid request body",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewModelUnavailableError is fatal at startup.
func NewModelUnavailableError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeModelUnavailable,
		Message:   "Model artifact could not be loaded",
		Details:   fmt.Sprintf("path: %s, error: %v", path, err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewEmptyAudioInputError is returned before any remote call is made.
func NewEmptyAudioInputError() *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyAudioInput,
		Message:   "No audio data received",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedExtractionResponseError indicates a model/schema mismatch. Never retried.
func NewMalformedExtractionResponseError(details string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedExtractionResponse,
		Message:   "Invalid JSON from voice model",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewExtractionUnavailableError is returned once every attempt hit a transient overload.
func NewExtractionUnavailableError(attempts int, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExtractionUnavailable,
		Message:   "Voice model is temporarily overloaded. Please try again in a moment.",
		Details:   fmt.Sprintf("attempts: %d, last error: %v", attempts, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewExtractionFailedError covers every non-transient generative API error.
func NewExtractionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExtractionFailed,
		Message:   "Error calling voice model API",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsertFailed,
		Message:   "Database insert operation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewRecordNotFoundError creates a non-retryable lookup error.
func NewRecordNotFoundError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordNotFound,
		Message:   "Prediction record not found",
		Details:   fmt.Sprintf("id: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewRateLimitedError(client string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRateLimited,
		Message:   "Rate limit exceeded",
		Details:   fmt.Sprintf("client: %s", client),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternalError,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 3. HTTP Mapping
// ==========================

// HTTPStatus maps an error code to the response status surfaced to callers.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidFeatureRecord,
		ErrCodeInvalidRequestBody,
		ErrCodeEmptyAudioInput:
		return http.StatusBadRequest

	case ErrCodeRecordNotFound:
		return http.StatusNotFound

	case ErrCodeRateLimited:
		return http.StatusTooManyRequests

	case ErrCodeExtractionUnavailable,
		ErrCodeModelUnavailable:
		return http.StatusServiceUnavailable

	case ErrCodeRemoteFailure:
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// ==========================
// 4. Utility Functions
// ==========================

// AsStandard returns err as a *StandardError, wrapping unknown errors as INTERNAL_ERROR.
func AsStandard(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "AUDIO") || strings.Contains(codeStr, "EXTRACTION"):
		return "EXTRACTION"
	case strings.Contains(codeStr, "REMOTE") || strings.Contains(codeStr, "MODEL"):
		return "PREDICTION"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY") || strings.Contains(codeStr, "RECORD"):
		return "DATABASE"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
