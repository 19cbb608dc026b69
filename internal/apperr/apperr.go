// Package apperr defines the typed error used across the pricing
// pipeline, narrowed from the teacher's IAROSError
// (common/utils/ErrorHandling.go) down to the five kinds spec.md §7
// names.
package apperr

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Kind classifies a pipeline error, per spec.md §7.
type Kind string

const (
	KindInvalidQuery      Kind = "InvalidQuery"
	KindScrapeFailure     Kind = "ScrapeFailure"
	KindDataSourceFailure Kind = "DataSourceFailure"
	KindModelUnavailable  Kind = "ModelUnavailable"
	KindInternal          Kind = "Internal"
)

// Error is the pipeline's standardized error type.
type Error struct {
	ID         string
	Kind       Kind
	Code       string
	Message    string
	Field      string
	HTTPStatus int
	Retryable  bool
	Cause      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func newError(kind Kind, code, message string, httpStatus int, retryable bool) *Error {
	return &Error{
		ID:         uuid.New().String(),
		Kind:       kind,
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  retryable,
	}
}

// InvalidQuery is surfaced to the caller as a 4xx naming the offending
// field (spec.md §7).
func InvalidQuery(field, message string) *Error {
	err := newError(KindInvalidQuery, "INVALID_QUERY", message, http.StatusBadRequest, false)
	err.Field = field
	return err
}

// ScrapeFailure is recovered locally by the orchestrator; it is never
// surfaced directly to a caller, but is logged and carried as a
// warning.
func ScrapeFailure(message string, cause error) *Error {
	err := newError(KindScrapeFailure, "SCRAPE_FAILURE", message, http.StatusBadGateway, true)
	err.Cause = cause
	return err
}

// DataSourceFailure is fatal at startup (exit code 1) and a degrade-
// with-warning during request processing.
func DataSourceFailure(message string, cause error) *Error {
	err := newError(KindDataSourceFailure, "DATA_SOURCE_FAILURE", message, http.StatusServiceUnavailable, true)
	err.Cause = cause
	return err
}

// ModelUnavailable is recovered locally: the pipeline demotes the
// prediction method and continues.
func ModelUnavailable(message string, cause error) *Error {
	err := newError(KindModelUnavailable, "MODEL_UNAVAILABLE", message, http.StatusOK, false)
	err.Cause = cause
	return err
}

// Internal surfaces as a 5xx with a generic message; detail belongs in
// the log record, not the response.
func Internal(message string, cause error) *Error {
	err := newError(KindInternal, "INTERNAL_ERROR", message, http.StatusInternalServerError, false)
	err.Cause = cause
	return err
}
