package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an application error carrying its API code and HTTP status.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors shared by the HTTP layer and services.
var (
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrServiceUnavailable = New("SERVICE_UNAVAILABLE", http.StatusServiceUnavailable, "service unavailable")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// Timetable generation errors. Infeasible and failed generations share 422 and
// differ by code so clients can tell bad input from an incomplete schedule.
var (
	ErrTimetableInfeasible       = New("TIMETABLE_INFEASIBLE", http.StatusUnprocessableEntity, "Timetable cannot be generated due to feasibility constraints.")
	ErrTimetableGenerationFailed = New("TIMETABLE_GENERATION_FAILED", http.StatusUnprocessableEntity, "Timetable generation failed.")
	ErrGenerationInProgress      = New("GENERATION_IN_PROGRESS", http.StatusConflict, "a timetable generation is already running for this school")
)

// FromError normalises any error into an *Error. Unknown errors become
// INTERNAL_ERROR with the cause kept for logging.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone copies a predefined error so the shared value is never mutated.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// HasCode reports whether err resolves to an *Error with the given code.
func HasCode(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
