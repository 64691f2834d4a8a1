package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInternal        = errors.New("internal error")
	ErrConflict        = errors.New("conflict")
	ErrServiceUnavail  = errors.New("service unavailable")
	ErrBackendRejected = errors.New("backend rejected request")
	ErrTransport       = errors.New("backend transport failure")
)

// Error codes surfaced to the operator.
const (
	CodeNotFound             = "NOT_FOUND"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeEmptyCart            = "EMPTY_CART"
	CodeCashTenderedRequired = "CASH_TENDERED_REQUIRED"
	CodeConfirmationRequired = "CONFIRMATION_REQUIRED"
	CodeInvalidPayment       = "INVALID_PAYMENT_METHOD"
	CodeConflict             = "CONFLICT"
	CodeSubmissionInProgress = "SUBMISSION_IN_PROGRESS"
	CodeBackendRejected      = "BACKEND_REJECTED"
	CodeBackendUnavailable   = "BACKEND_UNAVAILABLE"
	CodeServiceUnavailable   = "SERVICE_UNAVAILABLE"
	CodeInternal             = "INTERNAL_ERROR"
)

// AppError represents a structured application error with HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    CodeInvalidInput,
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Validation creates a 422 error for a locally detected rule violation.
// No network call is made when one of these is returned.
func Validation(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  http.StatusUnprocessableEntity,
		Err:     ErrInvalidInput,
	}
}

// Conflict creates a 409 error with the given code.
func Conflict(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  http.StatusConflict,
		Err:     ErrConflict,
	}
}

// BackendRejected creates a 422 error carrying the backend message verbatim.
func BackendRejected(message string) *AppError {
	return &AppError{
		Code:    CodeBackendRejected,
		Message: message,
		Status:  http.StatusUnprocessableEntity,
		Err:     ErrBackendRejected,
	}
}

// Transport creates a 502 error for network or decode failures talking to the backend.
// The operator only sees the generic message; the cause is kept for logs.
func Transport(err error) *AppError {
	return &AppError{
		Code:    CodeBackendUnavailable,
		Message: "could not reach the order backend, please try again",
		Status:  http.StatusBadGateway,
		Err:     errors.Join(ErrTransport, err),
	}
}

// ServiceUnavailable creates a 503 error.
func ServiceUnavailable(message string) *AppError {
	return &AppError{
		Code:    CodeServiceUnavailable,
		Message: message,
		Status:  http.StatusServiceUnavailable,
		Err:     ErrServiceUnavail,
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrBackendRejected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrTransport):
		return http.StatusBadGateway
	case errors.Is(err, ErrServiceUnavail):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
