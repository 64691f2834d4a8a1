package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound, ErrInvalidInput, ErrInternal, ErrConflict,
		ErrServiceUnavail, ErrBackendRejected, ErrTransport,
	}

	for i := 0; i < len(sentinels); i++ {
		for j := i + 1; j < len(sentinels); j++ {
			assert.NotEqual(t, sentinels[i], sentinels[j],
				"sentinels %d and %d should be distinct", i, j)
		}
	}
}

func TestAppError_ErrorString(t *testing.T) {
	appErr := &AppError{Code: "NOT_FOUND", Message: "order not found"}
	assert.Equal(t, "NOT_FOUND: order not found", appErr.Error())

	wrapped := &AppError{Code: "INTERNAL_ERROR", Message: "boom", Err: fmt.Errorf("socket closed")}
	assert.Contains(t, wrapped.Error(), "socket closed")
}

func TestValidation(t *testing.T) {
	err := Validation(CodeEmptyCart, "add at least one item")
	require.NotNil(t, err)
	assert.Equal(t, CodeEmptyCart, err.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, err.Status)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.True(t, HasCode(fmt.Errorf("submit: %w", err), CodeEmptyCart))
}

func TestBackendRejected_KeepsMessageVerbatim(t *testing.T) {
	err := BackendRejected("Caixa não está aberto.")
	assert.Equal(t, "Caixa não está aberto.", err.Message)
	assert.True(t, errors.Is(err, ErrBackendRejected))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(err))
}

func TestTransport_WrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Transport(cause)
	assert.True(t, errors.Is(err, ErrTransport))
	assert.True(t, errors.Is(err, cause))
	assert.NotContains(t, err.Message, "refused")
	assert.Equal(t, http.StatusBadGateway, err.Status)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error", NotFound("order", "7"), http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("x: %w", ErrNotFound), http.StatusNotFound},
		{"conflict", ErrConflict, http.StatusConflict},
		{"invalid", ErrInvalidInput, http.StatusBadRequest},
		{"rejected", ErrBackendRejected, http.StatusUnprocessableEntity},
		{"transport", ErrTransport, http.StatusBadGateway},
		{"unavailable", ErrServiceUnavail, http.StatusServiceUnavailable},
		{"unknown", errors.New("mystery"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestConflict(t *testing.T) {
	err := Conflict(CodeSubmissionInProgress, "a submission for this draft is already in progress")
	assert.Equal(t, http.StatusConflict, HTTPStatus(err))
	assert.True(t, errors.Is(err, ErrConflict))
	assert.True(t, HasCode(err, CodeSubmissionInProgress))
}
