package httpclient

import (
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody caps how much of a failing response body is retained.
const maxErrorBody = 1 << 20

// ServerError is returned by CircuitBreakerClient when the backend answers with a
// 5xx status. The body is kept so callers can still surface a structured message
// the backend may have put in it.
type ServerError struct {
	StatusCode int
	Body       []byte
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.StatusCode, string(e.Body))
}

// newServerError drains and closes resp.Body.
func newServerError(resp *http.Response) *ServerError {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		body = []byte{}
	}
	return &ServerError{StatusCode: resp.StatusCode, Body: body}
}
