// Package backend talks to the caixa backend: product search and the order
// create, update, fetch, delete and receipt calls.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/utafrali/counterdesk/internal/domain"
	apperrors "github.com/utafrali/counterdesk/pkg/errors"
	"github.com/utafrali/counterdesk/pkg/httpclient"
	"github.com/utafrali/counterdesk/pkg/tracing"
)

// Backend routes, relative to the base URL.
const (
	pathSearch   = "/caixa/buscar_produtos"
	pathFinalize = "/caixa/finalize_counter_order"
	pathDelete   = "/caixa/excluir_pedido/"
	pathEdit     = "/caixa/editar_pedido/"
	pathPrint    = "/caixa/imprimir_pedido/"
)

// maxResponseBody caps how much of a backend answer is read.
const maxResponseBody = 4 << 20

const tracerName = "counterdesk/backend"

// HTTPDoer executes HTTP requests.
// Both httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// CircuitOpenFallback answers requests while the breaker is open.
func CircuitOpenFallback(_ context.Context, _ error) (*http.Response, error) {
	return nil, apperrors.ServiceUnavailable("the order backend is temporarily unavailable, please retry shortly")
}

// envelope is the {success, message} wrapper every call but search returns.
type envelope struct {
	Success     *bool          `json:"success"`
	Message     string         `json:"message"`
	OrderID     domain.OrderID `json:"order_id"`
	ReceiptHTML string         `json:"receipt_html"`
	Order       *orderDocument `json:"order"`
}

// call describes one enveloped backend request.
type call struct {
	op       string
	method   string
	path     string
	orderID  string
	payload  any
	resource string
}

func (c call) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("http.request.method", c.method),
		attribute.String("url.path", c.path),
	}
	if c.orderID != "" {
		attrs = append(attrs, tracing.OrderAttr(c.orderID))
	}
	return attrs
}

// route appends an escaped order id to a backend path.
func route(path, id string) string {
	return path + url.PathEscape(id)
}

// do runs c through client and decodes the envelope. Every failure comes back
// as an *apperrors.AppError.
func do(ctx context.Context, client HTTPDoer, baseURL string, c call) (env *envelope, err error) {
	ctx, span := tracing.Tracer(tracerName).Start(ctx, "backend."+c.op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(c.attributes()...),
	)
	start := time.Now()
	defer func() {
		observe(c.op, start, err)
		tracing.RecordError(span, err)
		span.End()
	}()

	var body io.Reader = http.NoBody
	if c.payload != nil {
		b, mErr := json.Marshal(c.payload)
		if mErr != nil {
			return nil, apperrors.Internal(fmt.Errorf("marshal %s payload: %w", c.op, mErr))
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, c.method, strings.TrimRight(baseURL, "/")+c.path, body)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("create %s request: %w", c.op, err))
	}
	req.Header.Set("Accept", "application/json")
	if c.payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(ctx, req)
	if err != nil {
		return nil, mapDoError(c, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, apperrors.Transport(fmt.Errorf("read %s response: %w", c.op, err))
	}
	return decodeEnvelope(c, resp.StatusCode, raw)
}

// mapDoError classifies a failure returned by the HTTP client.
func mapDoError(c call, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, httpclient.ErrCircuitOpen) {
		return apperrors.ServiceUnavailable("the order backend is temporarily unavailable, please retry shortly")
	}
	var srvErr *httpclient.ServerError
	if errors.As(err, &srvErr) {
		// 5xx answers still carry the backend's own message.
		return decodeFailure(c, srvErr.StatusCode, srvErr.Body, err)
	}
	return apperrors.Transport(fmt.Errorf("%s: %w", c.op, err))
}

func decodeEnvelope(c call, status int, raw []byte) (*envelope, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Success == nil {
		if err == nil {
			err = errors.New("response has no success flag")
		}
		return nil, decodeFailure(c, status, raw, err)
	}
	if !*env.Success {
		return nil, rejected(env.Message)
	}
	if status < 200 || status > 299 {
		return nil, apperrors.Transport(fmt.Errorf("%s: success envelope with status %d", c.op, status))
	}
	return &env, nil
}

// decodeFailure handles a body that is not a usable success envelope.
func decodeFailure(c call, status int, raw []byte, cause error) error {
	var env envelope
	if json.Unmarshal(raw, &env) == nil && env.Success != nil && !*env.Success {
		return rejected(env.Message)
	}
	if status == http.StatusNotFound && c.resource != "" {
		return apperrors.NotFound(c.resource, c.orderID)
	}
	return apperrors.Transport(fmt.Errorf("%s: status %d: %w", c.op, status, cause))
}

func rejected(message string) error {
	if strings.TrimSpace(message) == "" {
		message = "the order backend rejected the request"
	}
	return apperrors.BackendRejected(message)
}

// Ping checks that the backend answers at all. Any status below 500 counts
// as reachable.
func Ping(ctx context.Context, client HTTPDoer, baseURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, strings.TrimRight(baseURL, "/")+"/", http.NoBody)
	if err != nil {
		return fmt.Errorf("create ping request: %w", err)
	}
	resp, err := client.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("ping backend: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("ping backend: status %d", resp.StatusCode)
	}
	return nil
}
