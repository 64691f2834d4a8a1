package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/utafrali/counterdesk/internal/domain"
	"github.com/utafrali/counterdesk/pkg/tracing"
)

// MinQueryLength is the shortest query sent to the backend, counted as typed.
const MinQueryLength = 3

// SearchGateway looks products up by name.
type SearchGateway struct {
	client  HTTPDoer
	baseURL string
	logger  *slog.Logger
}

// NewSearchGateway creates a search gateway for the backend at baseURL.
func NewSearchGateway(client HTTPDoer, baseURL string, logger *slog.Logger) *SearchGateway {
	return &SearchGateway{client: client, baseURL: strings.TrimRight(baseURL, "/"), logger: logger}
}

// Search returns the products matching query. Short queries return nothing
// without a request. Surrounding spaces count towards the length and are
// sent as typed; the backend strips them. Backend failures are logged and
// yield an empty result.
func (g *SearchGateway) Search(ctx context.Context, query string) []domain.Product {
	if utf8.RuneCountInString(query) < MinQueryLength {
		return []domain.Product{}
	}

	products, err := g.fetch(ctx, query)
	if err != nil {
		g.logger.WarnContext(ctx, "product search failed",
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		return []domain.Product{}
	}
	return products
}

func (g *SearchGateway) fetch(ctx context.Context, q string) (products []domain.Product, err error) {
	ctx, span := tracing.Tracer(tracerName).Start(ctx, "backend.Search",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.Int("counterdesk.query_length", utf8.RuneCountInString(q))),
	)
	start := time.Now()
	defer func() {
		observe("search", start, err)
		tracing.RecordError(span, err)
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+pathSearch+"?q="+url.QueryEscape(q), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if products == nil {
		return nil, errors.New("search response is not a list")
	}
	span.SetAttributes(attribute.Int("counterdesk.result_count", len(products)))
	return products, nil
}
