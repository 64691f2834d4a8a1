package backend

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/utafrali/counterdesk/internal/domain"
	apperrors "github.com/utafrali/counterdesk/pkg/errors"
)

// Result is the outcome of a successful create, update or delete.
type Result struct {
	OrderID       domain.OrderID
	Message       string
	ReceiptMarkup string
}

// Confirmer asks the operator to approve an irreversible action.
type Confirmer interface {
	Confirm(ctx context.Context, orderID string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, orderID string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, orderID string) bool {
	return f(ctx, orderID)
}

type itemPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Notes     string `json:"notes"`
}

type createPayload struct {
	Items         []itemPayload        `json:"items"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	ChangeFor     *json.Number         `json:"change_for"`
	Notes         string               `json:"notes"`
}

type updatePayload struct {
	Items []itemPayload `json:"items"`
	Notes string        `json:"notes"`
}

// orderDocument is the order as returned for editing.
type orderDocument struct {
	ID    domain.OrderID `json:"id"`
	Notes *string        `json:"notes"`
	Items []struct {
		ProductID domain.ProductID `json:"product_id"`
		Name      string           `json:"name"`
		Price     decimal.Decimal  `json:"price"`
		Quantity  int              `json:"quantity"`
		Notes     *string          `json:"notes"`
	} `json:"items"`
}

// SubmissionGateway performs the order calls. Reads go through a client that
// may retry; mutating calls must use a client configured without retries.
type SubmissionGateway struct {
	reads   HTTPDoer
	writes  HTTPDoer
	baseURL string
	logger  *slog.Logger
}

// NewSubmissionGateway creates a gateway for the backend at baseURL.
func NewSubmissionGateway(reads, writes HTTPDoer, baseURL string, logger *slog.Logger) *SubmissionGateway {
	return &SubmissionGateway{
		reads:   reads,
		writes:  writes,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// SubmitNew creates an order from d. Empty drafts and cash drafts without a
// tendered amount are refused before any request is made.
func (g *SubmissionGateway) SubmitNew(ctx context.Context, d *domain.Draft) (*Result, error) {
	if d.IsEmpty() {
		return nil, emptyCart()
	}
	if d.PaymentMethod().IsCash() && !d.CashTendered().Valid {
		return nil, apperrors.Validation(apperrors.CodeCashTenderedRequired, "enter the amount received in cash")
	}

	payload := createPayload{
		Items:         items(d),
		PaymentMethod: d.PaymentMethod(),
		Notes:         d.GeneralNotes(),
	}
	if tendered := d.CashTendered(); tendered.Valid {
		n := json.Number(tendered.Decimal.StringFixed(2))
		payload.ChangeFor = &n
	}

	env, err := do(ctx, g.writes, g.baseURL, call{
		op:      "SubmitNew",
		method:  http.MethodPost,
		path:    pathFinalize,
		payload: payload,
	})
	if err != nil {
		g.logger.WarnContext(ctx, "create order failed", slog.String("error", err.Error()))
		return nil, err
	}

	g.logger.InfoContext(ctx, "order created",
		slog.String("order_id", env.OrderID.String()),
		slog.Int("item_count", d.Len()),
		slog.String("payment_method", string(d.PaymentMethod())),
	)
	return &Result{OrderID: env.OrderID, Message: env.Message, ReceiptMarkup: env.ReceiptHTML}, nil
}

// SubmitEdit replaces the items and notes of orderID. Payment is fixed at
// creation and is not sent.
func (g *SubmissionGateway) SubmitEdit(ctx context.Context, orderID string, d *domain.Draft) (*Result, error) {
	if err := requireOrderID(orderID); err != nil {
		return nil, err
	}
	if d.IsEmpty() {
		return nil, emptyCart()
	}

	env, err := do(ctx, g.writes, g.baseURL, call{
		op:       "SubmitEdit",
		method:   http.MethodPost,
		path:     route(pathEdit, orderID),
		orderID:  orderID,
		payload:  updatePayload{Items: items(d), Notes: d.GeneralNotes()},
		resource: "order",
	})
	if err != nil {
		g.logger.WarnContext(ctx, "update order failed",
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	g.logger.InfoContext(ctx, "order updated",
		slog.String("order_id", orderID),
		slog.Int("item_count", d.Len()),
	)
	return &Result{OrderID: domain.OrderID(orderID), Message: env.Message}, nil
}

// FetchForEdit materialises a new draft from an existing order. Items keep
// the backend's order; a product listed twice keeps its last line.
func (g *SubmissionGateway) FetchForEdit(ctx context.Context, orderID string) (*domain.Draft, error) {
	if err := requireOrderID(orderID); err != nil {
		return nil, err
	}

	env, err := do(ctx, g.reads, g.baseURL, call{
		op:       "FetchForEdit",
		method:   http.MethodGet,
		path:     route(pathEdit, orderID),
		orderID:  orderID,
		resource: "order",
	})
	if err != nil {
		g.logger.WarnContext(ctx, "fetch order for edit failed",
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	if env.Order == nil {
		return nil, apperrors.Transport(errors.New("fetch for edit: response has no order"))
	}

	d := domain.NewDraft()
	for _, it := range env.Order.Items {
		item := domain.LineItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.Price,
			Quantity:  it.Quantity,
		}
		if it.Notes != nil {
			item.Notes = *it.Notes
		}
		d.Put(item)
	}
	if env.Order.Notes != nil {
		d.SetGeneralNotes(*env.Order.Notes)
	}
	return d, nil
}

// DeleteOrder deletes orderID once confirm approves. A refusal returns
// CONFIRMATION_REQUIRED and nothing is sent.
func (g *SubmissionGateway) DeleteOrder(ctx context.Context, orderID string, confirm Confirmer) (*Result, error) {
	if err := requireOrderID(orderID); err != nil {
		return nil, err
	}
	if confirm == nil || !confirm.Confirm(ctx, orderID) {
		return nil, apperrors.Validation(apperrors.CodeConfirmationRequired, "deleting an order must be confirmed")
	}

	env, err := do(ctx, g.writes, g.baseURL, call{
		op:       "DeleteOrder",
		method:   http.MethodPost,
		path:     route(pathDelete, orderID),
		orderID:  orderID,
		resource: "order",
	})
	if err != nil {
		g.logger.WarnContext(ctx, "delete order failed",
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	g.logger.InfoContext(ctx, "order deleted", slog.String("order_id", orderID))
	return &Result{OrderID: domain.OrderID(orderID), Message: env.Message}, nil
}

// RequestReceipt fetches the backend-rendered receipt for orderID.
func (g *SubmissionGateway) RequestReceipt(ctx context.Context, orderID string) (*domain.Receipt, error) {
	if err := requireOrderID(orderID); err != nil {
		return nil, err
	}

	env, err := do(ctx, g.reads, g.baseURL, call{
		op:       "RequestReceipt",
		method:   http.MethodGet,
		path:     route(pathPrint, orderID),
		orderID:  orderID,
		resource: "order",
	})
	if err != nil {
		g.logger.WarnContext(ctx, "fetch receipt failed",
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	id := env.OrderID
	if id == "" {
		id = domain.OrderID(orderID)
	}
	return &domain.Receipt{OrderID: id, Markup: env.ReceiptHTML}, nil
}

func items(d *domain.Draft) []itemPayload {
	lines := d.Items()
	out := make([]itemPayload, 0, len(lines))
	for _, it := range lines {
		out = append(out, itemPayload{
			ProductID: it.ProductID.String(),
			Quantity:  it.Quantity,
			Notes:     it.Notes,
		})
	}
	return out
}

func emptyCart() error {
	return apperrors.Validation(apperrors.CodeEmptyCart, "add at least one item before submitting")
}

func requireOrderID(orderID string) error {
	if strings.TrimSpace(orderID) == "" {
		return apperrors.InvalidInput("order id is required")
	}
	return nil
}
