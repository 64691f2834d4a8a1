package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/utafrali/counterdesk/internal/backend"
	"github.com/utafrali/counterdesk/internal/domain"
	"github.com/utafrali/counterdesk/internal/workspace"
	apperrors "github.com/utafrali/counterdesk/pkg/errors"
	"github.com/utafrali/counterdesk/pkg/httputil"
	"github.com/utafrali/counterdesk/pkg/validator"
)

// SessionHandler handles HTTP requests against operator workspaces.
type SessionHandler struct {
	manager *workspace.Manager
	logger  *slog.Logger
}

// NewSessionHandler creates a new session HTTP handler.
func NewSessionHandler(manager *workspace.Manager, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		manager: manager,
		logger:  logger,
	}
}

// --- Request DTOs ---

// AddItemRequest adds a product to a draft. With only product_id set, the
// product must be among the current suggestions.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required,max=64"`
	Name      string `json:"name" validate:"required_with=UnitPrice,max=200"`
	UnitPrice string `json:"unit_price" validate:"required_with=Name"`
}

// UpdateItemRequest changes a line's quantity by delta and/or replaces its notes.
type UpdateItemRequest struct {
	Delta *int    `json:"delta" validate:"required_without=Notes,omitempty,min=-100000,max=100000"`
	Notes *string `json:"notes" validate:"omitempty,max=500"`
}

// NotesRequest replaces the order-level notes.
type NotesRequest struct {
	Notes string `json:"notes" validate:"max=1000"`
}

// PaymentRequest selects a payment method and/or records the cash tendered.
type PaymentRequest struct {
	Method       *string `json:"method" validate:"required_without=CashTendered"`
	CashTendered *string `json:"cash_tendered" validate:"omitempty,max=32"`
}

// ConfirmDeleteRequest carries the token issued by RequestDelete.
type ConfirmDeleteRequest struct {
	Token string `json:"token" validate:"required,uuid"`
}

// --- Response DTOs ---

// SessionResponse describes a freshly created workspace.
type SessionResponse struct {
	SessionID string         `json:"session_id"`
	New       workspace.View `json:"new"`
	Edit      workspace.View `json:"edit"`
}

// ResultResponse reports a confirmed backend change along with the draft
// view that follows it.
type ResultResponse struct {
	OrderID       string          `json:"order_id,omitempty"`
	Message       string          `json:"message,omitempty"`
	ReceiptMarkup string          `json:"receipt_markup,omitempty"`
	View          *workspace.View `json:"view,omitempty"`
}

// DeleteTokenResponse carries the confirmation token for a delete.
type DeleteTokenResponse struct {
	OrderID string `json:"order_id"`
	Token   string `json:"token"`
}

// ReceiptResponse carries the backend-rendered receipt markup.
type ReceiptResponse struct {
	OrderID string `json:"order_id"`
	Markup  string `json:"markup"`
}

// --- Sessions ---

// CreateSession handles POST /api/v1/sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ws := h.manager.Create()
	h.logger.InfoContext(r.Context(), "workspace created", slog.String("session_id", ws.ID()))

	httputil.WriteData(w, http.StatusCreated, SessionResponse{
		SessionID: ws.ID(),
		New:       ws.View(workspace.TargetNew),
		Edit:      ws.View(workspace.TargetEdit),
	})
}

// DiscardSession handles DELETE /api/v1/sessions/{sid}
func (h *SessionHandler) DiscardSession(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	if err := h.manager.Discard(ws.ID()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PaymentMethods handles GET /api/v1/payment-methods
func (h *SessionHandler) PaymentMethods(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteData(w, http.StatusOK, workspace.PaymentOptions())
}

// --- Drafts ---

// GetView handles GET /api/v1/sessions/{sid}/{target}
func (h *SessionHandler) GetView(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	httputil.WriteData(w, http.StatusOK, ws.View(targetFromContext(r.Context())))
}

// Open handles POST /api/v1/sessions/{sid}/{target}/open. Only the new-order
// draft can be opened; edit drafts start from an existing order.
func (h *SessionHandler) Open(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	target := targetFromContext(r.Context())
	if target != workspace.TargetNew {
		httputil.WriteError(w, r, apperrors.InvalidInput("edit drafts are opened from an existing order"), h.logger)
		return
	}
	if err := ws.OpenNew(); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, ws.View(target))
}

// Cancel handles POST /api/v1/sessions/{sid}/{target}/cancel
func (h *SessionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	target := targetFromContext(r.Context())
	cancel := ws.CancelNew
	if target == workspace.TargetEdit {
		cancel = ws.CancelEdit
	}
	if err := cancel(); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, ws.View(target))
}

// Search handles GET /api/v1/sessions/{sid}/{target}/search?q=
func (h *SessionHandler) Search(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	target := targetFromContext(r.Context())

	ws.Search(r.Context(), target, r.URL.Query().Get("q"))
	httputil.WriteData(w, http.StatusOK, ws.View(target))
}

// AddItem handles POST /api/v1/sessions/{sid}/{target}/items
func (h *SessionHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	target := targetFromContext(r.Context())

	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	id := domain.ProductID(strings.TrimSpace(req.ProductID))
	if req.Name == "" {
		if err := ws.PickSuggestion(target, id); err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		httputil.WriteData(w, http.StatusOK, ws.View(target))
		return
	}

	price, err := decimal.NewFromString(strings.TrimSpace(req.UnitPrice))
	if err != nil || price.IsNegative() {
		httputil.WriteError(w, r, apperrors.InvalidInput("unit_price must be a non-negative decimal"), h.logger)
		return
	}
	if err := ws.AddProduct(target, id, req.Name, price); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, ws.View(target))
}

// UpdateItem handles PATCH /api/v1/sessions/{sid}/{target}/items/{productId}
func (h *SessionHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	target := targetFromContext(r.Context())
	id := domain.ProductID(chi.URLParam(r, "productId"))

	var req UpdateItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	ctrl := ws.Controller(target)
	if !ctrl.Draft().HasItem(id) {
		httputil.WriteError(w, r, apperrors.NotFound("item", id.String()), h.logger)
		return
	}
	if req.Notes != nil {
		if err := ctrl.SetNotes(id, *req.Notes); err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
	}
	if req.Delta != nil && *req.Delta != 0 {
		if err := ctrl.ChangeQuantity(id, *req.Delta); err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
	}
	httputil.WriteData(w, http.StatusOK, ws.View(target))
}

// RemoveItem handles DELETE /api/v1/sessions/{sid}/{target}/items/{productId}
func (h *SessionHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	target := targetFromContext(r.Context())

	if err := ws.Controller(target).Remove(domain.ProductID(chi.URLParam(r, "productId"))); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, ws.View(target))
}

// SetNotes handles PUT /api/v1/sessions/{sid}/{target}/notes
func (h *SessionHandler) SetNotes(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	target := targetFromContext(r.Context())

	var req NotesRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if err := ws.Controller(target).SetGeneralNotes(req.Notes); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, ws.View(target))
}

// SetPayment handles PUT /api/v1/sessions/{sid}/{target}/payment. Payment
// belongs to the new-order draft only.
func (h *SessionHandler) SetPayment(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	target := targetFromContext(r.Context())
	if target != workspace.TargetNew {
		httputil.WriteError(w, r, apperrors.InvalidInput("payment cannot be changed when editing an order"), h.logger)
		return
	}

	var req PaymentRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	ctrl := ws.Controller(target)
	if req.Method != nil {
		if err := ctrl.SetPaymentMethod(*req.Method); err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
	}
	if req.CashTendered != nil {
		if err := ctrl.SetCashTendered(*req.CashTendered); err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
	}
	httputil.WriteData(w, http.StatusOK, ws.View(target))
}

// Submit handles POST /api/v1/sessions/{sid}/{target}/submit
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	target := targetFromContext(r.Context())

	var (
		res *backend.Result
		err error
	)
	if target == workspace.TargetEdit {
		res, err = ws.SubmitEdit(r.Context())
	} else {
		res, err = ws.SubmitNew(r.Context())
	}
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	view := ws.View(target)
	httputil.WriteData(w, http.StatusOK, newResultResponse(res, &view))
}

// --- Orders ---

// BeginEdit handles POST /api/v1/sessions/{sid}/orders/{orderId}/edit
func (h *SessionHandler) BeginEdit(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())

	if err := ws.BeginEdit(r.Context(), chi.URLParam(r, "orderId")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, ws.View(workspace.TargetEdit))
}

// RequestDelete handles POST /api/v1/sessions/{sid}/orders/{orderId}/delete
func (h *SessionHandler) RequestDelete(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	orderID := chi.URLParam(r, "orderId")

	token, err := ws.RequestDelete(orderID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, DeleteTokenResponse{OrderID: orderID, Token: token})
}

// ConfirmDelete handles POST /api/v1/sessions/{sid}/orders/{orderId}/delete/confirm
func (h *SessionHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())

	var req ConfirmDeleteRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	res, err := ws.ConfirmDelete(r.Context(), chi.URLParam(r, "orderId"), req.Token)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, newResultResponse(res, nil))
}

// Receipt handles GET /api/v1/sessions/{sid}/orders/{orderId}/receipt
func (h *SessionHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())

	receipt, err := ws.Receipt(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, ReceiptResponse{
		OrderID: receipt.OrderID.String(),
		Markup:  receipt.Markup,
	})
}

func newResultResponse(res *backend.Result, view *workspace.View) ResultResponse {
	return ResultResponse{
		OrderID:       res.OrderID.String(),
		Message:       res.Message,
		ReceiptMarkup: res.ReceiptMarkup,
		View:          view,
	}
}
