// Package workspace holds the per-operator state of the counter screen: a
// new-order draft, an edit-order draft, their suggestion lists and pending
// delete confirmations.
package workspace

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/utafrali/counterdesk/internal/backend"
	"github.com/utafrali/counterdesk/internal/domain"
	"github.com/utafrali/counterdesk/internal/draft"
	apperrors "github.com/utafrali/counterdesk/pkg/errors"
)

// Searcher looks up products by name.
type Searcher interface {
	Search(ctx context.Context, query string) []domain.Product
}

// OrderGateway performs the backend order calls.
type OrderGateway interface {
	SubmitNew(ctx context.Context, d *domain.Draft) (*backend.Result, error)
	SubmitEdit(ctx context.Context, orderID string, d *domain.Draft) (*backend.Result, error)
	FetchForEdit(ctx context.Context, orderID string) (*domain.Draft, error)
	DeleteOrder(ctx context.Context, orderID string, confirm backend.Confirmer) (*backend.Result, error)
	RequestReceipt(ctx context.Context, orderID string) (*domain.Receipt, error)
}

// AuditPublisher records confirmed backend changes.
type AuditPublisher interface {
	OrderSubmitted(ctx context.Context, orderID string, d *domain.Draft) error
	OrderUpdated(ctx context.Context, orderID string, d *domain.Draft) error
	OrderDeleted(ctx context.Context, orderID string) error
}

// Deps are the collaborators shared by every workspace.
type Deps struct {
	Search Searcher
	Orders OrderGateway
	Audit  AuditPublisher
	Logger *slog.Logger

	// NewRenderer, if set, supplies an extra renderer per workspace.
	NewRenderer func(sessionID string) Renderer
}

// Workspace is one operator's counter screen.
type Workspace struct {
	id     string
	deps   Deps
	logger *slog.Logger

	controllers map[Target]*draft.Controller
	suggestions map[Target]*SuggestionList
	renderer    Renderer

	mu       sync.Mutex
	deletes  map[string]string
	views    map[Target]View
	versions map[Target]uint64
	seqs     map[Target]uint64

	lastSeen atomic.Int64
}

// New creates a workspace with empty drafts.
func New(id string, deps Deps) *Workspace {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	w := &Workspace{
		id:     id,
		deps:   deps,
		logger: logger.With(slog.String("session_id", id)),
		controllers: map[Target]*draft.Controller{
			TargetNew:  draft.NewController(draft.ModeNew),
			TargetEdit: draft.NewController(draft.ModeEdit),
		},
		suggestions: map[Target]*SuggestionList{
			TargetNew:  NewSuggestionList(TargetNew),
			TargetEdit: NewSuggestionList(TargetEdit),
		},
		deletes:  make(map[string]string),
		views:    make(map[Target]View),
		versions: make(map[Target]uint64),
		seqs:     make(map[Target]uint64),
	}
	if deps.NewRenderer != nil {
		w.renderer = deps.NewRenderer(id)
	}
	for target, c := range w.controllers {
		c.Subscribe(func(s draft.State) { w.render(target, s) })
	}
	w.Touch()
	return w
}

// ID returns the session id.
func (w *Workspace) ID() string {
	return w.id
}

// Touch marks the workspace as used now.
func (w *Workspace) Touch() {
	w.lastSeen.Store(time.Now().UnixNano())
}

// LastSeen returns when the workspace was last used.
func (w *Workspace) LastSeen() time.Time {
	return time.Unix(0, w.lastSeen.Load())
}

// Controller returns the draft controller for target.
func (w *Workspace) Controller(target Target) *draft.Controller {
	return w.controllers[target]
}

// View returns the most recently rendered view of target.
func (w *Workspace) View(target Target) View {
	w.mu.Lock()
	v, ok := w.views[target]
	w.mu.Unlock()
	if ok {
		return v
	}
	return w.render(target, w.controllers[target].Snapshot())
}

// OpenNew starts a fresh new-order draft.
func (w *Workspace) OpenNew() error {
	return w.discard(TargetNew)
}

// CancelNew discards the new-order draft.
func (w *Workspace) CancelNew() error {
	return w.discard(TargetNew)
}

// CancelEdit discards the edit-order draft.
func (w *Workspace) CancelEdit() error {
	return w.discard(TargetEdit)
}

// discard clears a draft and its suggestions. A draft being submitted is
// left alone.
func (w *Workspace) discard(target Target) error {
	if err := w.controllers[target].Reset(); err != nil {
		return err
	}
	w.suggestions[target].Clear()
	w.rerender(target)
	return nil
}

// Search runs query for target and returns the suggestions now shown. A
// response overtaken by a newer search is dropped.
func (w *Workspace) Search(ctx context.Context, target Target, query string) []domain.Product {
	list := w.suggestions[target]
	seq := list.Begin()

	results := w.deps.Search.Search(ctx, query)
	if list.Apply(seq, results) {
		w.rerender(target)
	} else {
		w.logger.DebugContext(ctx, "dropped stale search response",
			slog.String("target", string(target)),
			slog.Uint64("seq", seq),
		)
	}
	return list.Items()
}

// PickSuggestion adds a listed product to the target draft and clears the
// suggestions.
func (w *Workspace) PickSuggestion(target Target, id domain.ProductID) error {
	list := w.suggestions[target]
	p, ok := list.Find(id)
	if !ok {
		return apperrors.NotFound("suggestion", id.String())
	}
	if err := w.controllers[target].AddOrIncrement(p.ID, p.Name, p.Price); err != nil {
		return err
	}
	list.Clear()
	w.rerender(target)
	return nil
}

// AddProduct adds a product given in full, as when the operator's screen
// already holds it.
func (w *Workspace) AddProduct(target Target, id domain.ProductID, name string, unitPrice decimal.Decimal) error {
	if err := w.controllers[target].AddOrIncrement(id, name, unitPrice); err != nil {
		return err
	}
	w.suggestions[target].Clear()
	w.rerender(target)
	return nil
}

// SubmitNew sends the new-order draft. The draft is frozen while the request
// is in flight and cleared only once the backend confirms; on failure it is
// left intact for a retry.
func (w *Workspace) SubmitNew(ctx context.Context) (*backend.Result, error) {
	c := w.controllers[TargetNew]
	d, _, err := c.Hold()
	if err != nil {
		return nil, err
	}
	defer c.Release()

	res, err := w.deps.Orders.SubmitNew(ctx, d)
	submissionsTotal.WithLabelValues(string(TargetNew), submissionResult(err)).Inc()
	if err != nil {
		return nil, err
	}

	w.suggestions[TargetNew].Clear()
	c.Complete()
	w.logger.InfoContext(ctx, "counter order submitted",
		slog.String("order_id", res.OrderID.String()),
		slog.String("total", domain.Total(d).StringFixed(2)),
	)

	if w.deps.Audit != nil {
		if err := w.deps.Audit.OrderSubmitted(ctx, res.OrderID.String(), d); err != nil {
			w.logger.ErrorContext(ctx, "failed to publish order submitted event",
				slog.String("order_id", res.OrderID.String()),
				slog.String("error", err.Error()),
			)
		}
	}
	return res, nil
}

// BeginEdit loads orderID into the edit draft. On failure the edit draft is
// left as it was.
func (w *Workspace) BeginEdit(ctx context.Context, orderID string) error {
	d, err := w.deps.Orders.FetchForEdit(ctx, orderID)
	if err != nil {
		return err
	}
	if err := w.controllers[TargetEdit].Load(orderID, d); err != nil {
		return err
	}
	w.suggestions[TargetEdit].Clear()
	w.rerender(TargetEdit)
	return nil
}

// SubmitEdit sends the edit draft for the order being edited.
func (w *Workspace) SubmitEdit(ctx context.Context) (*backend.Result, error) {
	c := w.controllers[TargetEdit]
	d, orderID, err := c.Hold()
	if err != nil {
		return nil, err
	}
	defer c.Release()
	if orderID == "" {
		return nil, apperrors.InvalidInput("no order is being edited")
	}

	res, err := w.deps.Orders.SubmitEdit(ctx, orderID, d)
	submissionsTotal.WithLabelValues(string(TargetEdit), submissionResult(err)).Inc()
	if err != nil {
		return nil, err
	}

	w.suggestions[TargetEdit].Clear()
	c.Complete()
	w.logger.InfoContext(ctx, "counter order updated", slog.String("order_id", orderID))

	if w.deps.Audit != nil {
		if err := w.deps.Audit.OrderUpdated(ctx, orderID, d); err != nil {
			w.logger.ErrorContext(ctx, "failed to publish order updated event",
				slog.String("order_id", orderID),
				slog.String("error", err.Error()),
			)
		}
	}
	return res, nil
}

// RequestDelete issues the single-use token that ConfirmDelete expects for
// orderID. A newer request replaces any earlier token.
func (w *Workspace) RequestDelete(orderID string) (string, error) {
	if strings.TrimSpace(orderID) == "" {
		return "", apperrors.InvalidInput("order id is required")
	}
	token := uuid.NewString()
	w.mu.Lock()
	w.deletes[orderID] = token
	w.mu.Unlock()
	return token, nil
}

// ConfirmDelete deletes orderID if token matches the one issued for it.
// Without a match no request reaches the backend.
func (w *Workspace) ConfirmDelete(ctx context.Context, orderID, token string) (*backend.Result, error) {
	confirm := backend.ConfirmFunc(func(_ context.Context, id string) bool {
		return w.consumeDeleteToken(id, token)
	})

	res, err := w.deps.Orders.DeleteOrder(ctx, orderID, confirm)
	if err != nil {
		return nil, err
	}

	if w.controllers[TargetEdit].OrderID() == orderID {
		if err := w.discard(TargetEdit); err != nil {
			w.logger.WarnContext(ctx, "edit draft of deleted order kept while it is being submitted",
				slog.String("order_id", orderID),
			)
		}
	}
	w.logger.InfoContext(ctx, "counter order deleted", slog.String("order_id", orderID))

	if w.deps.Audit != nil {
		if err := w.deps.Audit.OrderDeleted(ctx, orderID); err != nil {
			w.logger.ErrorContext(ctx, "failed to publish order deleted event",
				slog.String("order_id", orderID),
				slog.String("error", err.Error()),
			)
		}
	}
	return res, nil
}

// Receipt fetches the printable receipt of orderID.
func (w *Workspace) Receipt(ctx context.Context, orderID string) (*domain.Receipt, error) {
	return w.deps.Orders.RequestReceipt(ctx, orderID)
}

func (w *Workspace) consumeDeleteToken(orderID, token string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	want, ok := w.deletes[orderID]
	if !ok || token == "" || want != token {
		return false
	}
	delete(w.deletes, orderID)
	return true
}

// submissionResult labels the outcome of a submission for metrics.
func submissionResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case apperrors.HasCode(err, apperrors.CodeBackendRejected):
		return "rejected"
	case apperrors.HasCode(err, apperrors.CodeBackendUnavailable),
		apperrors.HasCode(err, apperrors.CodeServiceUnavailable):
		return "unavailable"
	default:
		return "invalid"
	}
}

func (w *Workspace) rerender(target Target) {
	w.render(target, w.controllers[target].Snapshot())
}

// render builds and stores the view of state, then hands it to the renderer.
// A state older than the one already stored is not rendered; the stored
// view is returned instead.
func (w *Workspace) render(target Target, state draft.State) View {
	w.mu.Lock()
	if cur, ok := w.views[target]; ok && state.Seq < w.seqs[target] {
		w.mu.Unlock()
		return cur
	}
	v := NewView(target, state, w.suggestions[target].Items())
	w.versions[target]++
	v.Version = w.versions[target]
	w.seqs[target] = state.Seq
	w.views[target] = v
	w.mu.Unlock()

	if w.renderer != nil {
		w.renderer.Render(v)
	}
	return v
}
