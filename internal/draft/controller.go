// Package draft serialises access to one order draft and notifies listeners
// after every change.
package draft

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/utafrali/counterdesk/internal/domain"
	apperrors "github.com/utafrali/counterdesk/pkg/errors"
)

// Mode says whether a controller builds a new order or edits an existing one.
type Mode int

const (
	ModeNew Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "new"
}

// State is an immutable snapshot of a draft with its derived amounts. Seq
// grows with every change, so of two states the one with the higher Seq is
// the more recent.
type State struct {
	Seq           uint64
	Mode          Mode
	OrderID       string
	Items         []domain.LineItem
	Total         decimal.Decimal
	PaymentMethod domain.PaymentMethod
	CashTendered  decimal.NullDecimal
	ChangeDue     decimal.NullDecimal
	Notes         string
	Held          bool
}

// Listener is called with the new state after each mutation.
type Listener func(State)

// Controller wraps one draft. It is safe for concurrent use; listeners run on
// the mutating goroutine after the lock is released and before the mutating
// call returns.
//
// While the draft is held for submission every change is refused with a
// SUBMISSION_IN_PROGRESS conflict.
type Controller struct {
	mu        sync.Mutex
	mode      Mode
	orderID   string
	draft     *domain.Draft
	held      bool
	seq       uint64
	listeners []Listener
}

// NewController returns a controller holding an empty draft.
func NewController(mode Mode) *Controller {
	return &Controller{mode: mode, draft: domain.NewDraft()}
}

// Subscribe registers fn for change notifications.
func (c *Controller) Subscribe(fn Listener) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// AddOrIncrement adds one unit of the product, creating its line if needed.
func (c *Controller) AddOrIncrement(id domain.ProductID, name string, unitPrice decimal.Decimal) error {
	return c.mutate(func(d *domain.Draft) { d.AddOrIncrement(id, name, unitPrice) })
}

// ChangeQuantity moves a line's quantity by delta; the line goes away at zero.
func (c *Controller) ChangeQuantity(id domain.ProductID, delta int) error {
	return c.mutate(func(d *domain.Draft) { d.ChangeQuantity(id, delta) })
}

// SetNotes replaces the notes of one line.
func (c *Controller) SetNotes(id domain.ProductID, text string) error {
	return c.mutate(func(d *domain.Draft) { d.SetNotes(id, text) })
}

// Remove drops a line.
func (c *Controller) Remove(id domain.ProductID) error {
	return c.mutate(func(d *domain.Draft) { d.Remove(id) })
}

// SetGeneralNotes replaces the order-level notes.
func (c *Controller) SetGeneralNotes(text string) error {
	return c.mutate(func(d *domain.Draft) { d.SetGeneralNotes(text) })
}

// SetPaymentMethod selects a payment method by its wire value. Unknown values
// are rejected and leave the draft untouched.
func (c *Controller) SetPaymentMethod(method string) error {
	m, ok := domain.ParsePaymentMethod(method)
	if !ok {
		return apperrors.Validation(apperrors.CodeInvalidPayment, "unknown payment method: "+method)
	}
	return c.mutate(func(d *domain.Draft) { d.SetPaymentMethod(m) })
}

// SetCashTendered parses the operator's text. Malformed text counts as zero;
// the call has no effect beyond clearing when the method is not cash.
func (c *Controller) SetCashTendered(text string) error {
	amount := domain.ParseMoney(text)
	return c.mutate(func(d *domain.Draft) { d.SetCashTendered(amount) })
}

// Reset clears the draft. An edit controller also forgets its order id.
func (c *Controller) Reset() error {
	return c.apply(func() {
		c.draft.Clear()
		if c.mode == ModeEdit {
			c.orderID = ""
		}
	})
}

// Load replaces the draft with d, as materialised for orderID.
func (c *Controller) Load(orderID string, d *domain.Draft) error {
	return c.apply(func() {
		c.draft = d.Clone()
		c.orderID = orderID
	})
}

// Hold freezes the draft for submission and returns a copy of it along with
// the order id being edited. It fails if the draft is already held.
func (c *Controller) Hold() (*domain.Draft, string, error) {
	c.mu.Lock()
	if c.held {
		c.mu.Unlock()
		return nil, "", errHeld()
	}
	c.held = true
	d, orderID := c.draft.Clone(), c.orderID
	state, listeners := c.changedLocked()
	c.mu.Unlock()

	notify(listeners, state)
	return d, orderID, nil
}

// Release lifts a hold and keeps the draft, as after a failed submission.
func (c *Controller) Release() {
	c.settle(false)
}

// Complete lifts a hold and clears the draft, as after a confirmed submission.
func (c *Controller) Complete() {
	c.settle(true)
}

// Draft returns a deep copy of the current draft.
func (c *Controller) Draft() *domain.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}

// OrderID returns the id of the order being edited, or "" for a new order.
func (c *Controller) OrderID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orderID
}

// Mode reports whether the controller builds or edits an order.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) mutate(fn func(*domain.Draft)) error {
	return c.apply(func() { fn(c.draft) })
}

func (c *Controller) apply(fn func()) error {
	c.mu.Lock()
	if c.held {
		c.mu.Unlock()
		return errHeld()
	}
	fn()
	state, listeners := c.changedLocked()
	c.mu.Unlock()

	notify(listeners, state)
	return nil
}

func (c *Controller) settle(discard bool) {
	c.mu.Lock()
	if !c.held {
		c.mu.Unlock()
		return
	}
	c.held = false
	if discard {
		c.draft.Clear()
		if c.mode == ModeEdit {
			c.orderID = ""
		}
	}
	state, listeners := c.changedLocked()
	c.mu.Unlock()

	notify(listeners, state)
}

// changedLocked bumps the sequence and returns what listeners need.
func (c *Controller) changedLocked() (State, []Listener) {
	c.seq++
	return c.snapshotLocked(), c.listeners
}

func (c *Controller) snapshotLocked() State {
	total := domain.Total(c.draft)
	return State{
		Seq:           c.seq,
		Mode:          c.mode,
		OrderID:       c.orderID,
		Items:         c.draft.Items(),
		Total:         total,
		PaymentMethod: c.draft.PaymentMethod(),
		CashTendered:  c.draft.CashTendered(),
		ChangeDue:     domain.ChangeDue(c.draft.CashTendered(), total),
		Notes:         c.draft.GeneralNotes(),
		Held:          c.held,
	}
}

func errHeld() error {
	return apperrors.Conflict(apperrors.CodeSubmissionInProgress, "this order is being submitted")
}

func notify(listeners []Listener, state State) {
	for _, fn := range listeners {
		fn(state)
	}
}
