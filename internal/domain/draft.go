package domain

import (
	"math"
	"slices"

	"github.com/shopspring/decimal"
)

// LineItem is one product entry in a draft. Quantity is always at least 1
// while the item is held by a Draft.
type LineItem struct {
	ProductID ProductID
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	Notes     string
}

// Draft is an unsaved order: line items keyed by product id, kept in
// insertion order, plus payment attributes and general notes.
//
// Draft is not safe for concurrent use; draft.Controller serialises access.
type Draft struct {
	order         []ProductID
	items         map[ProductID]*LineItem
	paymentMethod PaymentMethod
	cashTendered  decimal.NullDecimal
	notes         string
}

// NewDraft returns an empty draft with the default payment method.
func NewDraft() *Draft {
	return &Draft{
		items:         make(map[ProductID]*LineItem),
		paymentMethod: DefaultPaymentMethod,
	}
}

// AddOrIncrement bumps the quantity of an existing item, or appends a new
// item with quantity 1 and empty notes. Name and price of an existing item
// are left untouched.
func (d *Draft) AddOrIncrement(id ProductID, name string, unitPrice decimal.Decimal) {
	if item, ok := d.items[id]; ok {
		item.Quantity = addQuantity(item.Quantity, 1)
		return
	}
	d.insert(&LineItem{ProductID: id, Name: name, UnitPrice: unitPrice, Quantity: 1})
}

// Put inserts a fully specified item, as materialised from an existing order.
// Items with a non-positive quantity are ignored. A repeated product id
// replaces the item already present and keeps its position.
func (d *Draft) Put(item LineItem) {
	if item.Quantity <= 0 {
		return
	}
	if existing, ok := d.items[item.ProductID]; ok {
		*existing = item
		return
	}
	d.insert(&item)
}

// ChangeQuantity adds delta to the item's quantity and removes the item when
// the result drops to zero or below. Increments saturate at math.MaxInt, so a
// positive delta never removes an item. Unknown ids are ignored.
func (d *Draft) ChangeQuantity(id ProductID, delta int) {
	item, ok := d.items[id]
	if !ok {
		return
	}
	item.Quantity = addQuantity(item.Quantity, delta)
	if item.Quantity <= 0 {
		d.Remove(id)
	}
}

// SetNotes overwrites the notes of an item. Unknown ids are ignored.
func (d *Draft) SetNotes(id ProductID, text string) {
	if item, ok := d.items[id]; ok {
		item.Notes = text
	}
}

// Remove deletes the item if present.
func (d *Draft) Remove(id ProductID) {
	if _, ok := d.items[id]; !ok {
		return
	}
	delete(d.items, id)
	d.order = slices.DeleteFunc(d.order, func(o ProductID) bool { return o == id })
}

// addQuantity returns q+delta, saturating at math.MaxInt. q is always
// positive, so only a positive delta can overflow.
func addQuantity(q, delta int) int {
	if delta > 0 && q > math.MaxInt-delta {
		return math.MaxInt
	}
	return q + delta
}

// Clear empties the draft and restores payment and notes defaults.
func (d *Draft) Clear() {
	d.order = nil
	d.items = make(map[ProductID]*LineItem)
	d.paymentMethod = DefaultPaymentMethod
	d.cashTendered = decimal.NullDecimal{}
	d.notes = ""
}

// IsEmpty reports whether the draft holds no items.
func (d *Draft) IsEmpty() bool {
	return len(d.order) == 0
}

// Len returns the number of distinct items.
func (d *Draft) Len() int {
	return len(d.order)
}

// HasItem reports whether id is present.
func (d *Draft) HasItem(id ProductID) bool {
	_, ok := d.items[id]
	return ok
}

// Item returns a copy of the item for id.
func (d *Draft) Item(id ProductID) (LineItem, bool) {
	item, ok := d.items[id]
	if !ok {
		return LineItem{}, false
	}
	return *item, true
}

// Items returns copies of all items in display order.
func (d *Draft) Items() []LineItem {
	out := make([]LineItem, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, *d.items[id])
	}
	return out
}

// PaymentMethod returns the selected payment method.
func (d *Draft) PaymentMethod() PaymentMethod {
	return d.paymentMethod
}

// SetPaymentMethod selects m. Switching away from cash drops the tendered amount.
func (d *Draft) SetPaymentMethod(m PaymentMethod) {
	d.paymentMethod = m
	if !m.IsCash() {
		d.cashTendered = decimal.NullDecimal{}
	}
}

// CashTendered returns the amount handed over by the customer, if any.
func (d *Draft) CashTendered() decimal.NullDecimal {
	return d.cashTendered
}

// SetCashTendered records the tendered amount. It is refused, and any stale
// amount cleared, when the payment method is not cash.
func (d *Draft) SetCashTendered(amount decimal.Decimal) bool {
	if !d.paymentMethod.IsCash() {
		d.cashTendered = decimal.NullDecimal{}
		return false
	}
	d.cashTendered = decimal.NewNullDecimal(amount)
	return true
}

// GeneralNotes returns the order-level notes.
func (d *Draft) GeneralNotes() string {
	return d.notes
}

// SetGeneralNotes overwrites the order-level notes.
func (d *Draft) SetGeneralNotes(text string) {
	d.notes = text
}

// Clone returns a deep copy of the draft.
func (d *Draft) Clone() *Draft {
	c := &Draft{
		order:         slices.Clone(d.order),
		items:         make(map[ProductID]*LineItem, len(d.items)),
		paymentMethod: d.paymentMethod,
		cashTendered:  d.cashTendered,
		notes:         d.notes,
	}
	for id, item := range d.items {
		cp := *item
		c.items[id] = &cp
	}
	return c
}

func (d *Draft) insert(item *LineItem) {
	d.items[item.ProductID] = item
	d.order = append(d.order, item.ProductID)
}
