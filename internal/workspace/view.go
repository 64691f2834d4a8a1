package workspace

import (
	"github.com/utafrali/counterdesk/internal/domain"
	"github.com/utafrali/counterdesk/internal/draft"
)

// Target selects one of the two drafts of a workspace.
type Target string

const (
	TargetNew  Target = "new"
	TargetEdit Target = "edit"
)

// ParseTarget reports whether s names a draft.
func ParseTarget(s string) (Target, bool) {
	switch Target(s) {
	case TargetNew, TargetEdit:
		return Target(s), true
	default:
		return "", false
	}
}

// Renderer paints a view. Render is called synchronously after every change
// to a draft or its suggestions.
type Renderer interface {
	Render(View)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(View)

func (f RendererFunc) Render(v View) { f(v) }

// View is what a renderer needs to paint one draft. Amounts are preformatted.
type View struct {
	Target        Target           `json:"target"`
	Version       uint64           `json:"version"`
	OrderID       string           `json:"order_id,omitempty"`
	Items         []ViewItem       `json:"items"`
	ItemCount     int              `json:"item_count"`
	Total         string           `json:"total"`
	PaymentMethod string           `json:"payment_method,omitempty"`
	PaymentLabel  string           `json:"payment_label,omitempty"`
	CashTendered  string           `json:"cash_tendered,omitempty"`
	ChangeDue     string           `json:"change_due,omitempty"`
	Notes         string           `json:"notes"`
	Suggestions   []ViewSuggestion `json:"suggestions"`
	Submitting    bool             `json:"submitting"`
	Empty         bool             `json:"empty"`
}

// ViewItem is one rendered line.
type ViewItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
	Notes     string `json:"notes"`
}

// ViewSuggestion is one rendered search result.
type ViewSuggestion struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
}

// PaymentOption is a selectable payment method.
type PaymentOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// PaymentOptions lists the methods an operator can pick for a new order.
func PaymentOptions() []PaymentOption {
	methods := domain.PaymentMethods()
	out := make([]PaymentOption, 0, len(methods))
	for _, m := range methods {
		out = append(out, PaymentOption{Value: string(m), Label: m.Label()})
	}
	return out
}

// NewView builds the view of state. Edit views carry no payment fields since
// payment is fixed when an order is created.
func NewView(target Target, state draft.State, suggestions []domain.Product) View {
	v := View{
		Target:      target,
		OrderID:     state.OrderID,
		Items:       make([]ViewItem, 0, len(state.Items)),
		ItemCount:   len(state.Items),
		Total:       domain.FormatMoney(state.Total),
		Notes:       state.Notes,
		Suggestions: make([]ViewSuggestion, 0, len(suggestions)),
		Submitting:  state.Held,
		Empty:       len(state.Items) == 0,
	}
	for _, it := range state.Items {
		v.Items = append(v.Items, ViewItem{
			ProductID: it.ProductID.String(),
			Name:      it.Name,
			UnitPrice: domain.FormatMoney(it.UnitPrice),
			Quantity:  it.Quantity,
			LineTotal: domain.FormatMoney(domain.LineTotal(it)),
			Notes:     it.Notes,
		})
	}
	for _, p := range suggestions {
		v.Suggestions = append(v.Suggestions, ViewSuggestion{
			ProductID: p.ID.String(),
			Name:      p.Name,
			Price:     domain.FormatMoney(p.Price),
		})
	}
	if target == TargetNew {
		v.PaymentMethod = string(state.PaymentMethod)
		v.PaymentLabel = state.PaymentMethod.Label()
		v.ChangeDue = domain.FormatOptionalMoney(state.ChangeDue)
		if state.CashTendered.Valid {
			v.CashTendered = domain.FormatMoney(state.CashTendered.Decimal)
		}
	}
	return v
}
