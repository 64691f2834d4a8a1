package domain

import "fmt"

// OrderID identifies an order persisted by the caixa backend. Like product
// ids it may arrive as a JSON number or string.
type OrderID string

// UnmarshalJSON accepts a JSON string, number or null.
func (id *OrderID) UnmarshalJSON(b []byte) error {
	s, err := decodeID(b)
	if err != nil {
		return fmt.Errorf("decode order id: %w", err)
	}
	*id = OrderID(s)
	return nil
}

func (id OrderID) String() string {
	return string(id)
}

// Receipt is backend-rendered markup for one order. The markup is opaque.
type Receipt struct {
	OrderID OrderID
	Markup  string
}
