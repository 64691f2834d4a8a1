package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ProductID identifies a product in the caixa backend. The backend emits
// numeric ids while drafts key items by their string form, so both JSON
// shapes decode to the same value.
type ProductID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ProductID) UnmarshalJSON(b []byte) error {
	s, err := decodeID(b)
	if err != nil {
		return fmt.Errorf("decode product id: %w", err)
	}
	if s == "" {
		return fmt.Errorf("decode product id: empty")
	}
	*id = ProductID(s)
	return nil
}

// decodeID reads a string or numeric JSON id. null decodes to "".
func decodeID(b []byte) (string, error) {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return "", nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

func (id ProductID) String() string {
	return string(id)
}

// Product is a search result that can be added to a draft.
type Product struct {
	ID    ProductID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}
