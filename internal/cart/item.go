package cart

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Variant is a size/color selection distinguishing otherwise-identical
// products. Both axes are optional.
type Variant struct {
	Size  string `json:"size,omitempty"`
	Color string `json:"color,omitempty"`
}

// LineItem is one product+variant entry in the cart. Title, UnitPrice and
// Image are display snapshots captured at add time and never re-fetched.
type LineItem struct {
	ItemID    string          `json:"item_id"`
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Image     string          `json:"image,omitempty"`
	Quantity  int             `json:"quantity"`
	Variant   *Variant        `json:"variant,omitempty"`
}

// Subtotal returns unit price times quantity for this line.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// ProductSnapshot is the slice of a catalog product the cart keeps. Callers
// build it from the shop API payload with the default-language title.
type ProductSnapshot struct {
	ID        string
	Title     string
	UnitPrice decimal.Decimal
	Image     string
}

// ItemKey derives the merge key for a product+variant combination. Two add
// operations with the same key collapse into one line item.
func ItemKey(productID string, variant *Variant) string {
	var size, color string
	if variant != nil {
		size = variant.Size
		color = variant.Color
	}
	return strings.Join([]string{productID, size, color}, "-")
}
