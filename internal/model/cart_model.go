package model

import "github.com/shopspring/decimal"

// CartLine is one row of a user's cart. UnitPrice is the catalog price
// captured when the item was added.
type CartLine struct {
	CartLineID int64           `json:"id"`
	UserID     int64           `json:"user_id"`
	ItemType   ItemType        `json:"item_type"`
	ItemID     int64           `json:"item_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// Subtotal returns quantity × unit price.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartItem is what the API exposes (joined with the item name)
type CartItem struct {
	CartLine
	Name      string          `json:"name"`
	LineTotal decimal.Decimal `json:"subtotal"`
}

// CartResponse is returned when calling GET /api/cart
type CartResponse struct {
	Items []CartItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// CartTotal sums the subtotals of lines.
func CartTotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
