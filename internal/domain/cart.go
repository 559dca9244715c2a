package domain

import "time"

// CartLine captures the unit price at add-to-cart time. The checkout core
// re-validates prices against the catalog before settling, so a stale line
// never leaks a stale price into an order.
type CartLine struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Cart is a per-user draft cart mirrored server-side for session continuity.
// It is never consulted during settlement; the checkout request carries its
// own line items.
type Cart struct {
	UserID    string     `json:"userId"`
	Items     []CartLine `json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
