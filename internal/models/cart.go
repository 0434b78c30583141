package models

import "fmt"

type CartItem struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}

type CartSummary struct {
	ItemCount int     `json:"item_count"`
	Total     float64 `json:"total"`
}

// DisplayTotal renders the running total with two decimals. The stored
// Total keeps full precision; rounding is display-only.
func (s CartSummary) DisplayTotal() string {
	return fmt.Sprintf("%.2f", s.Total)
}

type CartEventType string

const (
	CartItemAdded   CartEventType = "item_added"
	CartItemRemoved CartEventType = "item_removed"
	CartQuantitySet CartEventType = "quantity_set"
)

// CartEvent is delivered to subscribers after every effective cart
// mutation. Message carries the user-facing acknowledgment; it is empty
// for quantity updates.
type CartEvent struct {
	SessionID string        `json:"-"`
	Type      CartEventType `json:"type"`
	ProductID int           `json:"product_id"`
	Message   string        `json:"message,omitempty"`
	Summary   CartSummary   `json:"summary"`
}

type AddToCartRequest struct {
	ProductID int `json:"product_id" binding:"required"`
}

// Quantity deliberately carries no gt=0 binding: out-of-range values are
// clamped by the store, not rejected at the boundary.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}
