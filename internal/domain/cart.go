package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart domain errors.
var (
	ErrCartNotFound     = &Error{Code: ENOTFOUND, Message: "Cart not found"}
	ErrCartItemNotFound = &Error{Code: ENOTFOUND, Message: "Cart item not found"}
	ErrInvalidQuantity  = &Error{Code: EINVALID, Message: "Quantity must be greater than 0"}
)

// Cart is a shopping session. A customer may accumulate many carts over time;
// the most recently created one is their active cart.
type Cart struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	CreatedAt  time.Time
}

// CartItem is one (book, quantity) line in a cart. A cart holds at most one
// line per book: adding the same book again merges quantities.
type CartItem struct {
	ID       uuid.UUID
	CartID   uuid.UUID
	BookID   uuid.UUID
	Quantity int
}

// CartSummary aggregates a cart with its lines and live totals. Prices here
// are the books' current prices, not snapshots: they can change until checkout
// freezes them onto order items.
type CartSummary struct {
	Cart       Cart
	Items      []CartSummaryItem
	ItemCount  int
	TotalPrice decimal.Decimal
}

// CartSummaryItem is a cart line joined with current book data.
type CartSummaryItem struct {
	Item         CartItem
	BookTitle    string
	UnitPrice    decimal.Decimal
	LineSubtotal decimal.Decimal
}
