package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order domain errors.
var (
	ErrOrderNotFound     = &Error{Code: ENOTFOUND, Message: "Order not found"}
	ErrOrderItemNotFound = &Error{Code: ENOTFOUND, Message: "Order item not found"}
)

// OrderStatus is the fulfillment state of an order. pending is the only
// initial state from checkout; delivered and canceled are terminal.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusInTransit OrderStatus = "in_transit"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCanceled  OrderStatus = "canceled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusInTransit, OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

// PaymentMethod identifies how an order is paid. It is a recorded attribute
// only; payment processing is outside this system.
type PaymentMethod string

const (
	PaymentElectronicBanking PaymentMethod = "electronic_banking"
	PaymentCashOnDelivery    PaymentMethod = "cash_on_delivery"
	PaymentCreditCard        PaymentMethod = "credit_card"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentElectronicBanking, PaymentCashOnDelivery, PaymentCreditCard:
		return true
	}
	return false
}

// Order is a placed purchase. Total is derived: it always equals the sum of
// PriceAtPurchase times Quantity over the order's items.
type Order struct {
	ID            uuid.UUID
	CustomerID    uuid.UUID
	Destination   string
	Status        OrderStatus
	Total         decimal.Decimal
	PaymentMethod PaymentMethod
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderItem is one line of an order. PriceAtPurchase is frozen when the item
// is created and never re-read from the book.
type OrderItem struct {
	ID              uuid.UUID
	OrderID         uuid.UUID
	BookID          uuid.UUID
	Quantity        int
	PriceAtPurchase decimal.Decimal
}

// OrderSummary aggregates an order with its items and the total unit count.
type OrderSummary struct {
	Order      Order
	Items      []OrderItem
	TotalItems int
}
