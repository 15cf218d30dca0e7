// Package events publishes order lifecycle notifications for downstream
// consumers (fulfillment, email, analytics). Publishing is best-effort and
// happens after the database transaction commits; a failed publish never
// fails the operation that produced it.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types.
const (
	OrderCreated  = "order.created"
	OrderCanceled = "order.canceled"
)

// OrderEvent describes a change to an order.
type OrderEvent struct {
	Type       string          `json:"type"`
	OrderID    uuid.UUID       `json:"order_id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	Total      decimal.Decimal `json:"total"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// Publisher emits order events.
type Publisher interface {
	PublishOrderEvent(ctx context.Context, event OrderEvent) error
	Close()
}

// NoopPublisher discards all events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderEvent(ctx context.Context, event OrderEvent) error { return nil }
func (NoopPublisher) Close()                                                        {}
