package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/PhucCodee/LuffysBookstore/internal/domain"
	"github.com/PhucCodee/LuffysBookstore/internal/events"
	"github.com/PhucCodee/LuffysBookstore/internal/repository"
	"github.com/PhucCodee/LuffysBookstore/internal/telemetry"
)

// CheckoutInput carries the customer's choices for placing an order.
type CheckoutInput struct {
	CustomerID    uuid.UUID
	Destination   string
	PaymentMethod domain.PaymentMethod
}

// CheckoutService converts a cart into an order. The conversion is atomic:
// either the order exists with stock decremented and the cart emptied, or
// nothing changed at all.
type CheckoutService interface {
	Checkout(ctx context.Context, cartID uuid.UUID, input CheckoutInput) (domain.OrderSummary, error)
}

type checkoutService struct {
	store     repository.Store
	publisher events.Publisher
	logger    *slog.Logger
}

func NewCheckoutService(store repository.Store, publisher events.Publisher, logger *slog.Logger) CheckoutService {
	return &checkoutService{store: store, publisher: publisher, logger: logger}
}

func (s *checkoutService) Checkout(ctx context.Context, cartID uuid.UUID, input CheckoutInput) (domain.OrderSummary, error) {
	if input.Destination == "" {
		return domain.OrderSummary{}, &domain.Error{Code: domain.EINVALID, Message: "Destination is required", Op: "checkout.Checkout"}
	}
	if !input.PaymentMethod.Valid() {
		return domain.OrderSummary{}, &domain.Error{Code: domain.EINVALID, Message: "Unknown payment method", Op: "checkout.Checkout"}
	}

	var summary domain.OrderSummary
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		// Lock the cart row first: a double-submitted checkout serializes
		// here, and the loser finds the cart already emptied.
		cart, err := tx.Carts().GetForUpdate(ctx, cartID)
		if err != nil {
			if errors.Is(err, repository.ErrNoRows) {
				return domain.ErrCartNotFound
			}
			return fmt.Errorf("failed to load cart: %w", err)
		}
		if cart.CustomerID != input.CustomerID {
			return ErrOwnershipMismatch
		}

		lines, err := tx.CartItems().ListByCart(ctx, cartID)
		if err != nil {
			return fmt.Errorf("failed to list cart items: %w", err)
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		// Lock books in a stable order so two concurrent checkouts over the
		// same titles cannot deadlock.
		sort.Slice(lines, func(i, j int) bool {
			return lines[i].BookID.String() < lines[j].BookID.String()
		})

		now := time.Now().UTC()
		order := domain.Order{
			ID:            uuid.New(),
			CustomerID:    cart.CustomerID,
			Destination:   input.Destination,
			Status:        domain.OrderStatusPending,
			Total:         decimal.Zero,
			PaymentMethod: input.PaymentMethod,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		var (
			items      []domain.OrderItem
			totalUnits int
		)
		for _, line := range lines {
			book, err := adjustStock(ctx, tx, line.BookID, -line.Quantity)
			if err != nil {
				if errors.Is(err, ErrInsufficientStock) {
					telemetry.CheckoutStockConflicts.Inc()
				}
				return err
			}

			item := domain.OrderItem{
				ID:              uuid.New(),
				OrderID:         order.ID,
				BookID:          book.ID,
				Quantity:        line.Quantity,
				PriceAtPurchase: book.Price,
			}
			items = append(items, item)
			totalUnits += line.Quantity
			order.Total = order.Total.Add(book.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		if err := tx.Orders().Save(ctx, order); err != nil {
			return fmt.Errorf("failed to save order: %w", err)
		}
		for _, item := range items {
			if err := tx.OrderItems().Save(ctx, item); err != nil {
				return fmt.Errorf("failed to save order item: %w", err)
			}
		}
		if err := tx.CartItems().DeleteByCart(ctx, cartID); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}

		summary = domain.OrderSummary{Order: order, Items: items, TotalItems: totalUnits}
		return nil
	})
	if err != nil {
		return domain.OrderSummary{}, err
	}

	telemetry.OrdersPlaced.Inc()
	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", summary.Order.ID.String()),
		slog.String("customer_id", summary.Order.CustomerID.String()),
		slog.String("total", summary.Order.Total.StringFixed(2)),
		slog.Int("items", summary.TotalItems),
	)

	if err := s.publisher.PublishOrderEvent(ctx, events.OrderEvent{
		Type:       events.OrderCreated,
		OrderID:    summary.Order.ID,
		CustomerID: summary.Order.CustomerID,
		Total:      summary.Order.Total,
		OccurredAt: summary.Order.CreatedAt,
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to publish order event", slog.Any("error", err))
	}

	return summary, nil
}
