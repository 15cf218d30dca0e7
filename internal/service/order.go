package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/PhucCodee/LuffysBookstore/internal/domain"
	"github.com/PhucCodee/LuffysBookstore/internal/events"
	"github.com/PhucCodee/LuffysBookstore/internal/repository"
	"github.com/PhucCodee/LuffysBookstore/internal/telemetry"
)

// CreateOrderInput carries the fields for creating an order directly,
// bypassing checkout. Admin tooling uses this; the order starts pending and
// empty, with items added through OrderItemService.
type CreateOrderInput struct {
	CustomerID    uuid.UUID
	Destination   string
	PaymentMethod domain.PaymentMethod
}

// OrderService manages order lifecycle after placement.
type OrderService interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Order, error)
	ListByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	Summary(ctx context.Context, id uuid.UUID) (domain.OrderSummary, error)

	// Create makes an empty pending order without going through checkout.
	Create(ctx context.Context, input CreateOrderInput) (domain.Order, error)

	// TransitionStatus moves an order to the given status. Canceled orders
	// accept no further transitions; cancellation itself must go through
	// Cancel so stock is restored.
	TransitionStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (domain.Order, error)

	// Cancel cancels a pending order and returns its stock to inventory.
	Cancel(ctx context.Context, id uuid.UUID) (domain.Order, error)

	// DeleteOrder removes an order and its items permanently. Stock is NOT
	// restored; use Cancel first if the units should return to inventory.
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

type orderService struct {
	store     repository.Store
	publisher events.Publisher
	logger    *slog.Logger
}

func NewOrderService(store repository.Store, publisher events.Publisher, logger *slog.Logger) OrderService {
	return &orderService{store: store, publisher: publisher, logger: logger}
}

func (s *orderService) Get(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	order, err := s.store.Orders().Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("failed to load order: %w", err)
	}
	return order, nil
}

func (s *orderService) List(ctx context.Context) ([]domain.Order, error) {
	return s.store.Orders().List(ctx)
}

func (s *orderService) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Order, error) {
	exists, err := s.store.Customers().ExistsByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check customer: %w", err)
	}
	if !exists {
		return nil, domain.ErrCustomerNotFound
	}
	return s.store.Orders().ListByCustomer(ctx, customerID)
}

func (s *orderService) ListByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	if !status.Valid() {
		return nil, &domain.Error{Code: domain.EINVALID, Message: "Unknown order status", Op: "order.ListByStatus"}
	}
	return s.store.Orders().ListByStatus(ctx, status)
}

func (s *orderService) Summary(ctx context.Context, id uuid.UUID) (domain.OrderSummary, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return domain.OrderSummary{}, err
	}

	items, err := s.store.OrderItems().ListByOrder(ctx, id)
	if err != nil {
		return domain.OrderSummary{}, fmt.Errorf("failed to list order items: %w", err)
	}

	summary := domain.OrderSummary{Order: order, Items: items}
	for _, it := range items {
		summary.TotalItems += it.Quantity
	}
	return summary, nil
}

func (s *orderService) Create(ctx context.Context, input CreateOrderInput) (domain.Order, error) {
	if input.Destination == "" {
		return domain.Order{}, &domain.Error{Code: domain.EINVALID, Message: "Destination is required", Op: "order.Create"}
	}
	if !input.PaymentMethod.Valid() {
		return domain.Order{}, &domain.Error{Code: domain.EINVALID, Message: "Unknown payment method", Op: "order.Create"}
	}

	exists, err := s.store.Customers().ExistsByID(ctx, input.CustomerID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to check customer: %w", err)
	}
	if !exists {
		return domain.Order{}, domain.ErrCustomerNotFound
	}

	now := time.Now().UTC()
	order := domain.Order{
		ID:            uuid.New(),
		CustomerID:    input.CustomerID,
		Destination:   input.Destination,
		Status:        domain.OrderStatusPending,
		Total:         decimal.Zero,
		PaymentMethod: input.PaymentMethod,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.Orders().Save(ctx, order); err != nil {
		return domain.Order{}, fmt.Errorf("failed to save order: %w", err)
	}
	return order, nil
}

func (s *orderService) TransitionStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (domain.Order, error) {
	if !status.Valid() {
		return domain.Order{}, &domain.Error{Code: domain.EINVALID, Message: "Unknown order status", Op: "order.TransitionStatus"}
	}
	if status == domain.OrderStatusCanceled {
		return s.Cancel(ctx, id)
	}

	var order domain.Order
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		o, err := tx.Orders().GetForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNoRows) {
				return domain.ErrOrderNotFound
			}
			return fmt.Errorf("failed to load order: %w", err)
		}
		if o.Status == domain.OrderStatusCanceled {
			return ErrInvalidTransition
		}

		o.Status = status
		o.UpdatedAt = time.Now().UTC()
		if err := tx.Orders().Save(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.logger.InfoContext(ctx, "order status changed",
		slog.String("order_id", id.String()),
		slog.String("status", string(status)),
	)
	return order, nil
}

func (s *orderService) Cancel(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	var order domain.Order
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		o, err := tx.Orders().GetForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNoRows) {
				return domain.ErrOrderNotFound
			}
			return fmt.Errorf("failed to load order: %w", err)
		}
		if o.Status != domain.OrderStatusPending {
			return ErrInvalidTransition
		}

		items, err := tx.OrderItems().ListByOrder(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to list order items: %w", err)
		}
		for _, it := range items {
			if _, err := adjustStock(ctx, tx, it.BookID, it.Quantity); err != nil {
				if errors.Is(err, domain.ErrBookNotFound) {
					// Book was removed from the catalog; its units cannot
					// return to inventory.
					continue
				}
				return err
			}
		}

		o.Status = domain.OrderStatusCanceled
		o.UpdatedAt = time.Now().UTC()
		if err := tx.Orders().Save(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	telemetry.OrdersCanceled.Inc()
	s.logger.InfoContext(ctx, "order canceled", slog.String("order_id", id.String()))

	if err := s.publisher.PublishOrderEvent(ctx, events.OrderEvent{
		Type:       events.OrderCanceled,
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Total:      order.Total,
		OccurredAt: order.UpdatedAt,
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to publish order event", slog.Any("error", err))
	}

	return order, nil
}

func (s *orderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Orders().GetForUpdate(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNoRows) {
				return domain.ErrOrderNotFound
			}
			return fmt.Errorf("failed to load order: %w", err)
		}

		if err := tx.OrderItems().DeleteByOrder(ctx, id); err != nil {
			return err
		}
		return tx.Orders().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "order deleted", slog.String("order_id", id.String()))
	return nil
}
