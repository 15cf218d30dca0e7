package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhucCodee/LuffysBookstore/internal/domain"
	"github.com/PhucCodee/LuffysBookstore/internal/events"
	"github.com/PhucCodee/LuffysBookstore/internal/repository/memory"
)

func TestOrderService_TransitionStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("moves pending to in_transit to delivered", func(t *testing.T) {
		store := memory.NewStore()
		customer := seedCustomer(t, store)
		order := seedOrder(t, store, customer.ID, domain.OrderStatusPending)
		svc := NewOrderService(store, &events.MockPublisher{}, testLogger())

		got, err := svc.TransitionStatus(ctx, order.ID, domain.OrderStatusInTransit)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusInTransit, got.Status)

		got, err = svc.TransitionStatus(ctx, order.ID, domain.OrderStatusDelivered)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusDelivered, got.Status)
	})

	t.Run("canceled orders accept no transitions", func(t *testing.T) {
		store := memory.NewStore()
		customer := seedCustomer(t, store)
		order := seedOrder(t, store, customer.ID, domain.OrderStatusCanceled)
		svc := NewOrderService(store, &events.MockPublisher{}, testLogger())

		_, err := svc.TransitionStatus(ctx, order.ID, domain.OrderStatusInTransit)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("transition to canceled routes through Cancel", func(t *testing.T) {
		store := memory.NewStore()
		customer := seedCustomer(t, store)
		order := seedOrder(t, store, customer.ID, domain.OrderStatusPending)
		book := seedBook(t, store, "10.00", 0, domain.BookStatusOutOfStock)
		seedOrderItem(t, store, order.ID, book.ID, 2, "10.00")
		svc := NewOrderService(store, &events.MockPublisher{}, testLogger())

		got, err := svc.TransitionStatus(ctx, order.ID, domain.OrderStatusCanceled)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCanceled, got.Status)

		gotBook, err := store.Books().Get(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, gotBook.Stock, "cancellation must restore stock")
	})

	t.Run("unknown order", func(t *testing.T) {
		svc := NewOrderService(memory.NewStore(), &events.MockPublisher{}, testLogger())
		_, err := svc.TransitionStatus(ctx, uuid.New(), domain.OrderStatusInTransit)
		assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	})
}

func TestOrderService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("restores stock and publishes", func(t *testing.T) {
		store := memory.NewStore()
		customer := seedCustomer(t, store)
		order := seedOrder(t, store, customer.ID, domain.OrderStatusPending)
		book := seedBook(t, store, "10.00", 0, domain.BookStatusOutOfStock)
		seedOrderItem(t, store, order.ID, book.ID, 3, "10.00")

		publisher := &events.MockPublisher{}
		svc := NewOrderService(store, publisher, testLogger())

		got, err := svc.Cancel(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCanceled, got.Status)

		gotBook, err := store.Books().Get(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, gotBook.Stock)
		assert.Equal(t, domain.BookStatusAvailable, gotBook.Status, "restock must bring the book back")

		published := publisher.Events()
		require.Len(t, published, 1)
		assert.Equal(t, events.OrderCanceled, published[0].Type)
	})

	t.Run("only pending orders cancel", func(t *testing.T) {
		store := memory.NewStore()
		customer := seedCustomer(t, store)
		svc := NewOrderService(store, &events.MockPublisher{}, testLogger())

		for _, status := range []domain.OrderStatus{
			domain.OrderStatusInTransit,
			domain.OrderStatusDelivered,
		} {
			order := seedOrder(t, store, customer.ID, status)
			_, err := svc.Cancel(ctx, order.ID)
			assert.ErrorIs(t, err, ErrInvalidTransition, string(status))
		}
	})

	t.Run("double cancel fails without touching stock", func(t *testing.T) {
		store := memory.NewStore()
		customer := seedCustomer(t, store)
		order := seedOrder(t, store, customer.ID, domain.OrderStatusPending)
		book := seedBook(t, store, "10.00", 0, domain.BookStatusOutOfStock)
		seedOrderItem(t, store, order.ID, book.ID, 3, "10.00")
		svc := NewOrderService(store, &events.MockPublisher{}, testLogger())

		_, err := svc.Cancel(ctx, order.ID)
		require.NoError(t, err)

		_, err = svc.Cancel(ctx, order.ID)
		assert.ErrorIs(t, err, ErrInvalidTransition)

		gotBook, err := store.Books().Get(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, gotBook.Stock, "stock must not be restored twice")
	})

	t.Run("double cancel under stale unlocked reads", func(t *testing.T) {
		// A second connection whose plain reads still see the pending row
		// must be stopped by the locked read, or stock comes back twice.
		store := memory.NewStore()
		customer := seedCustomer(t, store)
		order := seedOrder(t, store, customer.ID, domain.OrderStatusPending)
		book := seedBook(t, store, "10.00", 2, domain.BookStatusAvailable)
		seedOrderItem(t, store, order.ID, book.ID, 2, "10.00")

		stale := newStaleReadStore(store)
		stale.captureOrder(order)
		svc := NewOrderService(stale, &events.MockPublisher{}, testLogger())

		_, err := svc.Cancel(ctx, order.ID)
		require.NoError(t, err)

		_, err = svc.Cancel(ctx, order.ID)
		assert.ErrorIs(t, err, ErrInvalidTransition, "exactly one cancel may succeed")

		gotBook, err := store.Books().Get(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, gotBook.Stock, "stock must be restored exactly once")
	})

	t.Run("skips restock for deleted books", func(t *testing.T) {
		store := memory.NewStore()
		customer := seedCustomer(t, store)
		order := seedOrder(t, store, customer.ID, domain.OrderStatusPending)
		seedOrderItem(t, store, order.ID, uuid.New(), 3, "10.00")
		svc := NewOrderService(store, &events.MockPublisher{}, testLogger())

		got, err := svc.Cancel(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCanceled, got.Status)
	})
}

func TestOrderService_Create(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	customer := seedCustomer(t, store)
	svc := NewOrderService(store, &events.MockPublisher{}, testLogger())

	t.Run("creates an empty pending order", func(t *testing.T) {
		order, err := svc.Create(ctx, CreateOrderInput{
			CustomerID:    customer.ID,
			Destination:   "221B Baker Street",
			PaymentMethod: domain.PaymentCashOnDelivery,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusPending, order.Status)
		assert.True(t, order.Total.IsZero())
	})

	t.Run("validates input", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateOrderInput{CustomerID: customer.ID, PaymentMethod: domain.PaymentCreditCard})
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

		_, err = svc.Create(ctx, CreateOrderInput{CustomerID: customer.ID, Destination: "x", PaymentMethod: "barter"})
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

		_, err = svc.Create(ctx, CreateOrderInput{CustomerID: uuid.New(), Destination: "x", PaymentMethod: domain.PaymentCreditCard})
		assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
	})
}

func TestOrderService_DeleteOrder(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	customer := seedCustomer(t, store)
	order := seedOrder(t, store, customer.ID, domain.OrderStatusDelivered)
	book := seedBook(t, store, "10.00", 1, domain.BookStatusAvailable)
	item := seedOrderItem(t, store, order.ID, book.ID, 2, "10.00")
	svc := NewOrderService(store, &events.MockPublisher{}, testLogger())

	require.NoError(t, svc.DeleteOrder(ctx, order.ID))

	_, err := store.Orders().Get(ctx, order.ID)
	assert.Error(t, err)
	_, err = store.OrderItems().Get(ctx, item.ID)
	assert.Error(t, err, "items must be purged with the order")

	gotBook, err := store.Books().Get(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, gotBook.Stock, "deletion must not restock")

	err = svc.DeleteOrder(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestOrderService_Summary(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	customer := seedCustomer(t, store)
	order := seedOrder(t, store, customer.ID, domain.OrderStatusPending)
	bookA := seedBook(t, store, "10.00", 5, domain.BookStatusAvailable)
	bookB := seedBook(t, store, "5.00", 5, domain.BookStatusAvailable)
	seedOrderItem(t, store, order.ID, bookA.ID, 2, "10.00")
	seedOrderItem(t, store, order.ID, bookB.ID, 1, "5.00")
	svc := NewOrderService(store, &events.MockPublisher{}, testLogger())

	summary, err := svc.Summary(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, summary.Items, 2)
	assert.Equal(t, 3, summary.TotalItems)
}
