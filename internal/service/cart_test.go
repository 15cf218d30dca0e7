package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhucCodee/LuffysBookstore/internal/domain"
	"github.com/PhucCodee/LuffysBookstore/internal/repository/memory"
)

func TestCartService_GetOrCreateActiveCart(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a cart for a new customer", func(t *testing.T) {
		store := memory.NewStore()
		customer := seedCustomer(t, store)
		svc := NewCartService(store, testLogger())

		cart, err := svc.GetOrCreateActiveCart(ctx, customer.ID)
		require.NoError(t, err)
		assert.Equal(t, customer.ID, cart.CustomerID)

		again, err := svc.GetOrCreateActiveCart(ctx, customer.ID)
		require.NoError(t, err)
		assert.Equal(t, cart.ID, again.ID, "second call must return the same cart")
	})

	t.Run("unknown customer", func(t *testing.T) {
		svc := NewCartService(memory.NewStore(), testLogger())
		_, err := svc.GetOrCreateActiveCart(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
	})
}

func TestCartService_AddItem(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*memory.Store, CartService, domain.Cart, domain.Book) {
		store := memory.NewStore()
		customer := seedCustomer(t, store)
		cart := seedCart(t, store, customer.ID)
		book := seedBook(t, store, "15.00", 5, domain.BookStatusAvailable)
		return store, NewCartService(store, testLogger()), cart, book
	}

	t.Run("adds a new line", func(t *testing.T) {
		_, svc, cart, book := setup(t)
		item, err := svc.AddItem(ctx, cart.ID, book.ID, 2)
		require.NoError(t, err)
		assert.Equal(t, 2, item.Quantity)
		assert.Equal(t, book.ID, item.BookID)
	})

	t.Run("merges quantities for the same book", func(t *testing.T) {
		_, svc, cart, book := setup(t)
		first, err := svc.AddItem(ctx, cart.ID, book.ID, 2)
		require.NoError(t, err)

		second, err := svc.AddItem(ctx, cart.ID, book.ID, 3)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID, "must merge into the existing line")
		assert.Equal(t, 5, second.Quantity)
	})

	t.Run("merged quantity cannot exceed stock", func(t *testing.T) {
		_, svc, cart, book := setup(t)
		_, err := svc.AddItem(ctx, cart.ID, book.ID, 3)
		require.NoError(t, err)

		_, err = svc.AddItem(ctx, cart.ID, book.ID, 3)
		assert.ErrorIs(t, err, ErrInsufficientStock)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, svc, cart, book := setup(t)
		_, err := svc.AddItem(ctx, cart.ID, book.ID, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	})

	t.Run("rejects upcoming and out of stock books", func(t *testing.T) {
		store, svc, cart, _ := setup(t)
		upcoming := seedBook(t, store, "9.99", 3, domain.BookStatusUpcoming)
		depleted := seedBook(t, store, "9.99", 0, domain.BookStatusOutOfStock)

		_, err := svc.AddItem(ctx, cart.ID, upcoming.ID, 1)
		assert.ErrorIs(t, err, domain.ErrBookUnavailable)

		_, err = svc.AddItem(ctx, cart.ID, depleted.ID, 1)
		assert.ErrorIs(t, err, domain.ErrBookUnavailable)
	})

	t.Run("unknown cart and book", func(t *testing.T) {
		_, svc, cart, book := setup(t)
		_, err := svc.AddItem(ctx, uuid.New(), book.ID, 1)
		assert.ErrorIs(t, err, domain.ErrCartNotFound)

		_, err = svc.AddItem(ctx, cart.ID, uuid.New(), 1)
		assert.ErrorIs(t, err, domain.ErrBookNotFound)
	})
}

func TestCartService_UpdateItemQuantity(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	customer := seedCustomer(t, store)
	cart := seedCart(t, store, customer.ID)
	book := seedBook(t, store, "15.00", 5, domain.BookStatusAvailable)
	item := seedCartItem(t, store, cart.ID, book.ID, 2)
	svc := NewCartService(store, testLogger())

	t.Run("updates quantity", func(t *testing.T) {
		got, err := svc.UpdateItemQuantity(ctx, cart.ID, item.ID, 4)
		require.NoError(t, err)
		assert.Equal(t, 4, got.Quantity)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := svc.UpdateItemQuantity(ctx, cart.ID, item.ID, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	})

	t.Run("rejects quantity above stock", func(t *testing.T) {
		_, err := svc.UpdateItemQuantity(ctx, cart.ID, item.ID, 6)
		assert.ErrorIs(t, err, ErrInsufficientStock)
	})

	t.Run("rejects a foreign cart", func(t *testing.T) {
		other := seedCart(t, store, customer.ID)
		_, err := svc.UpdateItemQuantity(ctx, other.ID, item.ID, 1)
		assert.ErrorIs(t, err, ErrOwnershipMismatch)
	})

	t.Run("unknown item", func(t *testing.T) {
		_, err := svc.UpdateItemQuantity(ctx, cart.ID, uuid.New(), 1)
		assert.ErrorIs(t, err, domain.ErrCartItemNotFound)
	})
}

func TestCartService_RemoveItem(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	customer := seedCustomer(t, store)
	cart := seedCart(t, store, customer.ID)
	book := seedBook(t, store, "15.00", 5, domain.BookStatusAvailable)
	item := seedCartItem(t, store, cart.ID, book.ID, 2)
	svc := NewCartService(store, testLogger())

	t.Run("rejects a foreign cart", func(t *testing.T) {
		other := seedCart(t, store, customer.ID)
		err := svc.RemoveItem(ctx, other.ID, item.ID)
		assert.ErrorIs(t, err, ErrOwnershipMismatch)
	})

	t.Run("removes and is idempotent", func(t *testing.T) {
		require.NoError(t, svc.RemoveItem(ctx, cart.ID, item.ID))
		require.NoError(t, svc.RemoveItem(ctx, cart.ID, item.ID), "second removal must not fail")

		items, err := store.CartItems().ListByCart(ctx, cart.ID)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestCartService_Summary(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	customer := seedCustomer(t, store)
	cart := seedCart(t, store, customer.ID)
	bookA := seedBook(t, store, "10.50", 5, domain.BookStatusAvailable)
	bookB := seedBook(t, store, "7.25", 5, domain.BookStatusAvailable)
	seedCartItem(t, store, cart.ID, bookA.ID, 2)
	seedCartItem(t, store, cart.ID, bookB.ID, 1)
	svc := NewCartService(store, testLogger())

	summary, err := svc.Summary(ctx, cart.ID)
	require.NoError(t, err)
	assert.Len(t, summary.Items, 2)
	assert.Equal(t, 3, summary.ItemCount)
	assert.Equal(t, "28.25", summary.TotalPrice.StringFixed(2))

	_, err = svc.Summary(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrCartNotFound)
}
