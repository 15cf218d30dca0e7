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

func TestInventoryService_AdjustStock(t *testing.T) {
	ctx := context.Background()

	t.Run("book not found", func(t *testing.T) {
		svc := NewInventoryService(memory.NewStore(), testLogger())
		_, err := svc.AdjustStock(ctx, uuid.New(), 5)
		assert.ErrorIs(t, err, domain.ErrBookNotFound)
	})

	t.Run("increments stock", func(t *testing.T) {
		store := memory.NewStore()
		book := seedBook(t, store, "10.00", 3, domain.BookStatusAvailable)
		svc := NewInventoryService(store, testLogger())

		got, err := svc.AdjustStock(ctx, book.ID, 4)
		require.NoError(t, err)
		assert.Equal(t, 7, got.Stock)
		assert.Equal(t, domain.BookStatusAvailable, got.Status)
	})

	t.Run("rejects adjustment below zero", func(t *testing.T) {
		store := memory.NewStore()
		book := seedBook(t, store, "10.00", 3, domain.BookStatusAvailable)
		svc := NewInventoryService(store, testLogger())

		_, err := svc.AdjustStock(ctx, book.ID, -4)
		assert.ErrorIs(t, err, ErrInsufficientStock)

		got, err := store.Books().Get(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, got.Stock, "failed adjustment must not change stock")
	})

	t.Run("depleting stock marks book out of stock", func(t *testing.T) {
		store := memory.NewStore()
		book := seedBook(t, store, "10.00", 2, domain.BookStatusAvailable)
		svc := NewInventoryService(store, testLogger())

		got, err := svc.AdjustStock(ctx, book.ID, -2)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Stock)
		assert.Equal(t, domain.BookStatusOutOfStock, got.Status)
	})

	t.Run("restock promotes out of stock to available", func(t *testing.T) {
		store := memory.NewStore()
		book := seedBook(t, store, "10.00", 0, domain.BookStatusOutOfStock)
		svc := NewInventoryService(store, testLogger())

		got, err := svc.AdjustStock(ctx, book.ID, 5)
		require.NoError(t, err)
		assert.Equal(t, 5, got.Stock)
		assert.Equal(t, domain.BookStatusAvailable, got.Status)
	})

	t.Run("stocking an upcoming book keeps it upcoming", func(t *testing.T) {
		store := memory.NewStore()
		book := seedBook(t, store, "10.00", 0, domain.BookStatusUpcoming)
		svc := NewInventoryService(store, testLogger())

		got, err := svc.AdjustStock(ctx, book.ID, 10)
		require.NoError(t, err)
		assert.Equal(t, 10, got.Stock)
		assert.Equal(t, domain.BookStatusUpcoming, got.Status, "release requires an explicit status change")
	})
}

func TestInventoryService_SetStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("releases an upcoming book", func(t *testing.T) {
		store := memory.NewStore()
		book := seedBook(t, store, "10.00", 10, domain.BookStatusUpcoming)
		svc := NewInventoryService(store, testLogger())

		got, err := svc.SetStatus(ctx, book.ID, domain.BookStatusAvailable)
		require.NoError(t, err)
		assert.Equal(t, domain.BookStatusAvailable, got.Status)
	})

	t.Run("rejects available without stock", func(t *testing.T) {
		store := memory.NewStore()
		book := seedBook(t, store, "10.00", 0, domain.BookStatusUpcoming)
		svc := NewInventoryService(store, testLogger())

		_, err := svc.SetStatus(ctx, book.ID, domain.BookStatusAvailable)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		store := memory.NewStore()
		book := seedBook(t, store, "10.00", 1, domain.BookStatusAvailable)
		svc := NewInventoryService(store, testLogger())

		_, err := svc.SetStatus(ctx, book.ID, domain.BookStatus("discontinued"))
		assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	})

	t.Run("book not found", func(t *testing.T) {
		svc := NewInventoryService(memory.NewStore(), testLogger())
		_, err := svc.SetStatus(ctx, uuid.New(), domain.BookStatusUpcoming)
		assert.ErrorIs(t, err, domain.ErrBookNotFound)
	})
}
