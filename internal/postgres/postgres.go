// Package postgres implements repository.Store on PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PhucCodee/LuffysBookstore/internal/repository"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, letting the
// repositories run unchanged inside and outside transactions.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the PostgreSQL-backed repository.Store.
type Store struct {
	pool *pgxpool.Pool
	db   querier
}

var _ repository.Store = (*Store)(nil)

// NewStore wraps an existing connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, db: pool}
}

// Connect opens a pool against the given DSN and verifies connectivity.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

func (s *Store) Books() repository.BookRepository           { return bookRepo{db: s.db} }
func (s *Store) Customers() repository.CustomerRepository   { return customerRepo{db: s.db} }
func (s *Store) Carts() repository.CartRepository           { return cartRepo{db: s.db} }
func (s *Store) CartItems() repository.CartItemRepository   { return cartItemRepo{db: s.db} }
func (s *Store) Orders() repository.OrderRepository         { return orderRepo{db: s.db} }
func (s *Store) OrderItems() repository.OrderItemRepository { return orderItemRepo{db: s.db} }

// WithTx runs fn inside a database transaction. fn receives a Store bound to
// the transaction; its writes commit together or roll back together.
func (s *Store) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	if s.pool == nil {
		// Already transaction-bound; run against the same transaction.
		return fn(s)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(&Store{db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// translateErr maps driver sentinels onto the repository's.
func translateErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNoRows
	}
	return err
}
