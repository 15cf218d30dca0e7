package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/PhucCodee/LuffysBookstore/internal/domain"
)

const customerColumns = "id, username, password_hash, name, email, role, created_at, updated_at"

type customerRepo struct {
	db querier
}

func scanCustomer(row pgx.Row) (domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(
		&c.ID, &c.Username, &c.PasswordHash, &c.Name, &c.Email, &c.Role,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return domain.Customer{}, translateErr(err)
	}
	return c, nil
}

func (r customerRepo) Get(ctx context.Context, id uuid.UUID) (domain.Customer, error) {
	row := r.db.QueryRow(ctx, "SELECT "+customerColumns+" FROM customer WHERE id = $1", id)
	return scanCustomer(row)
}

func (r customerRepo) GetByUsername(ctx context.Context, username string) (domain.Customer, error) {
	row := r.db.QueryRow(ctx, "SELECT "+customerColumns+" FROM customer WHERE username = $1", username)
	return scanCustomer(row)
}

func (r customerRepo) GetByEmail(ctx context.Context, email string) (domain.Customer, error) {
	row := r.db.QueryRow(ctx, "SELECT "+customerColumns+" FROM customer WHERE LOWER(email) = LOWER($1)", email)
	return scanCustomer(row)
}

func (r customerRepo) Save(ctx context.Context, c domain.Customer) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO customer (id, username, password_hash, name, email, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			password_hash = EXCLUDED.password_hash,
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			role = EXCLUDED.role,
			updated_at = EXCLUDED.updated_at`,
		c.ID, c.Username, c.PasswordHash, c.Name, c.Email, c.Role, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save customer: %w", err)
	}
	return nil
}

func (r customerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, "DELETE FROM customer WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}

func (r customerRepo) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM customer WHERE id = $1)", id).Scan(&exists)
	return exists, err
}

func (r customerRepo) List(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.db.Query(ctx, "SELECT "+customerColumns+" FROM customer ORDER BY username")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}
