package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/PhucCodee/LuffysBookstore/internal/domain"
	"github.com/PhucCodee/LuffysBookstore/internal/repository"
)

// CreateCustomerInput carries the fields for registering an account.
// PasswordHash arrives pre-hashed from the authentication layer.
type CreateCustomerInput struct {
	Username     string
	PasswordHash string
	Name         string
	Email        string
	Role         domain.UserRole
}

// UpdateCustomerInput carries profile edits. Nil fields are left unchanged.
type UpdateCustomerInput struct {
	Name  *string
	Email *string
}

// CustomerService manages customer accounts.
type CustomerService interface {
	Create(ctx context.Context, input CreateCustomerInput) (domain.Customer, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Customer, error)
	GetByUsername(ctx context.Context, username string) (domain.Customer, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (domain.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]domain.Customer, error)
}

type customerService struct {
	store  repository.Store
	logger *slog.Logger
}

func NewCustomerService(store repository.Store, logger *slog.Logger) CustomerService {
	return &customerService{store: store, logger: logger}
}

func (s *customerService) Create(ctx context.Context, input CreateCustomerInput) (domain.Customer, error) {
	const op = "customer.Create"
	if input.Username == "" {
		return domain.Customer{}, domain.Invalid(op, "Username is required")
	}
	if input.Email == "" {
		return domain.Customer{}, domain.Invalid(op, "Email is required")
	}

	role := input.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	if !role.Valid() {
		return domain.Customer{}, domain.Invalid(op, "Unknown role")
	}

	if _, err := s.store.Customers().GetByUsername(ctx, input.Username); err == nil {
		return domain.Customer{}, domain.ErrDuplicateUsername
	} else if !errors.Is(err, repository.ErrNoRows) {
		return domain.Customer{}, fmt.Errorf("failed to check username: %w", err)
	}

	if _, err := s.store.Customers().GetByEmail(ctx, input.Email); err == nil {
		return domain.Customer{}, domain.ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrNoRows) {
		return domain.Customer{}, fmt.Errorf("failed to check email: %w", err)
	}

	now := time.Now().UTC()
	customer := domain.Customer{
		ID:           uuid.New(),
		Username:     input.Username,
		PasswordHash: input.PasswordHash,
		Name:         input.Name,
		Email:        input.Email,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Customers().Save(ctx, customer); err != nil {
		return domain.Customer{}, fmt.Errorf("failed to save customer: %w", err)
	}

	s.logger.InfoContext(ctx, "customer created",
		slog.String("customer_id", customer.ID.String()),
		slog.String("username", customer.Username),
	)
	return customer, nil
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID) (domain.Customer, error) {
	customer, err := s.store.Customers().Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return domain.Customer{}, domain.ErrCustomerNotFound
		}
		return domain.Customer{}, fmt.Errorf("failed to load customer: %w", err)
	}
	return customer, nil
}

func (s *customerService) GetByUsername(ctx context.Context, username string) (domain.Customer, error) {
	customer, err := s.store.Customers().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return domain.Customer{}, domain.ErrCustomerNotFound
		}
		return domain.Customer{}, fmt.Errorf("failed to load customer: %w", err)
	}
	return customer, nil
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (domain.Customer, error) {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}

	if input.Email != nil && *input.Email != customer.Email {
		if _, err := s.store.Customers().GetByEmail(ctx, *input.Email); err == nil {
			return domain.Customer{}, domain.ErrDuplicateEmail
		} else if !errors.Is(err, repository.ErrNoRows) {
			return domain.Customer{}, fmt.Errorf("failed to check email: %w", err)
		}
		customer.Email = *input.Email
	}
	if input.Name != nil {
		customer.Name = *input.Name
	}

	customer.UpdatedAt = time.Now().UTC()
	if err := s.store.Customers().Save(ctx, customer); err != nil {
		return domain.Customer{}, fmt.Errorf("failed to save customer: %w", err)
	}
	return customer, nil
}

func (s *customerService) Delete(ctx context.Context, id uuid.UUID) error {
	exists, err := s.store.Customers().ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check customer: %w", err)
	}
	if !exists {
		return domain.ErrCustomerNotFound
	}
	return s.store.Customers().Delete(ctx, id)
}

func (s *customerService) List(ctx context.Context) ([]domain.Customer, error) {
	return s.store.Customers().List(ctx)
}
