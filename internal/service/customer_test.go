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

func TestCustomerService_Create(t *testing.T) {
	ctx := context.Background()
	svc := NewCustomerService(memory.NewStore(), testLogger())

	input := CreateCustomerInput{
		Username:     "reader1",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Name:         "Reader One",
		Email:        "reader1@example.com",
	}

	customer, err := svc.Create(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, customer.Role, "role defaults to customer")

	_, err = svc.Create(ctx, input)
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)

	input.Username = "reader2"
	_, err = svc.Create(ctx, input)
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	input.Email = "reader2@example.com"
	input.Role = "superuser"
	_, err = svc.Create(ctx, input)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestCustomerService_Update(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	first := seedCustomer(t, store)
	second := seedCustomer(t, store)
	svc := NewCustomerService(store, testLogger())

	newName := "Renamed"
	got, err := svc.Update(ctx, first.ID, UpdateCustomerInput{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, newName, got.Name)

	_, err = svc.Update(ctx, first.ID, UpdateCustomerInput{Email: &second.Email})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	_, err = svc.Update(ctx, uuid.New(), UpdateCustomerInput{Name: &newName})
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestCustomerService_Delete(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	customer := seedCustomer(t, store)
	svc := NewCustomerService(store, testLogger())

	require.NoError(t, svc.Delete(ctx, customer.ID))
	err := svc.Delete(ctx, customer.ID)
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}
