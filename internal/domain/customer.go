package domain

import (
	"time"

	"github.com/google/uuid"
)

// Customer domain errors.
var (
	ErrCustomerNotFound  = &Error{Code: ENOTFOUND, Message: "Customer not found"}
	ErrDuplicateUsername = &Error{Code: ECONFLICT, Message: "Username is already taken"}
	ErrDuplicateEmail    = &Error{Code: ECONFLICT, Message: "Email is already registered"}
)

// UserRole distinguishes administrators from regular customers.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleCustomer UserRole = "customer"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleCustomer
}

// Customer is an account that owns carts and orders. PasswordHash is opaque
// to this system: credential verification and hashing live in an external
// authentication service.
type Customer struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	Name         string
	Email        string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
