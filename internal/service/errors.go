package service

import "github.com/PhucCodee/LuffysBookstore/internal/domain"

// Cross-service sentinels. Entity not-found errors live next to their
// entities in the domain package.
var (
	ErrInsufficientStock = &domain.Error{Code: domain.ECONFLICT, Message: "Not enough stock to fulfill the request"}
	ErrOwnershipMismatch = &domain.Error{Code: domain.EFORBIDDEN, Message: "Item does not belong to the given container"}
	ErrEmptyCart         = &domain.Error{Code: domain.EINVALID, Message: "Cart has no items to check out"}
	ErrInvalidTransition = &domain.Error{Code: domain.ECONFLICT, Message: "Requested status change is not allowed"}
)
