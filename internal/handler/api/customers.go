package api

import (
	"log/slog"
	"net/http"

	"github.com/PhucCodee/LuffysBookstore/internal/domain"
	"github.com/PhucCodee/LuffysBookstore/internal/handler"
	"github.com/PhucCodee/LuffysBookstore/internal/service"
)

// CustomerHandler serves account endpoints.
type CustomerHandler struct {
	customers service.CustomerService
	logger    *slog.Logger
}

func NewCustomerHandler(customers service.CustomerService, logger *slog.Logger) *CustomerHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CustomerHandler{customers: customers, logger: logger}
}

type createCustomerRequest struct {
	Username     string `json:"username" validate:"required,min=3,max=64"`
	PasswordHash string `json:"password_hash" validate:"required"`
	Name         string `json:"name"`
	Email        string `json:"email" validate:"required,email"`
	Role         string `json:"role" validate:"omitempty,oneof=admin customer"`
}

// Create handles POST /api/customers.
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := handler.DecodeAndValidate(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	customer, err := h.customers.Create(r.Context(), service.CreateCustomerInput{
		Username:     req.Username,
		PasswordHash: req.PasswordHash,
		Name:         req.Name,
		Email:        req.Email,
		Role:         domain.UserRole(req.Role),
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusCreated, toCustomerResponse(customer))
}

// Get handles GET /api/customers/{customerId}.
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "customerId")
	if err != nil {
		fail(w, r, err)
		return
	}

	customer, err := h.customers.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, toCustomerResponse(customer))
}

// GetByUsername handles GET /api/customers/username/{username}.
func (h *CustomerHandler) GetByUsername(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if username == "" {
		fail(w, r, &domain.Error{Code: domain.EINVALID, Message: "Username is required", Op: "api.GetCustomerByUsername"})
		return
	}

	customer, err := h.customers.GetByUsername(r.Context(), username)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, toCustomerResponse(customer))
}

// List handles GET /api/customers.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.List(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}

	out := make([]customerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, toCustomerResponse(c))
	}
	respond(w, http.StatusOK, out)
}

type updateCustomerRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// Update handles PATCH /api/customers/{customerId}.
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "customerId")
	if err != nil {
		fail(w, r, err)
		return
	}

	var req updateCustomerRequest
	if err := handler.DecodeAndValidate(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	customer, err := h.customers.Update(r.Context(), id, service.UpdateCustomerInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, toCustomerResponse(customer))
}

// Delete handles DELETE /api/customers/{customerId}.
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "customerId")
	if err != nil {
		fail(w, r, err)
		return
	}

	if err := h.customers.Delete(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
