package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/PhucCodee/LuffysBookstore/internal/domain"
	"github.com/PhucCodee/LuffysBookstore/internal/handler"
	"github.com/PhucCodee/LuffysBookstore/internal/service"
)

// OrderHandler serves order lifecycle and order item endpoints.
type OrderHandler struct {
	orders     service.OrderService
	orderItems service.OrderItemService
	logger     *slog.Logger
}

func NewOrderHandler(orders service.OrderService, orderItems service.OrderItemService, logger *slog.Logger) *OrderHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderHandler{orders: orders, orderItems: orderItems, logger: logger}
}

type createOrderRequest struct {
	CustomerID    uuid.UUID `json:"customer_id" validate:"required"`
	Destination   string    `json:"destination" validate:"required"`
	PaymentMethod string    `json:"payment_method" validate:"required,oneof=electronic_banking cash_on_delivery credit_card"`
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := handler.DecodeAndValidate(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	order, err := h.orders.Create(r.Context(), service.CreateOrderInput{
		CustomerID:    req.CustomerID,
		Destination:   req.Destination,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusCreated, toOrderResponse(order))
}

// List handles GET /api/orders with an optional status filter.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		orders []domain.Order
		err    error
	)
	if status := r.URL.Query().Get("status"); status != "" {
		orders, err = h.orders.ListByStatus(r.Context(), domain.OrderStatus(status))
	} else {
		orders, err = h.orders.List(r.Context())
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, toOrderResponses(orders))
}

// Get handles GET /api/orders/{orderId} and returns the order with items.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "orderId")
	if err != nil {
		fail(w, r, err)
		return
	}

	summary, err := h.orders.Summary(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, toOrderSummaryResponse(summary))
}

// ListByCustomer handles GET /api/customers/{customerId}/orders.
func (h *OrderHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathUUID(r, "customerId")
	if err != nil {
		fail(w, r, err)
		return
	}

	orders, err := h.orders.ListByCustomer(r.Context(), customerID)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, toOrderResponses(orders))
}

type transitionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_transit delivered canceled"`
}

// TransitionStatus handles PATCH /api/orders/{orderId}/status.
func (h *OrderHandler) TransitionStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "orderId")
	if err != nil {
		fail(w, r, err)
		return
	}

	var req transitionStatusRequest
	if err := handler.DecodeAndValidate(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	order, err := h.orders.TransitionStatus(r.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, toOrderResponse(order))
}

// Cancel handles POST /api/orders/{orderId}/cancel.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "orderId")
	if err != nil {
		fail(w, r, err)
		return
	}

	order, err := h.orders.Cancel(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, toOrderResponse(order))
}

// Delete handles DELETE /api/orders/{orderId}.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "orderId")
	if err != nil {
		fail(w, r, err)
		return
	}

	if err := h.orders.DeleteOrder(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListItems handles GET /api/orders/{orderId}/items.
func (h *OrderHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "orderId")
	if err != nil {
		fail(w, r, err)
		return
	}

	items, err := h.orderItems.ListByOrder(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, toOrderItemResponses(items))
}

type addOrderItemRequest struct {
	BookID   uuid.UUID `json:"book_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,gt=0"`
}

// AddItem handles POST /api/orders/{orderId}/items.
func (h *OrderHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "orderId")
	if err != nil {
		fail(w, r, err)
		return
	}

	var req addOrderItemRequest
	if err := handler.DecodeAndValidate(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	item, err := h.orderItems.AddItem(r.Context(), id, req.BookID, req.Quantity)
	if err != nil {
		fail(w, r, err)
		return
	}
	respond(w, http.StatusCreated, toOrderItemResponse(item))
}

// RemoveItem handles DELETE /api/orders/{orderId}/items/{itemId}.
func (h *OrderHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathUUID(r, "orderId")
	if err != nil {
		fail(w, r, err)
		return
	}
	itemID, err := pathUUID(r, "itemId")
	if err != nil {
		fail(w, r, err)
		return
	}

	if err := h.orderItems.RemoveItem(r.Context(), orderID, itemID); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
