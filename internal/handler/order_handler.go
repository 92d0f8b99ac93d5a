package handler

import (
	"net/http"

	"velan-store/internal/middleware"
	"velan-store/internal/model"
	"velan-store/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler handles checkout and order management requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	var req model.OrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	order, err := h.service.Create(r.Context(), user.ID, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, envelope(map[string]interface{}{"order": order}))
}

// CreateProviderOrder handles POST /api/orders/create-razorpay-order.
func (h *OrderHandler) CreateProviderOrder(w http.ResponseWriter, r *http.Request) {
	var req model.ProviderOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	providerOrder, err := h.service.CreateProviderOrder(r.Context(), req.Amount)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{"order": providerOrder}))
}

// VerifyPayment handles POST /api/orders/verify-payment.
func (h *OrderHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	var req model.VerifyPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	order, err := h.service.VerifyAndCreate(r.Context(), user.ID, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, envelope(map[string]interface{}{"order": order}))
}

// MyOrders handles GET /api/orders/myorders.
func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	orders, err := h.service.ListByUser(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{"orders": orders}))
}

// GetAll handles GET /api/orders (admin).
func (h *OrderHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{
		"orders":      list.Orders,
		"total":       list.Total,
		"totalAmount": list.TotalAmount,
	}))
}

// GetByID handles GET /api/orders/{id} (owner or admin).
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeBadRequest(w, "Invalid order ID")
		return
	}

	order, err := h.service.Get(r.Context(), middleware.UserFrom(r.Context()), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{"order": order}))
}

// UpdateStatus handles PUT /api/orders/{id} (admin).
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeBadRequest(w, "Invalid order ID")
		return
	}

	var req model.OrderStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{"order": order}))
}

// Dashboard handles GET /api/orders/stats/dashboard (admin).
func (h *OrderHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Dashboard(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, envelope(map[string]interface{}{"stats": stats}))
}
