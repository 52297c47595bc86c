package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Pasobeso/medbook-orderservice/internal/service"
	"github.com/go-chi/chi/v5"
)

type OrdersHandler struct {
	orders *service.OrderService
}

func NewOrdersHandler(orders *service.OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

// GET /patients/orders
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// GET /patients/orders/my-orders
func (h *OrdersHandler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	patientID := patientIDFromContext(r.Context())

	views, err := h.orders.ListMyOrders(r.Context(), patientID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, views)
}

// GET /patients/orders/{id}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	patientID := patientIDFromContext(r.Context())
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	view, err := h.orders.GetOrderForPatient(r.Context(), id, patientID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// GET /orders/{id} — internal/ops view, no patient scoping.
func (h *OrdersHandler) GetOrderInternal(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	view, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// POST /patients/orders
func (h *OrdersHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	patientID := patientIDFromContext(r.Context())

	var req service.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "could not parse request body")
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), patientID, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

// DELETE /patients/orders/{id}
func (h *OrdersHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	patientID := patientIDFromContext(r.Context())
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	order, err := h.orders.CancelOrder(r.Context(), id, patientID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// POST /patients/orders/{id}/payment
func (h *OrdersHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	patientID := patientIDFromContext(r.Context())
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req service.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "could not parse request body")
		return
	}

	result, err := h.orders.CreatePayment(r.Context(), id, patientID, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "id must be an integer")
		return 0, false
	}
	return id, true
}
