package http

import (
	"net/http"

	"github.com/Pasobeso/medbook-orderservice/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type PaymentsHandler struct {
	payments *service.PaymentService
}

func NewPaymentsHandler(payments *service.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{payments: payments}
}

// PATCH /payments/{id}/mock-pay
func (h *PaymentsHandler) MockPay(w http.ResponseWriter, r *http.Request) {
	paymentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "payment id must be a UUID")
		return
	}

	result, err := h.payments.Pay(r.Context(), paymentID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
