package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Pasobeso/medbook-orderservice/internal/api"
	"github.com/Pasobeso/medbook-orderservice/internal/repository"
	"github.com/Pasobeso/medbook-orderservice/internal/service"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: code, Message: message})
}

// handleServiceError maps the error taxonomy onto HTTP statuses. A failed
// conditional update is a client-visible not-found, never a server fault;
// an unreachable sibling service is a 502 so operators can tell
// infrastructure failure apart from business-rule rejection.
func handleServiceError(w http.ResponseWriter, err error) {
	var unreachable *api.ServiceUnreachableError

	switch {
	case errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrCartNotFound),
		errors.Is(err, repository.ErrPaymentNotFound),
		errors.Is(err, api.ErrAddressNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, api.ErrAddressForbidden):
		respondError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, service.ErrInvalidProvider):
		respondError(w, http.StatusBadRequest, "invalid_provider", err.Error())
	case errors.As(err, &unreachable):
		respondError(w, http.StatusBadGateway, "service_unreachable", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
