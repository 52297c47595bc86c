package http

import (
	"encoding/json"
	"net/http"

	"github.com/Pasobeso/medbook-orderservice/internal/repository"
	"github.com/Pasobeso/medbook-orderservice/internal/service"
)

type CartsHandler struct {
	carts *service.CartService
}

func NewCartsHandler(carts *service.CartService) *CartsHandler {
	return &CartsHandler{carts: carts}
}

type createCartRequest struct {
	CartItems []repository.CartItemInput `json:"cart_items"`
}

type cartWithItems struct {
	Cart  any `json:"cart"`
	Items any `json:"cart_items"`
}

// GET /patients/carts
func (h *CartsHandler) ListCarts(w http.ResponseWriter, r *http.Request) {
	carts, err := h.carts.ListCarts(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, carts)
}

// GET /patients/carts/my-carts
func (h *CartsHandler) ListMyCarts(w http.ResponseWriter, r *http.Request) {
	patientID := patientIDFromContext(r.Context())

	views, err := h.carts.ListMyCarts(r.Context(), patientID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, views)
}

// GET /patients/carts/{id}
func (h *CartsHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	patientID := patientIDFromContext(r.Context())
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	view, err := h.carts.GetCart(r.Context(), id, patientID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// POST /patients/carts
func (h *CartsHandler) CreateCart(w http.ResponseWriter, r *http.Request) {
	patientID := patientIDFromContext(r.Context())

	var req createCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "could not parse request body")
		return
	}

	cart, items, err := h.carts.CreateCart(r.Context(), patientID, req.CartItems)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, cartWithItems{Cart: cart, Items: items})
}

// PATCH /patients/carts/{id}
func (h *CartsHandler) UpdateCart(w http.ResponseWriter, r *http.Request) {
	patientID := patientIDFromContext(r.Context())
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req createCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "could not parse request body")
		return
	}

	result, err := h.carts.UpdateCart(r.Context(), id, patientID, req.CartItems)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// DELETE /patients/carts/{id}
func (h *CartsHandler) DeleteCart(w http.ResponseWriter, r *http.Request) {
	patientID := patientIDFromContext(r.Context())
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	cart, err := h.carts.DeleteCart(r.Context(), id, patientID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cart)
}
