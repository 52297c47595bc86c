package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires all order-service routes. Patient routes sit behind the
// authorization middleware; the internal order view and the payment
// callback do not.
func NewRouter(orders *OrdersHandler, carts *CartsHandler, payments *PaymentsHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/patients", func(r chi.Router) {
		r.Use(PatientAuthMiddleware)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orders.ListOrders)
			r.Post("/", orders.CreateOrder)
			r.Get("/my-orders", orders.ListMyOrders)
			r.Get("/{id}", orders.GetOrder)
			r.Delete("/{id}", orders.CancelOrder)
			r.Post("/{id}/payment", orders.CreatePayment)
		})

		r.Route("/carts", func(r chi.Router) {
			r.Get("/", carts.ListCarts)
			r.Post("/", carts.CreateCart)
			r.Get("/my-carts", carts.ListMyCarts)
			r.Get("/{id}", carts.GetCart)
			r.Patch("/{id}", carts.UpdateCart)
			r.Delete("/{id}", carts.DeleteCart)
		})
	})

	r.Get("/orders/{id}", orders.GetOrderInternal)
	r.Patch("/payments/{id}/mock-pay", payments.MockPay)

	return r
}
