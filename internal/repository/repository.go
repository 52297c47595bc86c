package repository

import (
	"context"
	"errors"

	"github.com/Pasobeso/medbook-orderservice/internal/domain"
	"github.com/Pasobeso/medbook-orderservice/internal/outbox"
	"github.com/google/uuid"
)

var (
	// ErrOrderNotFound covers both a missing row and a conditional update
	// that matched zero rows (wrong status, wrong owner, soft-deleted).
	// Callers cannot tell the two apart and should not try to.
	ErrOrderNotFound   = errors.New("order not found")
	ErrCartNotFound    = errors.New("cart not found")
	ErrPaymentNotFound = errors.New("payment not found")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// CartItemInput is a line item supplied by the patient when creating or
// updating a cart.
type CartItemInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Store is everything the services and consumer handlers need from
// persistence. All multi-row operations are transactional; all status
// changes are conditional updates gated on the expected prior status.
type Store interface {
	// Carts
	CreateCart(ctx context.Context, patientID int64, items []CartItemInput) (*domain.Cart, []domain.CartItem, error)
	GetCart(ctx context.Context, id, patientID int64) (*domain.Cart, error)
	ListCarts(ctx context.Context) ([]domain.Cart, error)
	ListCartsByPatient(ctx context.Context, patientID int64) ([]domain.Cart, error)
	UpdateCart(ctx context.Context, id, patientID int64, items []CartItemInput) (*domain.Cart, []domain.CartItem, []domain.CartItem, error)
	DeleteCart(ctx context.Context, id, patientID int64) (*domain.Cart, error)
	CartItems(ctx context.Context, cartID int64) ([]domain.CartItem, error)
	CartItemsByCartIDs(ctx context.Context, cartIDs []int64) ([]domain.CartItem, error)

	// Orders
	CreateOrder(ctx context.Context, patientID, cartID int64, orderType string, deliveryAddress []byte) (*domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	GetOrderForPatient(ctx context.Context, id, patientID int64) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	ListOrdersByPatient(ctx context.Context, patientID int64) ([]domain.Order, error)
	CancelOrder(ctx context.Context, id, patientID int64) (*domain.Order, error)
	AdvanceOrderStatus(ctx context.Context, id int64, from []domain.OrderStatus, to domain.OrderStatus) (*domain.Order, error)
	AttachDelivery(ctx context.Context, id int64, deliveryID uuid.UUID) (*domain.Order, error)

	// Payments
	CreatePayment(ctx context.Context, orderID, patientID int64, amount float64, provider string) (*domain.Order, *domain.Payment, error)
	MarkPaymentPaid(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, *domain.Order, error)

	// Outbox (relay side)
	UnpublishedEvents(ctx context.Context, limit int) ([]outbox.Entry, error)
	MarkEventPublished(ctx context.Context, id int64) error

	RunMigrations(*Credentials) error
	Close() error
}
