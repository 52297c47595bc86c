package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/Pasobeso/medbook-orderservice/internal/domain"
	"github.com/Pasobeso/medbook-orderservice/internal/outbox"
	"github.com/Pasobeso/medbook-orderservice/internal/repository"
)

var errNotExpected = errors.New("unexpected store call")

// mockStore implements repository.Store for testing. Only the fields a test
// sets are expected to be called; everything else fails loudly.
type mockStore struct {
	createCartFn         func(ctx context.Context, patientID int64, items []repository.CartItemInput) (*domain.Cart, []domain.CartItem, error)
	getCartFn            func(ctx context.Context, id, patientID int64) (*domain.Cart, error)
	listCartsByPatientFn func(ctx context.Context, patientID int64) ([]domain.Cart, error)
	updateCartFn         func(ctx context.Context, id, patientID int64, items []repository.CartItemInput) (*domain.Cart, []domain.CartItem, []domain.CartItem, error)
	deleteCartFn         func(ctx context.Context, id, patientID int64) (*domain.Cart, error)
	cartItemsFn          func(ctx context.Context, cartID int64) ([]domain.CartItem, error)
	cartItemsByCartsFn   func(ctx context.Context, cartIDs []int64) ([]domain.CartItem, error)

	createOrderFn         func(ctx context.Context, patientID, cartID int64, orderType string, deliveryAddress []byte) (*domain.Order, error)
	getOrderFn            func(ctx context.Context, id int64) (*domain.Order, error)
	getOrderForPatientFn  func(ctx context.Context, id, patientID int64) (*domain.Order, error)
	listOrdersByPatientFn func(ctx context.Context, patientID int64) ([]domain.Order, error)
	cancelOrderFn         func(ctx context.Context, id, patientID int64) (*domain.Order, error)

	createPaymentFn   func(ctx context.Context, orderID, patientID int64, amount float64, provider string) (*domain.Order, *domain.Payment, error)
	markPaymentPaidFn func(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, *domain.Order, error)
}

func (m *mockStore) CreateCart(ctx context.Context, patientID int64, items []repository.CartItemInput) (*domain.Cart, []domain.CartItem, error) {
	if m.createCartFn == nil {
		return nil, nil, errNotExpected
	}
	return m.createCartFn(ctx, patientID, items)
}

func (m *mockStore) GetCart(ctx context.Context, id, patientID int64) (*domain.Cart, error) {
	if m.getCartFn == nil {
		return nil, errNotExpected
	}
	return m.getCartFn(ctx, id, patientID)
}

func (m *mockStore) ListCarts(context.Context) ([]domain.Cart, error) {
	return nil, errNotExpected
}

func (m *mockStore) ListCartsByPatient(ctx context.Context, patientID int64) ([]domain.Cart, error) {
	if m.listCartsByPatientFn == nil {
		return nil, errNotExpected
	}
	return m.listCartsByPatientFn(ctx, patientID)
}

func (m *mockStore) UpdateCart(ctx context.Context, id, patientID int64, items []repository.CartItemInput) (*domain.Cart, []domain.CartItem, []domain.CartItem, error) {
	if m.updateCartFn == nil {
		return nil, nil, nil, errNotExpected
	}
	return m.updateCartFn(ctx, id, patientID, items)
}

func (m *mockStore) DeleteCart(ctx context.Context, id, patientID int64) (*domain.Cart, error) {
	if m.deleteCartFn == nil {
		return nil, errNotExpected
	}
	return m.deleteCartFn(ctx, id, patientID)
}

func (m *mockStore) CartItems(ctx context.Context, cartID int64) ([]domain.CartItem, error) {
	if m.cartItemsFn == nil {
		return nil, errNotExpected
	}
	return m.cartItemsFn(ctx, cartID)
}

func (m *mockStore) CartItemsByCartIDs(ctx context.Context, cartIDs []int64) ([]domain.CartItem, error) {
	if m.cartItemsByCartsFn == nil {
		return nil, errNotExpected
	}
	return m.cartItemsByCartsFn(ctx, cartIDs)
}

func (m *mockStore) CreateOrder(ctx context.Context, patientID, cartID int64, orderType string, deliveryAddress []byte) (*domain.Order, error) {
	if m.createOrderFn == nil {
		return nil, errNotExpected
	}
	return m.createOrderFn(ctx, patientID, cartID, orderType, deliveryAddress)
}

func (m *mockStore) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	if m.getOrderFn == nil {
		return nil, errNotExpected
	}
	return m.getOrderFn(ctx, id)
}

func (m *mockStore) GetOrderForPatient(ctx context.Context, id, patientID int64) (*domain.Order, error) {
	if m.getOrderForPatientFn == nil {
		return nil, errNotExpected
	}
	return m.getOrderForPatientFn(ctx, id, patientID)
}

func (m *mockStore) ListOrders(context.Context) ([]domain.Order, error) {
	return nil, errNotExpected
}

func (m *mockStore) ListOrdersByPatient(ctx context.Context, patientID int64) ([]domain.Order, error) {
	if m.listOrdersByPatientFn == nil {
		return nil, errNotExpected
	}
	return m.listOrdersByPatientFn(ctx, patientID)
}

func (m *mockStore) CancelOrder(ctx context.Context, id, patientID int64) (*domain.Order, error) {
	if m.cancelOrderFn == nil {
		return nil, errNotExpected
	}
	return m.cancelOrderFn(ctx, id, patientID)
}

func (m *mockStore) AdvanceOrderStatus(context.Context, int64, []domain.OrderStatus, domain.OrderStatus) (*domain.Order, error) {
	return nil, errNotExpected
}

func (m *mockStore) AttachDelivery(context.Context, int64, uuid.UUID) (*domain.Order, error) {
	return nil, errNotExpected
}

func (m *mockStore) CreatePayment(ctx context.Context, orderID, patientID int64, amount float64, provider string) (*domain.Order, *domain.Payment, error) {
	if m.createPaymentFn == nil {
		return nil, nil, errNotExpected
	}
	return m.createPaymentFn(ctx, orderID, patientID, amount, provider)
}

func (m *mockStore) MarkPaymentPaid(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, *domain.Order, error) {
	if m.markPaymentPaidFn == nil {
		return nil, nil, errNotExpected
	}
	return m.markPaymentPaidFn(ctx, paymentID)
}

func (m *mockStore) UnpublishedEvents(context.Context, int) ([]outbox.Entry, error) {
	return nil, errNotExpected
}

func (m *mockStore) MarkEventPublished(context.Context, int64) error {
	return errNotExpected
}

func (m *mockStore) RunMigrations(*repository.Credentials) error { return nil }

func (m *mockStore) Close() error { return nil }

// mockPricing implements PricingLookup with a fixed price table.
type mockPricing struct {
	prices map[int64]float64
	err    error

	requestedIDs []int64
}

func (m *mockPricing) GetUnitPrices(_ context.Context, ids []int64) (map[int64]float64, error) {
	m.requestedIDs = ids
	if m.err != nil {
		return nil, m.err
	}
	resolved := make(map[int64]float64)
	for _, id := range ids {
		if price, ok := m.prices[id]; ok {
			resolved[id] = price
		}
	}
	return resolved, nil
}

// mockAddresses implements AddressLookup.
type mockAddresses struct {
	address json.RawMessage
	err     error
}

func (m *mockAddresses) GetAddressOwned(context.Context, int64, int64) (json.RawMessage, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.address, nil
}
