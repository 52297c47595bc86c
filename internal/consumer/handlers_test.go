package consumer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pasobeso/medbook-orderservice/internal/domain"
	"github.com/Pasobeso/medbook-orderservice/internal/repository"
)

// mockOrderStore records the last conditional update and returns canned
// results.
type mockOrderStore struct {
	advanceErr error
	attachErr  error

	gotID         int64
	gotFrom       []domain.OrderStatus
	gotTo         domain.OrderStatus
	gotDeliveryID uuid.UUID
}

func (m *mockOrderStore) AdvanceOrderStatus(_ context.Context, id int64, from []domain.OrderStatus, to domain.OrderStatus) (*domain.Order, error) {
	m.gotID = id
	m.gotFrom = from
	m.gotTo = to
	if m.advanceErr != nil {
		return nil, m.advanceErr
	}
	return &domain.Order{ID: id, Status: to}, nil
}

func (m *mockOrderStore) AttachDelivery(_ context.Context, id int64, deliveryID uuid.UUID) (*domain.Order, error) {
	m.gotID = id
	m.gotDeliveryID = deliveryID
	if m.attachErr != nil {
		return nil, m.attachErr
	}
	order := &domain.Order{ID: id, Status: domain.OrderStatusDeliveryPending}
	order.DeliveryID = &deliveryID
	return order, nil
}

func newTestHandlers(store OrderStore) *Handlers {
	return NewHandlers(store, zerolog.New(os.Stderr).Level(zerolog.Disabled))
}

func TestOrderReserved_AdvancesPendingOrder(t *testing.T) {
	store := &mockOrderStore{}
	h := newTestHandlers(store)

	err := h.OrderReserved(context.Background(), []byte(`{"order_id":101}`))

	require.NoError(t, err)
	assert.Equal(t, int64(101), store.gotID)
	assert.Equal(t, []domain.OrderStatus{domain.OrderStatusPending}, store.gotFrom)
	assert.Equal(t, domain.OrderStatusReserved, store.gotTo)
}

func TestOrderReserved_GuardMissIsDropped(t *testing.T) {
	// Zero rows matched: the order already moved past PENDING, e.g. on a
	// redelivered event. The message must be acknowledged, not retried.
	store := &mockOrderStore{advanceErr: repository.ErrOrderNotFound}
	h := newTestHandlers(store)

	err := h.OrderReserved(context.Background(), []byte(`{"order_id":101}`))

	assert.ErrorIs(t, err, ErrDrop)
}

func TestOrderReserved_InfrastructureErrorIsRetryable(t *testing.T) {
	dbErr := errors.New("connection reset")
	store := &mockOrderStore{advanceErr: dbErr}
	h := newTestHandlers(store)

	err := h.OrderReserved(context.Background(), []byte(`{"order_id":101}`))

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDrop)
	assert.ErrorIs(t, err, dbErr)
}

func TestOrderRejected_AcceptsPendingAndReserved(t *testing.T) {
	store := &mockOrderStore{}
	h := newTestHandlers(store)

	err := h.OrderRejected(context.Background(), []byte(`{"order_id":102}`))

	require.NoError(t, err)
	assert.Equal(t, []domain.OrderStatus{domain.OrderStatusPending, domain.OrderStatusReserved}, store.gotFrom)
	assert.Equal(t, domain.OrderStatusRejected, store.gotTo)
}

func TestOrderCancelled_AdvancesCancelPendingOrder(t *testing.T) {
	store := &mockOrderStore{}
	h := newTestHandlers(store)

	err := h.OrderCancelled(context.Background(), []byte(`{"order_id":103}`))

	require.NoError(t, err)
	assert.Equal(t, []domain.OrderStatus{domain.OrderStatusCancelPending}, store.gotFrom)
	assert.Equal(t, domain.OrderStatusCancelled, store.gotTo)
}

func TestDeliveryCreated_AttachesDeliveryID(t *testing.T) {
	deliveryID := uuid.New()
	store := &mockOrderStore{}
	h := newTestHandlers(store)

	payload := fmt.Sprintf(`{"order_id":104,"delivery_id":%q}`, deliveryID)
	err := h.DeliveryCreated(context.Background(), []byte(payload))

	require.NoError(t, err)
	assert.Equal(t, int64(104), store.gotID)
	assert.Equal(t, deliveryID, store.gotDeliveryID)
}

func TestDeliveryCreated_DuplicateIsDropped(t *testing.T) {
	// The delivery id is already set, so the conditional update matched
	// zero rows.
	store := &mockOrderStore{attachErr: repository.ErrOrderNotFound}
	h := newTestHandlers(store)

	payload := fmt.Sprintf(`{"order_id":104,"delivery_id":%q}`, uuid.New())
	err := h.DeliveryCreated(context.Background(), []byte(payload))

	assert.ErrorIs(t, err, ErrDrop)
}

func TestDeliverySuccess_AdvancesDeliveryPendingOrder(t *testing.T) {
	store := &mockOrderStore{}
	h := newTestHandlers(store)

	err := h.DeliverySuccess(context.Background(), []byte(`{"order_id":105}`))

	require.NoError(t, err)
	assert.Equal(t, []domain.OrderStatus{domain.OrderStatusDeliveryPending}, store.gotFrom)
	assert.Equal(t, domain.OrderStatusDelivered, store.gotTo)
}

func TestHandlers_MalformedPayloadIsDropped(t *testing.T) {
	// No store expectations: a payload that does not decode must be
	// dropped without touching the database.
	store := &mockOrderStore{advanceErr: errors.New("must not be called"), attachErr: errors.New("must not be called")}
	h := newTestHandlers(store)

	malformed := []byte(`{"order_id":"not-a-number"`)
	handlers := map[string]Handler{
		"order_reserved":   h.OrderReserved,
		"order_rejected":   h.OrderRejected,
		"order_cancelled":  h.OrderCancelled,
		"delivery_created": h.DeliveryCreated,
		"delivery_success": h.DeliverySuccess,
	}

	for name, handler := range handlers {
		err := handler(context.Background(), malformed)
		assert.ErrorIs(t, err, ErrDrop, "%s should drop malformed payloads", name)
		assert.Zero(t, store.gotID, "%s must not touch the store", name)
	}
}

func TestRegisterAll_BindsEveryConsumedRoutingKey(t *testing.T) {
	p := NewPipeline(zerolog.New(os.Stderr).Level(zerolog.Disabled), "test-group", "localhost:9092")
	newTestHandlers(&mockOrderStore{}).RegisterAll(p)

	expected := []string{
		domain.EventOrderReserved,
		domain.EventOrderRejected,
		domain.EventOrderCancelled,
		domain.EventDeliveryCreated,
		domain.EventDeliverySuccess,
	}
	for _, key := range expected {
		assert.Contains(t, p.handlers, key)
	}
	assert.Len(t, p.handlers, len(expected))
}
