package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Pasobeso/medbook-orderservice/internal/domain"
	"github.com/Pasobeso/medbook-orderservice/internal/outbox"
	"github.com/google/uuid"
)

// CreatePayment moves the order RESERVED -> PAYMENT_PENDING and inserts the
// PENDING payment row in one transaction. The status guard on the order is
// what keeps a second concurrent payment attempt out: once the first commit
// lands, the order is no longer RESERVED and the loser gets ErrOrderNotFound.
func (r *Repository) CreatePayment(ctx context.Context, orderID, patientID int64, amount float64, provider string) (*domain.Order, *domain.Payment, error) {
	var order *domain.Order
	var payment *domain.Payment

	err := r.WithinTx(ctx, func(tx *sql.Tx) error {
		orderQuery := fmt.Sprintf(`UPDATE orders SET status = $1, updated_at = NOW()
		          WHERE id = $2 AND patient_id = $3 AND status = $4 AND deleted_at IS NULL
		          RETURNING %s`, orderColumns)

		updated, err := scanOrder(tx.QueryRowContext(ctx, orderQuery,
			domain.OrderStatusPaymentPending, orderID, patientID, domain.OrderStatusReserved))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("advance order to payment pending: %w", err)
		}

		paymentQuery := fmt.Sprintf(`INSERT INTO payments (id, order_id, amount, status, provider, created_at, updated_at)
		          VALUES ($1, $2, $3, $4, $5, NOW(), NOW()) RETURNING %s`, paymentColumns)

		created, err := scanPayment(tx.QueryRowContext(ctx, paymentQuery,
			uuid.New(), updated.ID, amount, domain.PaymentStatusPending, provider))
		if err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}

		order = updated
		payment = created
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return order, payment, nil
}

// MarkPaymentPaid performs the double update PENDING -> PAID on the payment
// and PAYMENT_PENDING -> DELIVERY_PENDING on the order, plus the delivery
// request event, as one atomic unit. Partial application of either half
// would be a correctness violation, so any failure rolls all of it back.
func (r *Repository) MarkPaymentPaid(ctx context.Context, paymentID uuid.UUID) (*domain.Payment, *domain.Order, error) {
	var payment *domain.Payment
	var order *domain.Order

	err := r.WithinTx(ctx, func(tx *sql.Tx) error {
		paymentQuery := fmt.Sprintf(`UPDATE payments SET status = $1, updated_at = NOW()
		          WHERE id = $2 AND status = $3 RETURNING %s`, paymentColumns)

		paid, err := scanPayment(tx.QueryRowContext(ctx, paymentQuery,
			domain.PaymentStatusPaid, paymentID, domain.PaymentStatusPending))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPaymentNotFound
		}
		if err != nil {
			return fmt.Errorf("mark payment paid: %w", err)
		}

		orderQuery := fmt.Sprintf(`UPDATE orders SET status = $1, updated_at = NOW()
		          WHERE id = $2 AND status = $3 RETURNING %s`, orderColumns)

		updated, err := scanOrder(tx.QueryRowContext(ctx, orderQuery,
			domain.OrderStatusDeliveryPending, paid.OrderID, domain.OrderStatusPaymentPending))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("advance order to delivery pending: %w", err)
		}

		_, err = outbox.Record(ctx, tx, domain.EventDeliveryOrderRequest, domain.DeliveryOrderRequestEvent{
			OrderID:         updated.ID,
			OrderType:       updated.OrderType,
			DeliveryAddress: updated.DeliveryAddress,
		})
		if err != nil {
			return err
		}

		payment = paid
		order = updated
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return payment, order, nil
}
