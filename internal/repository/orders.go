package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Pasobeso/medbook-orderservice/internal/domain"
	"github.com/Pasobeso/medbook-orderservice/internal/outbox"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CreateOrder inserts a PENDING order together with its inventory
// reservation event. Both rows commit atomically: a crash or failure
// anywhere in between leaves neither behind.
func (r *Repository) CreateOrder(ctx context.Context, patientID, cartID int64, orderType string, deliveryAddress []byte) (*domain.Order, error) {
	var order *domain.Order
	err := r.WithinTx(ctx, func(tx *sql.Tx) error {
		query := fmt.Sprintf(`INSERT INTO orders (cart_id, patient_id, status, order_type, delivery_address, created_at, updated_at)
		          VALUES ($1, $2, $3, $4, $5, NOW(), NOW()) RETURNING %s`, orderColumns)

		created, err := scanOrder(tx.QueryRowContext(ctx, query,
			cartID, patientID, domain.OrderStatusPending, orderType, deliveryAddress))
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		items, err := cartItemsQ(ctx, tx, created.CartID)
		if err != nil {
			return err
		}

		_, err = outbox.Record(ctx, tx, domain.EventReserveOrder, domain.OrderRequestedEvent{
			OrderID:    created.ID,
			OrderItems: toEventItems(items),
		})
		if err != nil {
			return err
		}

		order = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *Repository) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}
	return order, nil
}

func (r *Repository) GetOrderForPatient(ctx context.Context, id, patientID int64) (*domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1 AND patient_id = $2`, orderColumns)

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id, patientID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order for patient: %w", err)
	}
	return order, nil
}

func (r *Repository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders ORDER BY updated_at DESC`, orderColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	return scanOrderRows(rows)
}

func (r *Repository) ListOrdersByPatient(ctx context.Context, patientID int64) ([]domain.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE patient_id = $1 ORDER BY updated_at DESC`, orderColumns)

	rows, err := r.db.QueryContext(ctx, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("query orders by patient: %w", err)
	}
	defer rows.Close()

	return scanOrderRows(rows)
}

// CancelOrder soft-deletes a RESERVED order owned by the patient and records
// the inventory release event, all in one transaction. The status guard makes
// the operation safe to race: the loser sees ErrOrderNotFound.
func (r *Repository) CancelOrder(ctx context.Context, id, patientID int64) (*domain.Order, error) {
	var order *domain.Order
	err := r.WithinTx(ctx, func(tx *sql.Tx) error {
		query := fmt.Sprintf(`UPDATE orders
		          SET status = $1, deleted_at = NOW(), updated_at = NOW()
		          WHERE id = $2 AND patient_id = $3 AND status = $4 AND deleted_at IS NULL
		          RETURNING %s`, orderColumns)

		cancelled, err := scanOrder(tx.QueryRowContext(ctx, query,
			domain.OrderStatusCancelPending, id, patientID, domain.OrderStatusReserved))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("cancel order: %w", err)
		}

		items, err := cartItemsQ(ctx, tx, cancelled.CartID)
		if err != nil {
			return err
		}

		_, err = outbox.Record(ctx, tx, domain.EventCancelOrder, domain.OrderCancelledEvent{
			OrderID:    cancelled.ID,
			OrderItems: toEventItems(items),
		})
		if err != nil {
			return err
		}

		order = cancelled
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// AdvanceOrderStatus is the conditional check-and-set used by the event
// consumers: the row moves to the target status only if it currently holds
// one of the expected prior statuses. Zero matched rows means the event is
// stale or duplicated and surfaces as ErrOrderNotFound.
func (r *Repository) AdvanceOrderStatus(ctx context.Context, id int64, from []domain.OrderStatus, to domain.OrderStatus) (*domain.Order, error) {
	var order *domain.Order
	err := r.WithinTx(ctx, func(tx *sql.Tx) error {
		expected := make([]string, len(from))
		for i, s := range from {
			expected[i] = string(s)
		}

		query := fmt.Sprintf(`UPDATE orders SET status = $1, updated_at = NOW()
		          WHERE id = $2 AND status = ANY($3)
		          RETURNING %s`, orderColumns)

		updated, err := scanOrder(tx.QueryRowContext(ctx, query, to, id, pq.Array(expected)))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("advance order status: %w", err)
		}
		order = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// AttachDelivery assigns the delivery id exactly once. A redelivered event
// finds delivery_id already set and matches zero rows.
func (r *Repository) AttachDelivery(ctx context.Context, id int64, deliveryID uuid.UUID) (*domain.Order, error) {
	var order *domain.Order
	err := r.WithinTx(ctx, func(tx *sql.Tx) error {
		query := fmt.Sprintf(`UPDATE orders SET delivery_id = $1, updated_at = NOW()
		          WHERE id = $2 AND delivery_id IS NULL
		          RETURNING %s`, orderColumns)

		updated, err := scanOrder(tx.QueryRowContext(ctx, query, deliveryID, id))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("attach delivery: %w", err)
		}
		order = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func toEventItems(items []domain.CartItem) []domain.OrderItem {
	eventItems := make([]domain.OrderItem, len(items))
	for i, item := range items {
		eventItems[i] = domain.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}
	return eventItems
}
