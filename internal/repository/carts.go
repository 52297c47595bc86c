package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Pasobeso/medbook-orderservice/internal/domain"
	"github.com/lib/pq"
)

const cartColumns = `id, patient_id, created_at, updated_at`
const cartItemColumns = `cart_id, product_id, quantity, created_at, updated_at`

func (r *Repository) CreateCart(ctx context.Context, patientID int64, items []CartItemInput) (*domain.Cart, []domain.CartItem, error) {
	var cart *domain.Cart
	var created []domain.CartItem

	err := r.WithinTx(ctx, func(tx *sql.Tx) error {
		query := fmt.Sprintf(`INSERT INTO carts (patient_id, created_at, updated_at)
		          VALUES ($1, NOW(), NOW()) RETURNING %s`, cartColumns)

		var c domain.Cart
		if err := tx.QueryRowContext(ctx, query, patientID).
			Scan(&c.ID, &c.PatientID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return fmt.Errorf("insert cart: %w", err)
		}

		itemQuery := fmt.Sprintf(`INSERT INTO cart_items (cart_id, product_id, quantity, created_at, updated_at)
		          VALUES ($1, $2, $3, NOW(), NOW()) RETURNING %s`, cartItemColumns)

		for _, item := range items {
			if item.Quantity <= 0 {
				continue
			}
			var ci domain.CartItem
			if err := tx.QueryRowContext(ctx, itemQuery, c.ID, item.ProductID, item.Quantity).
				Scan(&ci.CartID, &ci.ProductID, &ci.Quantity, &ci.CreatedAt, &ci.UpdatedAt); err != nil {
				return fmt.Errorf("insert cart item: %w", err)
			}
			created = append(created, ci)
		}

		cart = &c
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return cart, created, nil
}

func (r *Repository) GetCart(ctx context.Context, id, patientID int64) (*domain.Cart, error) {
	query := fmt.Sprintf(`SELECT %s FROM carts WHERE id = $1 AND patient_id = $2`, cartColumns)

	var cart domain.Cart
	err := r.db.QueryRowContext(ctx, query, id, patientID).
		Scan(&cart.ID, &cart.PatientID, &cart.CreatedAt, &cart.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query cart: %w", err)
	}
	return &cart, nil
}

func (r *Repository) ListCarts(ctx context.Context) ([]domain.Cart, error) {
	query := fmt.Sprintf(`SELECT %s FROM carts ORDER BY created_at DESC`, cartColumns)
	return r.queryCarts(ctx, query)
}

func (r *Repository) ListCartsByPatient(ctx context.Context, patientID int64) ([]domain.Cart, error) {
	query := fmt.Sprintf(`SELECT %s FROM carts WHERE patient_id = $1 ORDER BY created_at DESC`, cartColumns)
	return r.queryCarts(ctx, query, patientID)
}

func (r *Repository) queryCarts(ctx context.Context, query string, args ...any) ([]domain.Cart, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query carts: %w", err)
	}
	defer rows.Close()

	var carts []domain.Cart
	for rows.Next() {
		var cart domain.Cart
		if err := rows.Scan(&cart.ID, &cart.PatientID, &cart.CreatedAt, &cart.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan cart row: %w", err)
		}
		carts = append(carts, cart)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return carts, nil
}

// UpdateCart replaces the cart's contents: items absent from the request are
// deleted, present ones are upserted, and the cart's updated_at is bumped.
// Returns the updated cart, the rows now in the cart, and the deleted rows.
func (r *Repository) UpdateCart(ctx context.Context, id, patientID int64, items []CartItemInput) (*domain.Cart, []domain.CartItem, []domain.CartItem, error) {
	var cart *domain.Cart
	var updated, deleted []domain.CartItem

	err := r.WithinTx(ctx, func(tx *sql.Tx) error {
		var count int64
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM carts WHERE id = $1 AND patient_id = $2`, id, patientID).
			Scan(&count)
		if err != nil {
			return fmt.Errorf("check cart ownership: %w", err)
		}
		if count == 0 {
			return ErrCartNotFound
		}

		keepIDs := make([]int64, len(items))
		for i, item := range items {
			keepIDs[i] = item.ProductID
		}

		deleteQuery := fmt.Sprintf(`DELETE FROM cart_items
		          WHERE cart_id = $1 AND product_id <> ALL($2) RETURNING %s`, cartItemColumns)
		rows, err := tx.QueryContext(ctx, deleteQuery, id, pq.Array(keepIDs))
		if err != nil {
			return fmt.Errorf("delete cart items: %w", err)
		}
		deleted, err = collectCartItems(rows)
		if err != nil {
			return err
		}

		upsertQuery := `INSERT INTO cart_items (cart_id, product_id, quantity, created_at, updated_at)
		          VALUES ($1, $2, $3, NOW(), NOW())
		          ON CONFLICT (cart_id, product_id) DO UPDATE SET quantity = $3, updated_at = NOW()`
		for _, item := range items {
			if _, err := tx.ExecContext(ctx, upsertQuery, id, item.ProductID, item.Quantity); err != nil {
				return fmt.Errorf("upsert cart item: %w", err)
			}
		}

		var c domain.Cart
		bumpQuery := fmt.Sprintf(`UPDATE carts SET updated_at = NOW() WHERE id = $1 RETURNING %s`, cartColumns)
		if err := tx.QueryRowContext(ctx, bumpQuery, id).
			Scan(&c.ID, &c.PatientID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return fmt.Errorf("bump cart timestamp: %w", err)
		}

		updated, err = cartItemsQ(ctx, tx, id)
		if err != nil {
			return err
		}

		cart = &c
		return nil
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return cart, updated, deleted, nil
}

func (r *Repository) DeleteCart(ctx context.Context, id, patientID int64) (*domain.Cart, error) {
	query := fmt.Sprintf(`DELETE FROM carts WHERE id = $1 AND patient_id = $2 RETURNING %s`, cartColumns)

	var cart domain.Cart
	err := r.db.QueryRowContext(ctx, query, id, patientID).
		Scan(&cart.ID, &cart.PatientID, &cart.CreatedAt, &cart.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete cart: %w", err)
	}
	return &cart, nil
}

func (r *Repository) CartItems(ctx context.Context, cartID int64) ([]domain.CartItem, error) {
	return cartItemsQ(ctx, r.db, cartID)
}

func (r *Repository) CartItemsByCartIDs(ctx context.Context, cartIDs []int64) ([]domain.CartItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM cart_items WHERE cart_id = ANY($1)`, cartItemColumns)

	rows, err := r.db.QueryContext(ctx, query, pq.Array(cartIDs))
	if err != nil {
		return nil, fmt.Errorf("query cart items by cart ids: %w", err)
	}
	return collectCartItems(rows)
}

func cartItemsQ(ctx context.Context, q querier, cartID int64) ([]domain.CartItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM cart_items WHERE cart_id = $1`, cartItemColumns)

	rows, err := q.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	return collectCartItems(rows)
}

func collectCartItems(rows *sql.Rows) ([]domain.CartItem, error) {
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.CartID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan cart item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}
