package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Pasobeso/medbook-orderservice/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(cred *Credentials) (*Repository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "orders_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// WithinTx runs fn inside a single database transaction. Any error (from fn
// or from commit) rolls the whole transaction back, so multi-step mutations
// either all apply or none do.
func (r *Repository) WithinTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx,
// letting row helpers run either standalone or inside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const orderColumns = `id, cart_id, patient_id, status, order_type, delivery_id, delivery_address, created_at, updated_at, deleted_at`

func scanOrder(row *sql.Row) (*domain.Order, error) {
	var order domain.Order
	var deliveryID uuid.NullUUID
	var address []byte
	var deletedAt sql.NullTime

	err := row.Scan(
		&order.ID,
		&order.CartID,
		&order.PatientID,
		&order.Status,
		&order.OrderType,
		&deliveryID,
		&address,
		&order.CreatedAt,
		&order.UpdatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if deliveryID.Valid {
		order.DeliveryID = &deliveryID.UUID
	}
	order.DeliveryAddress = address
	if deletedAt.Valid {
		order.DeletedAt = &deletedAt.Time
	}
	return &order, nil
}

func scanOrderRows(rows *sql.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		var deliveryID uuid.NullUUID
		var address []byte
		var deletedAt sql.NullTime

		if err := rows.Scan(
			&order.ID,
			&order.CartID,
			&order.PatientID,
			&order.Status,
			&order.OrderType,
			&deliveryID,
			&address,
			&order.CreatedAt,
			&order.UpdatedAt,
			&deletedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		if deliveryID.Valid {
			order.DeliveryID = &deliveryID.UUID
		}
		order.DeliveryAddress = address
		if deletedAt.Valid {
			order.DeletedAt = &deletedAt.Time
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return orders, nil
}

const paymentColumns = `id, order_id, amount, status, provider, provider_ref, failure_reason, created_at, updated_at`

func scanPayment(row *sql.Row) (*domain.Payment, error) {
	var payment domain.Payment
	var providerRef, failureReason sql.NullString

	err := row.Scan(
		&payment.ID,
		&payment.OrderID,
		&payment.Amount,
		&payment.Status,
		&payment.Provider,
		&providerRef,
		&failureReason,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if providerRef.Valid {
		payment.ProviderRef = &providerRef.String
	}
	if failureReason.Valid {
		payment.FailureReason = &failureReason.String
	}
	return &payment, nil
}
