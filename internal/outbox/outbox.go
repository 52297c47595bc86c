// Package outbox implements the write side of the transactional-outbox
// pattern: event rows are inserted through the caller's own database
// transaction so that a domain mutation and its announcement commit or roll
// back together. Delivery to the broker is someone else's job (see relay).
package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPublished Status = "PUBLISHED"
)

// Entry is one outbox row. Payload is the serialized event body exactly as
// it will be handed to the broker.
type Entry struct {
	ID        int64
	EventType string
	Payload   []byte
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Execer is the slice of database/sql needed to append an entry. Both
// *sql.DB and *sql.Tx satisfy it; callers recording events alongside a
// state mutation must pass their open *sql.Tx.
type Execer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Record appends an outbox entry using the caller's transaction and returns
// the new entry id. It never opens a transaction of its own: if the
// surrounding transaction rolls back, the entry is gone with it.
func Record(ctx context.Context, tx Execer, eventType string, payload any) (int64, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("marshal outbox payload: %w", err)
	}

	query := `INSERT INTO outbox (event_type, payload, status, created_at, updated_at)
	          VALUES ($1, $2, $3, NOW(), NOW()) RETURNING id`

	var id int64
	if err := tx.QueryRowContext(ctx, query, eventType, body, StatusPending).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert outbox entry: %w", err)
	}
	return id, nil
}
