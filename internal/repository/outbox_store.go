package repository

import (
	"context"
	"fmt"

	"github.com/Pasobeso/medbook-orderservice/internal/outbox"
)

// UnpublishedEvents returns PENDING outbox entries in creation order for the
// relay to drain.
func (r *Repository) UnpublishedEvents(ctx context.Context, limit int) ([]outbox.Entry, error) {
	query := `SELECT id, event_type, payload, status, created_at, updated_at
	          FROM outbox WHERE status = $1 ORDER BY id ASC LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, outbox.StatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("query unpublished events: %w", err)
	}
	defer rows.Close()

	var entries []outbox.Entry
	for rows.Next() {
		var entry outbox.Entry
		if err := rows.Scan(
			&entry.ID,
			&entry.EventType,
			&entry.Payload,
			&entry.Status,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return entries, nil
}

func (r *Repository) MarkEventPublished(ctx context.Context, id int64) error {
	query := `UPDATE outbox SET status = $1, updated_at = NOW() WHERE id = $2`

	if _, err := r.db.ExecContext(ctx, query, outbox.StatusPublished, id); err != nil {
		return fmt.Errorf("mark event published: %w", err)
	}
	return nil
}
