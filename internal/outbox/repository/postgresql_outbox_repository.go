// Package repository provides data persistence implementations for outbox entities.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/mysillydreams/catalog-core/internal/database"
	"github.com/mysillydreams/catalog-core/internal/outbox/domain"
)

// PostgreSQLOutboxEventRepository handles outbox event persistence for PostgreSQL
type PostgreSQLOutboxEventRepository struct {
	db *sql.DB
}

// NewPostgreSQLOutboxEventRepository creates a new PostgreSQLOutboxEventRepository
func NewPostgreSQLOutboxEventRepository(db *sql.DB) *PostgreSQLOutboxEventRepository {
	return &PostgreSQLOutboxEventRepository{
		db: db,
	}
}

// Create inserts a new outbox event
func (r *PostgreSQLOutboxEventRepository) Create(ctx context.Context, event *domain.OutboxEvent) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO outbox_events (id, aggregate_type, aggregate_id, event_type, topic, payload,
	                                     status, attempts, last_attempt_at, processed_at, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())`

	_, err := querier.ExecContext(ctx, query, event.ID, event.AggregateType, event.AggregateID,
		event.EventType, event.Topic, event.Payload, event.Status, event.Attempts,
		event.LastAttemptAt, event.ProcessedAt)

	return err
}

// GetDueEvents retrieves pending events that are eligible for a delivery
// attempt: never attempted, or past the retry delay since the last attempt,
// and still inside the attempt budget. Oldest first for per-aggregate ordering
// within a batch. SKIP LOCKED keeps concurrent relay instances from selecting
// the same rows.
func (r *PostgreSQLOutboxEventRepository) GetDueEvents(
	ctx context.Context,
	now time.Time,
	retryDelay time.Duration,
	maxAttempts int,
	limit int,
) ([]*domain.OutboxEvent, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, aggregate_type, aggregate_id, event_type, topic, payload,
	                 status, attempts, last_attempt_at, processed_at, created_at, updated_at
			  FROM outbox_events
			  WHERE status = $1
			    AND attempts < $2
			    AND (last_attempt_at IS NULL OR last_attempt_at <= $3)
			  ORDER BY created_at ASC
			  LIMIT $4
			  FOR UPDATE SKIP LOCKED`

	retryThreshold := now.Add(-retryDelay)

	rows, err := querier.QueryContext(ctx, query,
		domain.OutboxEventStatusPending, maxAttempts, retryThreshold, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var events []*domain.OutboxEvent
	for rows.Next() {
		var event domain.OutboxEvent

		err := rows.Scan(&event.ID, &event.AggregateType, &event.AggregateID, &event.EventType,
			&event.Topic, &event.Payload, &event.Status, &event.Attempts,
			&event.LastAttemptAt, &event.ProcessedAt, &event.CreatedAt, &event.UpdatedAt)
		if err != nil {
			return nil, err
		}

		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// Update updates an outbox event's delivery state
func (r *PostgreSQLOutboxEventRepository) Update(ctx context.Context, event *domain.OutboxEvent) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE outbox_events
			  SET status = $1, attempts = $2, last_attempt_at = $3, processed_at = $4, updated_at = NOW()
			  WHERE id = $5`

	_, err := querier.ExecContext(ctx, query, event.Status, event.Attempts,
		event.LastAttemptAt, event.ProcessedAt, event.ID)

	return err
}

// DeleteDeliveredBefore removes delivered events older than the cutoff.
// Dead-lettered events are intentionally kept for operator inspection.
func (r *PostgreSQLOutboxEventRepository) DeleteDeliveredBefore(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM outbox_events WHERE status = $1 AND created_at < $2`

	result, err := querier.ExecContext(ctx, query, domain.OutboxEventStatusDelivered, cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
