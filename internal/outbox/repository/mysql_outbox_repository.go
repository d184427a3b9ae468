// Package repository provides data persistence implementations for outbox entities.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/mysillydreams/catalog-core/internal/database"
	"github.com/mysillydreams/catalog-core/internal/outbox/domain"
)

// MySQLOutboxEventRepository handles outbox event persistence for MySQL
type MySQLOutboxEventRepository struct {
	db *sql.DB
}

// NewMySQLOutboxEventRepository creates a new MySQLOutboxEventRepository
func NewMySQLOutboxEventRepository(db *sql.DB) *MySQLOutboxEventRepository {
	return &MySQLOutboxEventRepository{
		db: db,
	}
}

// Create inserts a new outbox event
func (r *MySQLOutboxEventRepository) Create(ctx context.Context, event *domain.OutboxEvent) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO outbox_events (id, aggregate_type, aggregate_id, event_type, topic, payload,
	                                     status, attempts, last_attempt_at, processed_at, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`

	// Convert UUID to bytes for MySQL BINARY(16)
	idBytes, err := event.ID.MarshalBinary()
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(ctx, query, idBytes, event.AggregateType, event.AggregateID,
		event.EventType, event.Topic, event.Payload, event.Status, event.Attempts,
		event.LastAttemptAt, event.ProcessedAt)

	return err
}

// GetDueEvents retrieves pending events eligible for a delivery attempt.
// Oldest first; SKIP LOCKED keeps concurrent relay instances from selecting
// the same rows.
func (r *MySQLOutboxEventRepository) GetDueEvents(
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
			  WHERE status = ?
			    AND attempts < ?
			    AND (last_attempt_at IS NULL OR last_attempt_at <= ?)
			  ORDER BY created_at ASC
			  LIMIT ?
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
		var idBytes []byte

		err := rows.Scan(&idBytes, &event.AggregateType, &event.AggregateID, &event.EventType,
			&event.Topic, &event.Payload, &event.Status, &event.Attempts,
			&event.LastAttemptAt, &event.ProcessedAt, &event.CreatedAt, &event.UpdatedAt)
		if err != nil {
			return nil, err
		}

		// Convert bytes back to UUID
		if err := event.ID.UnmarshalBinary(idBytes); err != nil {
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
func (r *MySQLOutboxEventRepository) Update(ctx context.Context, event *domain.OutboxEvent) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE outbox_events
			  SET status = ?, attempts = ?, last_attempt_at = ?, processed_at = ?, updated_at = NOW()
			  WHERE id = ?`

	idBytes, err := event.ID.MarshalBinary()
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(ctx, query, event.Status, event.Attempts,
		event.LastAttemptAt, event.ProcessedAt, idBytes)

	return err
}

// DeleteDeliveredBefore removes delivered events older than the cutoff.
// Dead-lettered events are intentionally kept for operator inspection.
func (r *MySQLOutboxEventRepository) DeleteDeliveredBefore(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM outbox_events WHERE status = ? AND created_at < ?`

	result, err := querier.ExecContext(ctx, query, domain.OutboxEventStatusDelivered, cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
