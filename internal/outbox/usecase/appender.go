// Package usecase implements the outbox business logic: the write-side
// appender and the poller/publisher relay.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mysillydreams/catalog-core/internal/database"
	apperrors "github.com/mysillydreams/catalog-core/internal/errors"
	"github.com/mysillydreams/catalog-core/internal/events"
	"github.com/mysillydreams/catalog-core/internal/outbox/domain"
)

// OutboxEventRepository defines outbox event repository operations
type OutboxEventRepository interface {
	Create(ctx context.Context, event *domain.OutboxEvent) error
	GetDueEvents(
		ctx context.Context,
		now time.Time,
		retryDelay time.Duration,
		maxAttempts int,
		limit int,
	) ([]*domain.OutboxEvent, error)
	Update(ctx context.Context, event *domain.OutboxEvent) error
	DeleteDeliveredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Appender is the write-side outbox API. Business use cases call Append from
// inside their own transaction right after a successful aggregate write; no
// other component publishes to the broker directly.
type Appender interface {
	Append(ctx context.Context, aggregateType, aggregateID, eventType, topic string, payload any) error
}

// outboxAppender implements Appender on top of the outbox repository and the
// event codec registry.
type outboxAppender struct {
	outboxRepo OutboxEventRepository
	registry   *events.Registry
}

// NewAppender creates a new Appender.
func NewAppender(outboxRepo OutboxEventRepository, registry *events.Registry) Appender {
	return &outboxAppender{
		outboxRepo: outboxRepo,
		registry:   registry,
	}
}

// Append serializes the payload immediately and inserts the outbox row in the
// caller's transaction. The payload captured here is what eventually gets
// published, reflecting aggregate state at mutation time rather than publish
// time. Calling Append without an open transaction is a programming error and
// fails loudly; a serialization failure aborts the enclosing transaction so
// an unrepresentable event never silently drops the business write either.
func (a *outboxAppender) Append(
	ctx context.Context,
	aggregateType, aggregateID, eventType, topic string,
	payload any,
) error {
	if _, ok := database.TxFromContext(ctx); !ok {
		return apperrors.Wrap(apperrors.ErrNoTransaction, "outbox append must run inside a transaction")
	}

	data, err := a.registry.Encode(eventType, payload)
	if err != nil {
		return err
	}

	event := &domain.OutboxEvent{
		ID:            uuid.Must(uuid.NewV7()),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Topic:         topic,
		Payload:       string(data),
		Status:        domain.OutboxEventStatusPending,
		Attempts:      0,
	}

	if err := a.outboxRepo.Create(ctx, event); err != nil {
		return apperrors.Wrap(err, "failed to create outbox event")
	}

	return nil
}
