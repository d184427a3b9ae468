package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mysillydreams/catalog-core/internal/database"
	"github.com/mysillydreams/catalog-core/internal/outbox/domain"
)

// Config holds outbox relay configuration
type Config struct {
	PollInterval    time.Duration
	InitialDelay    time.Duration
	BatchSize       int
	MaxAttempts     int
	RetryDelay      time.Duration
	Retention       time.Duration
	CleanupInterval time.Duration
}

// Publisher delivers a serialized event payload to a topic on the message
// broker. The key carries the aggregate id so per-aggregate ordering is
// preserved where the broker partitions by key.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload []byte) error
}

// UseCase defines the interface for the outbox relay
type UseCase interface {
	Start(ctx context.Context) error
	ProcessEvents(ctx context.Context) error
	CleanupDeliveredEvents(ctx context.Context) error
}

// Relay polls due outbox events on a fixed interval and publishes them to the
// broker, tracking attempts and dead-lettering events that exhaust their
// retry budget. Each run executes in its own transaction, detached from the
// request that produced the events.
type Relay struct {
	config     Config
	txManager  database.TxManager
	outboxRepo OutboxEventRepository
	publisher  Publisher
	logger     *slog.Logger

	// runMu makes poll runs single-flight within a process.
	runMu sync.Mutex

	// now is injectable for tests.
	now func() time.Time
}

// NewRelay creates a new Relay
func NewRelay(
	config Config,
	txManager database.TxManager,
	outboxRepo OutboxEventRepository,
	publisher Publisher,
	logger *slog.Logger,
) *Relay {
	return &Relay{
		config:     config,
		txManager:  txManager,
		outboxRepo: outboxRepo,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

// Start runs the polling loop and the retention sweep until the context is
// cancelled. The first poll waits for the configured initial delay.
func (r *Relay) Start(ctx context.Context) error {
	if r.logger != nil {
		r.logger.Info("starting outbox relay",
			slog.Duration("poll_interval", r.config.PollInterval),
			slog.Int("batch_size", r.config.BatchSize),
			slog.Int("max_attempts", r.config.MaxAttempts),
		)
	}

	if r.config.InitialDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.config.InitialDelay):
		}
	}

	ticker := time.NewTicker(r.config.PollInterval)
	defer ticker.Stop()

	cleanupTicker := time.NewTicker(r.config.CleanupInterval)
	defer cleanupTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			if r.logger != nil {
				r.logger.Info("stopping outbox relay")
			}
			return ctx.Err()
		case <-ticker.C:
			if err := r.ProcessEvents(ctx); err != nil {
				if r.logger != nil {
					r.logger.Error("failed to process outbox events", slog.Any("error", err))
				}
			}
		case <-cleanupTicker.C:
			if err := r.CleanupDeliveredEvents(ctx); err != nil {
				if r.logger != nil {
					r.logger.Error("failed to clean up delivered events", slog.Any("error", err))
				}
			}
		}
	}
}

// ProcessEvents runs one poll cycle in its own transaction: select due
// events, attempt delivery for each, and persist the per-event outcome
// before commit. Runs are single-flight per process; overlapping ticks skip.
func (r *Relay) ProcessEvents(ctx context.Context) error {
	if !r.runMu.TryLock() {
		return nil
	}
	defer r.runMu.Unlock()

	return r.txManager.WithTx(ctx, func(ctx context.Context) error {
		now := r.now()

		events, err := r.outboxRepo.GetDueEvents(
			ctx, now, r.config.RetryDelay, r.config.MaxAttempts, r.config.BatchSize)
		if err != nil {
			return err
		}

		if len(events) == 0 {
			return nil
		}

		if r.logger != nil {
			r.logger.Info("processing outbox events", slog.Int("count", len(events)))
		}

		for _, event := range events {
			if err := r.deliver(ctx, event); err != nil {
				return err
			}
		}

		return nil
	})
}

// deliver attempts to publish a single event and persists the updated
// delivery state. Publish failures never abort the run; the incremented
// attempt count and timestamp govern the next retry.
func (r *Relay) deliver(ctx context.Context, event *domain.OutboxEvent) error {
	now := r.now()
	event.Attempts++
	event.LastAttemptAt = &now

	publishErr := r.publisher.Publish(ctx, event.Topic, event.AggregateID, []byte(event.Payload))
	if publishErr == nil {
		event.Status = domain.OutboxEventStatusDelivered
		event.ProcessedAt = &now

		if r.logger != nil {
			r.logger.Info("published outbox event",
				slog.String("event_id", event.ID.String()),
				slog.String("event_type", event.EventType),
				slog.String("topic", event.Topic),
				slog.Int("attempts", event.Attempts),
			)
		}
	} else {
		if r.logger != nil {
			r.logger.Warn("failed to publish outbox event",
				slog.String("event_id", event.ID.String()),
				slog.String("event_type", event.EventType),
				slog.String("topic", event.Topic),
				slog.Int("attempts", event.Attempts),
				slog.Int("max_attempts", r.config.MaxAttempts),
				slog.Any("error", publishErr),
			)
		}

		if event.Attempts >= r.config.MaxAttempts {
			// Dead-letter: out of the delivery queue, kept for inspection.
			event.Status = domain.OutboxEventStatusDeadLettered
			event.ProcessedAt = &now

			if r.logger != nil {
				r.logger.Error("outbox event dead-lettered after exhausting retry budget",
					slog.String("event_id", event.ID.String()),
					slog.String("event_type", event.EventType),
					slog.String("aggregate_type", event.AggregateType),
					slog.String("aggregate_id", event.AggregateID),
					slog.Int("attempts", event.Attempts),
					slog.Any("error", publishErr),
				)
			}
		}
	}

	return r.outboxRepo.Update(ctx, event)
}

// CleanupDeliveredEvents deletes delivered events older than the retention
// window to bound table growth. Dead-lettered events are kept until an
// operator resolves them.
func (r *Relay) CleanupDeliveredEvents(ctx context.Context) error {
	return r.txManager.WithTx(ctx, func(ctx context.Context) error {
		cutoff := r.now().Add(-r.config.Retention)

		deleted, err := r.outboxRepo.DeleteDeliveredBefore(ctx, cutoff)
		if err != nil {
			return err
		}

		if deleted > 0 && r.logger != nil {
			r.logger.Info("cleaned up delivered outbox events",
				slog.Int64("deleted", deleted),
				slog.Time("cutoff", cutoff),
			)
		}

		return nil
	})
}
