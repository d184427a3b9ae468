// Package broker provides the Kafka publisher used by the outbox relay.
package broker

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"

	apperrors "github.com/mysillydreams/catalog-core/internal/errors"
)

// Config holds Kafka publisher configuration
type Config struct {
	Brokers        []string
	PublishTimeout time.Duration
}

// writer abstracts kafka.Writer for tests.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes outbox payloads to Kafka through a circuit
// breaker, so a broker outage trips fast instead of holding relay
// transactions open on every event in the batch.
type KafkaPublisher struct {
	writer  writer
	breaker *gobreaker.CircuitBreaker
	timeout time.Duration
	logger  *slog.Logger
}

// NewKafkaPublisher creates a new KafkaPublisher. The writer is shared across
// topics; each message carries its own topic. Messages are keyed by aggregate
// id, and hash balancing keeps one aggregate on one partition.
func NewKafkaPublisher(config Config, logger *slog.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}

	settings := gobreaker.Settings{
		Name:    "kafka-publisher",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger != nil {
				logger.Warn("circuit breaker state changed",
					slog.String("name", name),
					slog.String("from", from.String()),
					slog.String("to", to.String()),
				)
			}
		},
	}

	return &KafkaPublisher{
		writer:  w,
		breaker: gobreaker.NewCircuitBreaker(settings),
		timeout: config.PublishTimeout,
		logger:  logger,
	}
}

// Publish writes a single message to the topic and waits for broker acks.
func (p *KafkaPublisher) Publish(ctx context.Context, topic, key string, payload []byte) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	_, err := p.breaker.Execute(func() (any, error) {
		msg := kafka.Message{
			Topic: topic,
			Key:   []byte(key),
			Value: payload,
		}
		return nil, p.writer.WriteMessages(ctx, msg)
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrDeliveryFailure, err.Error())
	}

	return nil
}

// Close closes the underlying writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
