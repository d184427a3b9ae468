// Package domain defines the core outbox domain entities and types.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/mysillydreams/catalog-core/internal/errors"
)

// OutboxEventStatus represents the delivery status of an outbox event.
// Dead-lettered events are kept distinguishable from delivered ones so a
// delivery-exhausted event never masquerades as a success.
type OutboxEventStatus string

const (
	OutboxEventStatusPending      OutboxEventStatus = "pending"
	OutboxEventStatusDelivered    OutboxEventStatus = "delivered"
	OutboxEventStatusDeadLettered OutboxEventStatus = "dead_lettered"
)

// OutboxEvent represents an event in the transactional outbox pattern. It is
// written in the same transaction as the aggregate mutation that produced it
// and delivered asynchronously by the relay.
type OutboxEvent struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	Payload       string
	Status        OutboxEventStatus
	Attempts      int
	LastAttemptAt *time.Time
	ProcessedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Domain-specific errors for outbox operations.
var (
	// ErrEventNotFound indicates the requested outbox event does not exist.
	ErrEventNotFound = errors.Wrap(errors.ErrNotFound, "outbox event not found")
)

// Processed reports whether the event is out of the delivery queue, either
// because it was delivered or because it exhausted its retry budget.
func (e *OutboxEvent) Processed() bool {
	return e.Status != OutboxEventStatusPending
}
