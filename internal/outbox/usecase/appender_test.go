package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mysillydreams/catalog-core/internal/database"
	apperrors "github.com/mysillydreams/catalog-core/internal/errors"
	"github.com/mysillydreams/catalog-core/internal/events"
	"github.com/mysillydreams/catalog-core/internal/outbox/domain"
)

// MockOutboxEventRepository is a mock implementation of OutboxEventRepository
type MockOutboxEventRepository struct {
	mock.Mock
}

func (m *MockOutboxEventRepository) Create(ctx context.Context, event *domain.OutboxEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockOutboxEventRepository) GetDueEvents(
	ctx context.Context,
	now time.Time,
	retryDelay time.Duration,
	maxAttempts int,
	limit int,
) ([]*domain.OutboxEvent, error) {
	args := m.Called(ctx, now, retryDelay, maxAttempts, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.OutboxEvent), args.Error(1)
}

func (m *MockOutboxEventRepository) Update(ctx context.Context, event *domain.OutboxEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockOutboxEventRepository) DeleteDeliveredBefore(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type stockChangedPayload struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

func newTestRegistry() *events.Registry {
	reg := events.NewRegistry()
	reg.Register("stock.level.changed", events.JSONCodec[stockChangedPayload]())
	return reg
}

// withTestTx runs fn inside a real transaction backed by sqlmock, so the
// appender's open-transaction check sees an actual tx in the context.
func withTestTx(t *testing.T, fn func(ctx context.Context) error) error {
	t.Helper()

	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	dbMock.ExpectBegin()
	dbMock.ExpectCommit()
	dbMock.ExpectRollback()

	txManager := database.NewTxManager(db)
	return txManager.WithTx(context.Background(), fn)
}

func TestAppender_Append(t *testing.T) {
	outboxRepo := &MockOutboxEventRepository{}
	appender := NewAppender(outboxRepo, newTestRegistry())

	outboxRepo.On("Create", mock.Anything, mock.MatchedBy(func(e *domain.OutboxEvent) bool {
		return e.AggregateType == "StockLevel" &&
			e.AggregateID == "item-1" &&
			e.EventType == "stock.level.changed" &&
			e.Topic == "catalog.stock.changed" &&
			e.Status == domain.OutboxEventStatusPending &&
			e.Attempts == 0 &&
			e.Payload == `{"item_id":"item-1","quantity":45}`
	})).Return(nil)

	err := withTestTx(t, func(ctx context.Context) error {
		return appender.Append(ctx, "StockLevel", "item-1", "stock.level.changed",
			"catalog.stock.changed", stockChangedPayload{ItemID: "item-1", Quantity: 45})
	})

	assert.NoError(t, err)
	outboxRepo.AssertExpectations(t)
}

func TestAppender_Append_WithoutTransactionFailsLoudly(t *testing.T) {
	outboxRepo := &MockOutboxEventRepository{}
	appender := NewAppender(outboxRepo, newTestRegistry())

	err := appender.Append(context.Background(), "StockLevel", "item-1",
		"stock.level.changed", "catalog.stock.changed",
		stockChangedPayload{ItemID: "item-1", Quantity: 45})

	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNoTransaction))
	outboxRepo.AssertNotCalled(t, "Create")
}

func TestAppender_Append_SerializationFailureAbortsTransaction(t *testing.T) {
	outboxRepo := &MockOutboxEventRepository{}
	appender := NewAppender(outboxRepo, newTestRegistry())

	err := withTestTx(t, func(ctx context.Context) error {
		// Channels cannot be marshaled; registry falls back to JSON for
		// unregistered types and fails there.
		return appender.Append(ctx, "StockLevel", "item-1", "bad.event",
			"catalog.stock.changed", make(chan int))
	})

	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrSerializationFailure))
	outboxRepo.AssertNotCalled(t, "Create")
}

func TestAppender_Append_UnregisteredTypeUsesJSONFallback(t *testing.T) {
	outboxRepo := &MockOutboxEventRepository{}
	appender := NewAppender(outboxRepo, newTestRegistry())

	outboxRepo.On("Create", mock.Anything, mock.MatchedBy(func(e *domain.OutboxEvent) bool {
		return e.EventType == "price.override.created" && e.Payload == `{"price":"9.99"}`
	})).Return(nil)

	err := withTestTx(t, func(ctx context.Context) error {
		return appender.Append(ctx, "PriceOverride", "ov-1", "price.override.created",
			"catalog.pricing.events", map[string]string{"price": "9.99"})
	})

	assert.NoError(t, err)
	outboxRepo.AssertExpectations(t)
}

func TestAppender_Append_RepositoryError(t *testing.T) {
	outboxRepo := &MockOutboxEventRepository{}
	appender := NewAppender(outboxRepo, newTestRegistry())

	outboxRepo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)

	err := withTestTx(t, func(ctx context.Context) error {
		return appender.Append(ctx, "StockLevel", "item-1", "stock.level.changed",
			"catalog.stock.changed", stockChangedPayload{ItemID: "item-1", Quantity: 1})
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create outbox event")
}
