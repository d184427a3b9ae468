package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	inventoryDomain "github.com/mysillydreams/catalog-core/internal/inventory/domain"
	"github.com/mysillydreams/catalog-core/internal/metrics"
)

// stockUseCaseWithMetrics decorates StockUseCase with metrics instrumentation.
type stockUseCaseWithMetrics struct {
	next    StockUseCase
	metrics metrics.BusinessMetrics
}

// NewStockUseCaseWithMetrics wraps a StockUseCase with metrics recording.
func NewStockUseCaseWithMetrics(useCase StockUseCase, m metrics.BusinessMetrics) StockUseCase {
	return &stockUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (s *stockUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "inventory", operation, status)
	s.metrics.RecordDuration(ctx, "inventory", operation, time.Since(start), status)
}

// Reserve records metrics for stock reservations.
func (s *stockUseCaseWithMetrics) Reserve(
	ctx context.Context,
	itemID uuid.UUID,
	quantity int,
	referenceID string,
) (*inventoryDomain.StockLevel, error) {
	start := time.Now()
	level, err := s.next.Reserve(ctx, itemID, quantity, referenceID)
	s.record(ctx, "stock_reserve", start, err)
	return level, err
}

// Release records metrics for stock releases.
func (s *stockUseCaseWithMetrics) Release(
	ctx context.Context,
	itemID uuid.UUID,
	quantity int,
	referenceID string,
) (*inventoryDomain.StockLevel, error) {
	start := time.Now()
	level, err := s.next.Release(ctx, itemID, quantity, referenceID)
	s.record(ctx, "stock_release", start, err)
	return level, err
}

// Adjust records metrics for stock adjustments.
func (s *stockUseCaseWithMetrics) Adjust(
	ctx context.Context,
	input AdjustStockInput,
) (*inventoryDomain.StockLevel, error) {
	start := time.Now()
	level, err := s.next.Adjust(ctx, input)
	s.record(ctx, "stock_adjust", start, err)
	return level, err
}

// Get records metrics for stock level reads.
func (s *stockUseCaseWithMetrics) Get(ctx context.Context, itemID uuid.UUID) (*inventoryDomain.StockLevel, error) {
	start := time.Now()
	level, err := s.next.Get(ctx, itemID)
	s.record(ctx, "stock_get", start, err)
	return level, err
}

// List records metrics for stock level listings.
func (s *stockUseCaseWithMetrics) List(ctx context.Context, offset, limit int) ([]*inventoryDomain.StockLevel, error) {
	start := time.Now()
	levels, err := s.next.List(ctx, offset, limit)
	s.record(ctx, "stock_list", start, err)
	return levels, err
}

// ListBelowReorderLevel records metrics for reorder alert listings.
func (s *stockUseCaseWithMetrics) ListBelowReorderLevel(ctx context.Context) ([]*inventoryDomain.StockLevel, error) {
	start := time.Now()
	levels, err := s.next.ListBelowReorderLevel(ctx)
	s.record(ctx, "stock_reorder_alerts", start, err)
	return levels, err
}

// ListTransactions records metrics for ledger listings.
func (s *stockUseCaseWithMetrics) ListTransactions(
	ctx context.Context,
	itemID uuid.UUID,
	offset, limit int,
) ([]*inventoryDomain.StockTransaction, error) {
	start := time.Now()
	txs, err := s.next.ListTransactions(ctx, itemID, offset, limit)
	s.record(ctx, "stock_transactions", start, err)
	return txs, err
}
