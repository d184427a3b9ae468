package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	catalogDomain "github.com/mysillydreams/catalog-core/internal/catalog/domain"
	"github.com/mysillydreams/catalog-core/internal/database"
	apperrors "github.com/mysillydreams/catalog-core/internal/errors"
	inventoryDomain "github.com/mysillydreams/catalog-core/internal/inventory/domain"
	outboxUsecase "github.com/mysillydreams/catalog-core/internal/outbox/usecase"
	"github.com/mysillydreams/catalog-core/internal/retry"
)

const stockAggregateType = "StockLevel"

// stockUseCase implements the StockUseCase interface.
type stockUseCase struct {
	txManager   database.TxManager
	itemRepo    CatalogItemRepository
	stockRepo   StockRepository
	appender    outboxUsecase.Appender
	retryPolicy retry.Policy
	stockTopic  string
	logger      *slog.Logger
	now         func() time.Time
}

// NewStockUseCase creates a new stock use case instance with the provided dependencies.
func NewStockUseCase(
	txManager database.TxManager,
	itemRepo CatalogItemRepository,
	stockRepo StockRepository,
	appender outboxUsecase.Appender,
	retryPolicy retry.Policy,
	stockTopic string,
	logger *slog.Logger,
) StockUseCase {
	return &stockUseCase{
		txManager:   txManager,
		itemRepo:    itemRepo,
		stockRepo:   stockRepo,
		appender:    appender,
		retryPolicy: retryPolicy,
		stockTopic:  stockTopic,
		logger:      logger,
		now:         time.Now,
	}
}

// Reserve decrements on-hand stock for a cart reservation.
func (s *stockUseCase) Reserve(
	ctx context.Context,
	itemID uuid.UUID,
	quantity int,
	referenceID string,
) (*inventoryDomain.StockLevel, error) {
	if quantity <= 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "quantity to reserve must be positive")
	}

	return s.mutate(ctx, itemID, false, func(level *inventoryDomain.StockLevel) (*mutation, error) {
		if level.QuantityOnHand < quantity {
			return nil, apperrors.Wrap(inventoryDomain.ErrInsufficientStock,
				fmt.Sprintf("requested %d, available %d", quantity, level.QuantityOnHand))
		}

		return &mutation{
			adjustmentType: inventoryDomain.AdjustmentTypeIssue,
			delta:          -quantity,
			reason:         "cart-reservation",
			referenceID:    referenceID,
		}, nil
	})
}

// Release returns previously reserved stock.
func (s *stockUseCase) Release(
	ctx context.Context,
	itemID uuid.UUID,
	quantity int,
	referenceID string,
) (*inventoryDomain.StockLevel, error) {
	if quantity <= 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "quantity to release must be positive")
	}

	return s.mutate(ctx, itemID, false, func(level *inventoryDomain.StockLevel) (*mutation, error) {
		return &mutation{
			adjustmentType: inventoryDomain.AdjustmentTypeReceive,
			delta:          quantity,
			reason:         "cart-release",
			referenceID:    referenceID,
		}, nil
	})
}

// Adjust applies a warehouse-side stock adjustment.
func (s *stockUseCase) Adjust(
	ctx context.Context,
	input AdjustStockInput,
) (*inventoryDomain.StockLevel, error) {
	if !input.Type.Valid() {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput,
			fmt.Sprintf("unsupported adjustment type: %s", input.Type))
	}

	switch input.Type {
	case inventoryDomain.AdjustmentTypeReceive, inventoryDomain.AdjustmentTypeIssue:
		if input.Quantity <= 0 {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "adjustment quantity must be positive")
		}
	case inventoryDomain.AdjustmentTypeCorrection:
		if input.Quantity == 0 {
			return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "correction delta must be non-zero")
		}
	}

	return s.mutate(ctx, input.ItemID, true, func(level *inventoryDomain.StockLevel) (*mutation, error) {
		var delta int

		switch input.Type {
		case inventoryDomain.AdjustmentTypeReceive:
			delta = input.Quantity
		case inventoryDomain.AdjustmentTypeIssue:
			if level.QuantityOnHand < input.Quantity {
				return nil, apperrors.Wrap(inventoryDomain.ErrInsufficientStock,
					fmt.Sprintf("requested %d, available %d", input.Quantity, level.QuantityOnHand))
			}
			delta = -input.Quantity
		case inventoryDomain.AdjustmentTypeCorrection:
			delta = input.Quantity
			if level.QuantityOnHand+delta < 0 {
				return nil, inventoryDomain.ErrNegativeStock
			}
		}

		return &mutation{
			adjustmentType: input.Type,
			delta:          delta,
			reason:         input.Reason,
			referenceID:    input.ReferenceID,
		}, nil
	})
}

// mutation describes one computed stock change.
type mutation struct {
	adjustmentType inventoryDomain.AdjustmentType
	delta          int
	reason         string
	referenceID    string
}

// mutate runs the load-validate-write-ledger-outbox cycle in one transaction.
// The whole transaction is retried on a version conflict, reloading fresh
// state each attempt. With createIfAbsent the stock row is created lazily on
// first mutation instead of failing with not found.
func (s *stockUseCase) mutate(
	ctx context.Context,
	itemID uuid.UUID,
	createIfAbsent bool,
	compute func(level *inventoryDomain.StockLevel) (*mutation, error),
) (*inventoryDomain.StockLevel, error) {
	var result *inventoryDomain.StockLevel

	err := retry.Do(ctx, s.retryPolicy, func(ctx context.Context) error {
		return s.txManager.WithTx(ctx, func(txCtx context.Context) error {
			item, err := s.itemRepo.Get(txCtx, itemID)
			if err != nil {
				return err
			}
			if item.ItemType != catalogDomain.ItemTypeProduct {
				return inventoryDomain.ErrNotAProduct
			}

			created := false
			level, err := s.stockRepo.Get(txCtx, itemID)
			if err != nil {
				if !apperrors.Is(err, apperrors.ErrNotFound) || !createIfAbsent {
					return err
				}
				level = &inventoryDomain.StockLevel{ItemID: itemID}
				created = true
			}

			m, err := compute(level)
			if err != nil {
				return err
			}

			before := level.QuantityOnHand
			level.QuantityOnHand = before + m.delta

			if created {
				if err := s.stockRepo.Create(txCtx, level); err != nil {
					return err
				}
			} else {
				if err := s.stockRepo.UpdateWithVersion(txCtx, level); err != nil {
					return err
				}
			}

			now := s.now().UTC()
			ledger := &inventoryDomain.StockTransaction{
				ID:              uuid.Must(uuid.NewV7()),
				ItemID:          itemID,
				TransactionType: m.adjustmentType,
				QuantityChanged: m.delta,
				QuantityBefore:  before,
				QuantityAfter:   level.QuantityOnHand,
				Reason:          m.reason,
				ReferenceID:     m.referenceID,
				OccurredAt:      now,
			}
			if err := s.stockRepo.CreateTransaction(txCtx, ledger); err != nil {
				return err
			}

			event := inventoryDomain.StockLevelChangedEvent{
				EventID:         uuid.Must(uuid.NewV7()),
				ItemID:          itemID,
				ItemSKU:         item.SKU,
				AdjustmentType:  m.adjustmentType,
				QuantityChanged: m.delta,
				QuantityBefore:  before,
				QuantityAfter:   level.QuantityOnHand,
				Reason:          m.reason,
				ReferenceID:     m.referenceID,
				OccurredAt:      now,
			}
			err = s.appender.Append(txCtx, stockAggregateType, itemID.String(),
				inventoryDomain.EventTypeStockLevelChanged, s.stockTopic, event)
			if err != nil {
				return err
			}

			result = level
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("stock level changed",
			slog.String("item_id", itemID.String()),
			slog.Int("quantity_on_hand", result.QuantityOnHand),
			slog.Int64("version", result.Version),
		)
	}

	return result, nil
}

// Get retrieves the stock level for a product item.
func (s *stockUseCase) Get(ctx context.Context, itemID uuid.UUID) (*inventoryDomain.StockLevel, error) {
	item, err := s.itemRepo.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.ItemType != catalogDomain.ItemTypeProduct {
		return nil, inventoryDomain.ErrNotAProduct
	}

	return s.stockRepo.Get(ctx, itemID)
}

// List retrieves stock levels ordered by item id with pagination.
func (s *stockUseCase) List(ctx context.Context, offset, limit int) ([]*inventoryDomain.StockLevel, error) {
	return s.stockRepo.List(ctx, offset, limit)
}

// ListBelowReorderLevel retrieves items needing replenishment.
func (s *stockUseCase) ListBelowReorderLevel(ctx context.Context) ([]*inventoryDomain.StockLevel, error) {
	return s.stockRepo.ListBelowReorderLevel(ctx)
}

// ListTransactions retrieves the ledger for an item, newest first.
func (s *stockUseCase) ListTransactions(
	ctx context.Context,
	itemID uuid.UUID,
	offset, limit int,
) ([]*inventoryDomain.StockTransaction, error) {
	return s.stockRepo.ListTransactions(ctx, itemID, offset, limit)
}
