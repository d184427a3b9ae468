// Package usecase implements business logic orchestration for inventory
// tracking. Stock mutations run as load, validate, conditional write, ledger
// append and outbox append inside a single transaction, retried under the
// optimistic concurrency policy.
package usecase

import (
	"context"

	"github.com/google/uuid"

	catalogDomain "github.com/mysillydreams/catalog-core/internal/catalog/domain"
	inventoryDomain "github.com/mysillydreams/catalog-core/internal/inventory/domain"
)

// CatalogItemRepository defines the interface for catalog item lookups.
type CatalogItemRepository interface {
	Get(ctx context.Context, itemID uuid.UUID) (*catalogDomain.CatalogItem, error)
}

// StockRepository defines the interface for stock level and ledger persistence.
type StockRepository interface {
	Get(ctx context.Context, itemID uuid.UUID) (*inventoryDomain.StockLevel, error)
	Create(ctx context.Context, level *inventoryDomain.StockLevel) error
	UpdateWithVersion(ctx context.Context, level *inventoryDomain.StockLevel) error
	List(ctx context.Context, offset, limit int) ([]*inventoryDomain.StockLevel, error)
	ListBelowReorderLevel(ctx context.Context) ([]*inventoryDomain.StockLevel, error)
	CreateTransaction(ctx context.Context, tx *inventoryDomain.StockTransaction) error
	ListTransactions(
		ctx context.Context,
		itemID uuid.UUID,
		offset, limit int,
	) ([]*inventoryDomain.StockTransaction, error)
}

// AdjustStockInput carries the parameters of a stock adjustment.
type AdjustStockInput struct {
	ItemID uuid.UUID
	Type   inventoryDomain.AdjustmentType
	// Quantity is a positive magnitude for receive and issue; a signed
	// delta for correction.
	Quantity    int
	Reason      string
	ReferenceID string
}

// StockUseCase defines the interface for inventory business logic.
type StockUseCase interface {
	// Reserve decrements on-hand stock for a cart reservation.
	Reserve(ctx context.Context, itemID uuid.UUID, quantity int, referenceID string) (*inventoryDomain.StockLevel, error)
	// Release returns previously reserved stock. There is no upper bound
	// check; over-release is reconciled through correction adjustments.
	Release(ctx context.Context, itemID uuid.UUID, quantity int, referenceID string) (*inventoryDomain.StockLevel, error)
	// Adjust applies a warehouse-side stock adjustment, creating the stock
	// row on first use.
	Adjust(ctx context.Context, input AdjustStockInput) (*inventoryDomain.StockLevel, error)
	Get(ctx context.Context, itemID uuid.UUID) (*inventoryDomain.StockLevel, error)
	List(ctx context.Context, offset, limit int) ([]*inventoryDomain.StockLevel, error)
	ListBelowReorderLevel(ctx context.Context) ([]*inventoryDomain.StockLevel, error)
	ListTransactions(
		ctx context.Context,
		itemID uuid.UUID,
		offset, limit int,
	) ([]*inventoryDomain.StockTransaction, error)
}
