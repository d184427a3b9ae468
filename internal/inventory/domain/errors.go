package domain

import (
	"github.com/mysillydreams/catalog-core/internal/errors"
)

// Inventory-specific error definitions.
var (
	// ErrStockLevelNotFound indicates no stock record exists for the item.
	ErrStockLevelNotFound = errors.Wrap(errors.ErrNotFound, "stock level not found")
	// ErrInsufficientStock indicates the requested quantity exceeds what is
	// on hand.
	ErrInsufficientStock = errors.Wrap(errors.ErrInvalidOperation, "insufficient stock")
	// ErrNotAProduct indicates a stock operation was attempted on a
	// non-product item.
	ErrNotAProduct = errors.Wrap(errors.ErrInvalidOperation, "stock operations apply to PRODUCT items only")
	// ErrNegativeStock indicates the mutation would drive the on-hand
	// quantity below zero.
	ErrNegativeStock = errors.Wrap(errors.ErrInvalidOperation, "stock level cannot be negative")
)
