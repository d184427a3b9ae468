// Package domain defines the minimal catalog item reference model. Stock and
// pricing mutations validate the owning item against it; full item management
// lives elsewhere.
package domain

import (
	"github.com/google/uuid"

	"github.com/mysillydreams/catalog-core/internal/errors"
)

// ItemType distinguishes physical products from services.
type ItemType string

const (
	// ItemTypeProduct is a physical item that carries stock.
	ItemTypeProduct ItemType = "PRODUCT"
	// ItemTypeService is a non-stocked item.
	ItemTypeService ItemType = "SERVICE"
)

// CatalogItem is the reference record for an item in the catalog.
type CatalogItem struct {
	ID       uuid.UUID
	SKU      string
	Name     string
	ItemType ItemType
}

// Catalog item error definitions.
var (
	// ErrItemNotFound indicates the catalog item does not exist.
	ErrItemNotFound = errors.Wrap(errors.ErrNotFound, "catalog item not found")
)
