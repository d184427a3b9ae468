// Package repository provides data persistence implementations for catalog item lookups.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mysillydreams/catalog-core/internal/catalog/domain"
	"github.com/mysillydreams/catalog-core/internal/database"
)

// PostgreSQLCatalogItemRepository handles catalog item lookups for PostgreSQL
type PostgreSQLCatalogItemRepository struct {
	db *sql.DB
}

// NewPostgreSQLCatalogItemRepository creates a new PostgreSQLCatalogItemRepository
func NewPostgreSQLCatalogItemRepository(db *sql.DB) *PostgreSQLCatalogItemRepository {
	return &PostgreSQLCatalogItemRepository{
		db: db,
	}
}

// Get retrieves a catalog item by id
func (r *PostgreSQLCatalogItemRepository) Get(ctx context.Context, itemID uuid.UUID) (*domain.CatalogItem, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, sku, name, item_type FROM catalog_items WHERE id = $1`

	var item domain.CatalogItem
	err := querier.QueryRowContext(ctx, query, itemID).
		Scan(&item.ID, &item.SKU, &item.Name, &item.ItemType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}

	return &item, nil
}

// GetByIDs retrieves catalog items for the given ids, keyed by id
func (r *PostgreSQLCatalogItemRepository) GetByIDs(
	ctx context.Context,
	itemIDs []uuid.UUID,
) (map[uuid.UUID]*domain.CatalogItem, error) {
	items := make(map[uuid.UUID]*domain.CatalogItem, len(itemIDs))
	if len(itemIDs) == 0 {
		return items, nil
	}

	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, sku, name, item_type FROM catalog_items WHERE id = ANY($1)`

	ids := make([]string, len(itemIDs))
	for i, id := range itemIDs {
		ids[i] = id.String()
	}

	rows, err := querier.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		var item domain.CatalogItem
		if err := rows.Scan(&item.ID, &item.SKU, &item.Name, &item.ItemType); err != nil {
			return nil, err
		}
		items[item.ID] = &item
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
