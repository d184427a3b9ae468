package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/mysillydreams/catalog-core/internal/catalog/domain"
	"github.com/mysillydreams/catalog-core/internal/database"
)

// MySQLCatalogItemRepository handles catalog item lookups for MySQL
type MySQLCatalogItemRepository struct {
	db *sql.DB
}

// NewMySQLCatalogItemRepository creates a new MySQLCatalogItemRepository
func NewMySQLCatalogItemRepository(db *sql.DB) *MySQLCatalogItemRepository {
	return &MySQLCatalogItemRepository{
		db: db,
	}
}

// Get retrieves a catalog item by id
func (r *MySQLCatalogItemRepository) Get(ctx context.Context, itemID uuid.UUID) (*domain.CatalogItem, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, sku, name, item_type FROM catalog_items WHERE id = ?`

	idBytes, err := itemID.MarshalBinary()
	if err != nil {
		return nil, err
	}

	var item domain.CatalogItem
	var rowID []byte
	err = querier.QueryRowContext(ctx, query, idBytes).
		Scan(&rowID, &item.SKU, &item.Name, &item.ItemType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}

	if err := item.ID.UnmarshalBinary(rowID); err != nil {
		return nil, err
	}

	return &item, nil
}

// GetByIDs retrieves catalog items for the given ids, keyed by id
func (r *MySQLCatalogItemRepository) GetByIDs(
	ctx context.Context,
	itemIDs []uuid.UUID,
) (map[uuid.UUID]*domain.CatalogItem, error) {
	items := make(map[uuid.UUID]*domain.CatalogItem, len(itemIDs))
	if len(itemIDs) == 0 {
		return items, nil
	}

	querier := database.GetTx(ctx, r.db)

	placeholders := make([]string, len(itemIDs))
	args := make([]any, len(itemIDs))
	for i, id := range itemIDs {
		idBytes, err := id.MarshalBinary()
		if err != nil {
			return nil, err
		}
		placeholders[i] = "?"
		args[i] = idBytes
	}

	query := `SELECT id, sku, name, item_type FROM catalog_items WHERE id IN (` +
		strings.Join(placeholders, ", ") + `)`

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		var item domain.CatalogItem
		var rowID []byte
		if err := rows.Scan(&rowID, &item.SKU, &item.Name, &item.ItemType); err != nil {
			return nil, err
		}
		if err := item.ID.UnmarshalBinary(rowID); err != nil {
			return nil, err
		}
		items[item.ID] = &item
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
