// Package repository provides data persistence implementations for inventory entities.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/mysillydreams/catalog-core/internal/database"
	apperrors "github.com/mysillydreams/catalog-core/internal/errors"
	"github.com/mysillydreams/catalog-core/internal/inventory/domain"
)

// PostgreSQLStockRepository handles stock level and ledger persistence for PostgreSQL
type PostgreSQLStockRepository struct {
	db *sql.DB
}

// NewPostgreSQLStockRepository creates a new PostgreSQLStockRepository
func NewPostgreSQLStockRepository(db *sql.DB) *PostgreSQLStockRepository {
	return &PostgreSQLStockRepository{
		db: db,
	}
}

// Get retrieves the stock level for an item
func (r *PostgreSQLStockRepository) Get(ctx context.Context, itemID uuid.UUID) (*domain.StockLevel, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT item_id, quantity_on_hand, reorder_level, version, updated_at
			  FROM stock_levels
			  WHERE item_id = $1`

	var level domain.StockLevel
	err := querier.QueryRowContext(ctx, query, itemID).
		Scan(&level.ItemID, &level.QuantityOnHand, &level.ReorderLevel, &level.Version, &level.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStockLevelNotFound
		}
		return nil, err
	}

	return &level, nil
}

// Create inserts a new stock level row at version 1
func (r *PostgreSQLStockRepository) Create(ctx context.Context, level *domain.StockLevel) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO stock_levels (item_id, quantity_on_hand, reorder_level, version, updated_at)
			  VALUES ($1, $2, $3, $4, NOW())`

	level.Version = 1
	_, err := querier.ExecContext(ctx, query,
		level.ItemID, level.QuantityOnHand, level.ReorderLevel, level.Version)

	return err
}

// UpdateWithVersion writes the stock level conditionally on the version the
// caller read. Zero rows affected means another writer committed first; the
// caller reloads and retries.
func (r *PostgreSQLStockRepository) UpdateWithVersion(ctx context.Context, level *domain.StockLevel) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE stock_levels
			  SET quantity_on_hand = $1, reorder_level = $2, version = version + 1, updated_at = NOW()
			  WHERE item_id = $3 AND version = $4`

	result, err := querier.ExecContext(ctx, query,
		level.QuantityOnHand, level.ReorderLevel, level.ItemID, level.Version)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrConcurrencyConflict
	}

	level.Version++
	return nil
}

// List retrieves stock levels ordered by item id with pagination
func (r *PostgreSQLStockRepository) List(ctx context.Context, offset, limit int) ([]*domain.StockLevel, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT item_id, quantity_on_hand, reorder_level, version, updated_at
			  FROM stock_levels
			  ORDER BY item_id
			  OFFSET $1 LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	return scanStockLevels(rows)
}

// ListBelowReorderLevel retrieves stock levels with on-hand quantity under the
// reorder threshold
func (r *PostgreSQLStockRepository) ListBelowReorderLevel(ctx context.Context) ([]*domain.StockLevel, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT item_id, quantity_on_hand, reorder_level, version, updated_at
			  FROM stock_levels
			  WHERE quantity_on_hand < reorder_level
			  ORDER BY item_id`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	return scanStockLevels(rows)
}

func scanStockLevels(rows *sql.Rows) ([]*domain.StockLevel, error) {
	var levels []*domain.StockLevel
	for rows.Next() {
		var level domain.StockLevel
		err := rows.Scan(&level.ItemID, &level.QuantityOnHand, &level.ReorderLevel,
			&level.Version, &level.UpdatedAt)
		if err != nil {
			return nil, err
		}
		levels = append(levels, &level)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return levels, nil
}

// CreateTransaction appends one row to the stock ledger
func (r *PostgreSQLStockRepository) CreateTransaction(ctx context.Context, tx *domain.StockTransaction) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO stock_transactions (id, item_id, transaction_type, quantity_changed,
	                                          quantity_before, quantity_after, reason, reference_id, occurred_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := querier.ExecContext(ctx, query, tx.ID, tx.ItemID, tx.TransactionType,
		tx.QuantityChanged, tx.QuantityBefore, tx.QuantityAfter, tx.Reason, tx.ReferenceID, tx.OccurredAt)

	return err
}

// ListTransactions retrieves ledger rows for an item, newest first
func (r *PostgreSQLStockRepository) ListTransactions(
	ctx context.Context,
	itemID uuid.UUID,
	offset, limit int,
) ([]*domain.StockTransaction, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, item_id, transaction_type, quantity_changed, quantity_before,
	                 quantity_after, reason, reference_id, occurred_at
			  FROM stock_transactions
			  WHERE item_id = $1
			  ORDER BY occurred_at DESC
			  OFFSET $2 LIMIT $3`

	rows, err := querier.QueryContext(ctx, query, itemID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var txs []*domain.StockTransaction
	for rows.Next() {
		var tx domain.StockTransaction
		err := rows.Scan(&tx.ID, &tx.ItemID, &tx.TransactionType, &tx.QuantityChanged,
			&tx.QuantityBefore, &tx.QuantityAfter, &tx.Reason, &tx.ReferenceID, &tx.OccurredAt)
		if err != nil {
			return nil, err
		}
		txs = append(txs, &tx)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return txs, nil
}
