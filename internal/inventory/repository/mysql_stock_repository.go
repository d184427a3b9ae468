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

// MySQLStockRepository handles stock level and ledger persistence for MySQL
type MySQLStockRepository struct {
	db *sql.DB
}

// NewMySQLStockRepository creates a new MySQLStockRepository
func NewMySQLStockRepository(db *sql.DB) *MySQLStockRepository {
	return &MySQLStockRepository{
		db: db,
	}
}

// Get retrieves the stock level for an item
func (r *MySQLStockRepository) Get(ctx context.Context, itemID uuid.UUID) (*domain.StockLevel, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT item_id, quantity_on_hand, reorder_level, version, updated_at
			  FROM stock_levels
			  WHERE item_id = ?`

	idBytes, err := itemID.MarshalBinary()
	if err != nil {
		return nil, err
	}

	var level domain.StockLevel
	var rowID []byte
	err = querier.QueryRowContext(ctx, query, idBytes).
		Scan(&rowID, &level.QuantityOnHand, &level.ReorderLevel, &level.Version, &level.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStockLevelNotFound
		}
		return nil, err
	}

	if err := level.ItemID.UnmarshalBinary(rowID); err != nil {
		return nil, err
	}

	return &level, nil
}

// Create inserts a new stock level row at version 1
func (r *MySQLStockRepository) Create(ctx context.Context, level *domain.StockLevel) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO stock_levels (item_id, quantity_on_hand, reorder_level, version, updated_at)
			  VALUES (?, ?, ?, ?, NOW())`

	idBytes, err := level.ItemID.MarshalBinary()
	if err != nil {
		return err
	}

	level.Version = 1
	_, err = querier.ExecContext(ctx, query,
		idBytes, level.QuantityOnHand, level.ReorderLevel, level.Version)

	return err
}

// UpdateWithVersion writes the stock level conditionally on the version the
// caller read. Zero rows affected means another writer committed first; the
// caller reloads and retries.
func (r *MySQLStockRepository) UpdateWithVersion(ctx context.Context, level *domain.StockLevel) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE stock_levels
			  SET quantity_on_hand = ?, reorder_level = ?, version = version + 1, updated_at = NOW()
			  WHERE item_id = ? AND version = ?`

	idBytes, err := level.ItemID.MarshalBinary()
	if err != nil {
		return err
	}

	result, err := querier.ExecContext(ctx, query,
		level.QuantityOnHand, level.ReorderLevel, idBytes, level.Version)
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
func (r *MySQLStockRepository) List(ctx context.Context, offset, limit int) ([]*domain.StockLevel, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT item_id, quantity_on_hand, reorder_level, version, updated_at
			  FROM stock_levels
			  ORDER BY item_id
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	return scanMySQLStockLevels(rows)
}

// ListBelowReorderLevel retrieves stock levels with on-hand quantity under the
// reorder threshold
func (r *MySQLStockRepository) ListBelowReorderLevel(ctx context.Context) ([]*domain.StockLevel, error) {
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

	return scanMySQLStockLevels(rows)
}

func scanMySQLStockLevels(rows *sql.Rows) ([]*domain.StockLevel, error) {
	var levels []*domain.StockLevel
	for rows.Next() {
		var level domain.StockLevel
		var rowID []byte

		err := rows.Scan(&rowID, &level.QuantityOnHand, &level.ReorderLevel,
			&level.Version, &level.UpdatedAt)
		if err != nil {
			return nil, err
		}

		if err := level.ItemID.UnmarshalBinary(rowID); err != nil {
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
func (r *MySQLStockRepository) CreateTransaction(ctx context.Context, tx *domain.StockTransaction) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO stock_transactions (id, item_id, transaction_type, quantity_changed,
	                                          quantity_before, quantity_after, reason, reference_id, occurred_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	idBytes, err := tx.ID.MarshalBinary()
	if err != nil {
		return err
	}
	itemIDBytes, err := tx.ItemID.MarshalBinary()
	if err != nil {
		return err
	}

	_, err = querier.ExecContext(ctx, query, idBytes, itemIDBytes, tx.TransactionType,
		tx.QuantityChanged, tx.QuantityBefore, tx.QuantityAfter, tx.Reason, tx.ReferenceID, tx.OccurredAt)

	return err
}

// ListTransactions retrieves ledger rows for an item, newest first
func (r *MySQLStockRepository) ListTransactions(
	ctx context.Context,
	itemID uuid.UUID,
	offset, limit int,
) ([]*domain.StockTransaction, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, item_id, transaction_type, quantity_changed, quantity_before,
	                 quantity_after, reason, reference_id, occurred_at
			  FROM stock_transactions
			  WHERE item_id = ?
			  ORDER BY occurred_at DESC
			  LIMIT ? OFFSET ?`

	itemIDBytes, err := itemID.MarshalBinary()
	if err != nil {
		return nil, err
	}

	rows, err := querier.QueryContext(ctx, query, itemIDBytes, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var txs []*domain.StockTransaction
	for rows.Next() {
		var tx domain.StockTransaction
		var rowID, rowItemID []byte

		err := rows.Scan(&rowID, &rowItemID, &tx.TransactionType, &tx.QuantityChanged,
			&tx.QuantityBefore, &tx.QuantityAfter, &tx.Reason, &tx.ReferenceID, &tx.OccurredAt)
		if err != nil {
			return nil, err
		}

		if err := tx.ID.UnmarshalBinary(rowID); err != nil {
			return nil, err
		}
		if err := tx.ItemID.UnmarshalBinary(rowItemID); err != nil {
			return nil, err
		}

		txs = append(txs, &tx)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return txs, nil
}
