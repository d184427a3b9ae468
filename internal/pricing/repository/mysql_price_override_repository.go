package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mysillydreams/catalog-core/internal/database"
	apperrors "github.com/mysillydreams/catalog-core/internal/errors"
	"github.com/mysillydreams/catalog-core/internal/pricing/domain"
)

// MySQLPriceOverrideRepository handles price override persistence for MySQL
type MySQLPriceOverrideRepository struct {
	db *sql.DB
}

// NewMySQLPriceOverrideRepository creates a new MySQLPriceOverrideRepository
func NewMySQLPriceOverrideRepository(db *sql.DB) *MySQLPriceOverrideRepository {
	return &MySQLPriceOverrideRepository{
		db: db,
	}
}

// Create inserts a new price override at version 1
func (r *MySQLPriceOverrideRepository) Create(ctx context.Context, override *domain.PriceOverride) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO price_overrides (id, item_id, override_price, starts_at, ends_at, enabled, version,
	                                       created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`

	idBytes, err := override.ID.MarshalBinary()
	if err != nil {
		return err
	}
	itemIDBytes, err := override.ItemID.MarshalBinary()
	if err != nil {
		return err
	}

	override.Version = 1
	_, err = querier.ExecContext(ctx, query, idBytes, itemIDBytes, override.OverridePrice,
		override.StartsAt, override.EndsAt, override.Enabled, override.Version)

	return err
}

// Get retrieves a price override by id
func (r *MySQLPriceOverrideRepository) Get(ctx context.Context, overrideID uuid.UUID) (*domain.PriceOverride, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, item_id, override_price, starts_at, ends_at, enabled, version, created_at, updated_at
			  FROM price_overrides
			  WHERE id = ?`

	idBytes, err := overrideID.MarshalBinary()
	if err != nil {
		return nil, err
	}

	override, err := scanMySQLPriceOverride(querier.QueryRowContext(ctx, query, idBytes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOverrideNotFound
		}
		return nil, err
	}

	return override, nil
}

// ListByItem retrieves price overrides for an item
func (r *MySQLPriceOverrideRepository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*domain.PriceOverride, error) {
	query := `SELECT id, item_id, override_price, starts_at, ends_at, enabled, version, created_at, updated_at
			  FROM price_overrides
			  WHERE item_id = ?
			  ORDER BY starts_at`

	itemIDBytes, err := itemID.MarshalBinary()
	if err != nil {
		return nil, err
	}

	return r.list(ctx, query, itemIDBytes)
}

// ListActiveByItem retrieves overrides in effect for an item at the given instant
func (r *MySQLPriceOverrideRepository) ListActiveByItem(
	ctx context.Context,
	itemID uuid.UUID,
	at time.Time,
) ([]*domain.PriceOverride, error) {
	query := `SELECT id, item_id, override_price, starts_at, ends_at, enabled, version, created_at, updated_at
			  FROM price_overrides
			  WHERE item_id = ?
			    AND enabled = TRUE
			    AND starts_at <= ?
			    AND (ends_at IS NULL OR ends_at > ?)
			  ORDER BY starts_at`

	itemIDBytes, err := itemID.MarshalBinary()
	if err != nil {
		return nil, err
	}

	return r.list(ctx, query, itemIDBytes, at, at)
}

func (r *MySQLPriceOverrideRepository) list(
	ctx context.Context,
	query string,
	args ...any,
) ([]*domain.PriceOverride, error) {
	querier := database.GetTx(ctx, r.db)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var overrides []*domain.PriceOverride
	for rows.Next() {
		override, err := scanMySQLPriceOverride(rows)
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, override)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return overrides, nil
}

// UpdateWithVersion writes the override conditionally on the version the
// caller read. Zero rows affected means another writer committed first.
func (r *MySQLPriceOverrideRepository) UpdateWithVersion(ctx context.Context, override *domain.PriceOverride) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE price_overrides
			  SET override_price = ?, starts_at = ?, ends_at = ?, enabled = ?,
			      version = version + 1, updated_at = NOW()
			  WHERE id = ? AND version = ?`

	idBytes, err := override.ID.MarshalBinary()
	if err != nil {
		return err
	}

	result, err := querier.ExecContext(ctx, query, override.OverridePrice, override.StartsAt,
		override.EndsAt, override.Enabled, idBytes, override.Version)
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

	override.Version++
	return nil
}

// Delete removes a price override
func (r *MySQLPriceOverrideRepository) Delete(ctx context.Context, overrideID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := overrideID.MarshalBinary()
	if err != nil {
		return err
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM price_overrides WHERE id = ?`, idBytes)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrOverrideNotFound
	}

	return nil
}

func scanMySQLPriceOverride(row rowScanner) (*domain.PriceOverride, error) {
	var override domain.PriceOverride
	var rowID, rowItemID []byte

	err := row.Scan(&rowID, &rowItemID, &override.OverridePrice, &override.StartsAt,
		&override.EndsAt, &override.Enabled, &override.Version, &override.CreatedAt, &override.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := override.ID.UnmarshalBinary(rowID); err != nil {
		return nil, err
	}
	if err := override.ItemID.UnmarshalBinary(rowItemID); err != nil {
		return nil, err
	}

	return &override, nil
}
