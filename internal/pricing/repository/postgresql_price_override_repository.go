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

// PostgreSQLPriceOverrideRepository handles price override persistence for PostgreSQL
type PostgreSQLPriceOverrideRepository struct {
	db *sql.DB
}

// NewPostgreSQLPriceOverrideRepository creates a new PostgreSQLPriceOverrideRepository
func NewPostgreSQLPriceOverrideRepository(db *sql.DB) *PostgreSQLPriceOverrideRepository {
	return &PostgreSQLPriceOverrideRepository{
		db: db,
	}
}

// Create inserts a new price override at version 1
func (r *PostgreSQLPriceOverrideRepository) Create(ctx context.Context, override *domain.PriceOverride) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO price_overrides (id, item_id, override_price, starts_at, ends_at, enabled, version,
	                                       created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())`

	override.Version = 1
	_, err := querier.ExecContext(ctx, query, override.ID, override.ItemID, override.OverridePrice,
		override.StartsAt, override.EndsAt, override.Enabled, override.Version)

	return err
}

// Get retrieves a price override by id
func (r *PostgreSQLPriceOverrideRepository) Get(ctx context.Context, overrideID uuid.UUID) (*domain.PriceOverride, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, item_id, override_price, starts_at, ends_at, enabled, version, created_at, updated_at
			  FROM price_overrides
			  WHERE id = $1`

	override, err := scanPriceOverride(querier.QueryRowContext(ctx, query, overrideID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOverrideNotFound
		}
		return nil, err
	}

	return override, nil
}

// ListByItem retrieves price overrides for an item
func (r *PostgreSQLPriceOverrideRepository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*domain.PriceOverride, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, item_id, override_price, starts_at, ends_at, enabled, version, created_at, updated_at
			  FROM price_overrides
			  WHERE item_id = $1
			  ORDER BY starts_at`

	return r.list(ctx, querier, query, itemID)
}

// ListActiveByItem retrieves overrides in effect for an item at the given instant
func (r *PostgreSQLPriceOverrideRepository) ListActiveByItem(
	ctx context.Context,
	itemID uuid.UUID,
	at time.Time,
) ([]*domain.PriceOverride, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, item_id, override_price, starts_at, ends_at, enabled, version, created_at, updated_at
			  FROM price_overrides
			  WHERE item_id = $1
			    AND enabled = TRUE
			    AND starts_at <= $2
			    AND (ends_at IS NULL OR ends_at > $2)
			  ORDER BY starts_at`

	return r.list(ctx, querier, query, itemID, at)
}

func (r *PostgreSQLPriceOverrideRepository) list(
	ctx context.Context,
	querier database.Querier,
	query string,
	args ...any,
) ([]*domain.PriceOverride, error) {
	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var overrides []*domain.PriceOverride
	for rows.Next() {
		override, err := scanPriceOverride(rows)
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
func (r *PostgreSQLPriceOverrideRepository) UpdateWithVersion(ctx context.Context, override *domain.PriceOverride) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE price_overrides
			  SET override_price = $1, starts_at = $2, ends_at = $3, enabled = $4,
			      version = version + 1, updated_at = NOW()
			  WHERE id = $5 AND version = $6`

	result, err := querier.ExecContext(ctx, query, override.OverridePrice, override.StartsAt,
		override.EndsAt, override.Enabled, override.ID, override.Version)
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
func (r *PostgreSQLPriceOverrideRepository) Delete(ctx context.Context, overrideID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM price_overrides WHERE id = $1`, overrideID)
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

func scanPriceOverride(row rowScanner) (*domain.PriceOverride, error) {
	var override domain.PriceOverride

	err := row.Scan(&override.ID, &override.ItemID, &override.OverridePrice, &override.StartsAt,
		&override.EndsAt, &override.Enabled, &override.Version, &override.CreatedAt, &override.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &override, nil
}
