package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mysillydreams/catalog-core/internal/errors"
	"github.com/mysillydreams/catalog-core/internal/inventory/domain"
)

func TestPostgreSQLStockRepository_UpdateWithVersion(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	repo := NewPostgreSQLStockRepository(db)
	level := &domain.StockLevel{
		ItemID:         uuid.Must(uuid.NewV7()),
		QuantityOnHand: 45,
		ReorderLevel:   10,
		Version:        3,
	}

	dbMock.ExpectExec(`UPDATE stock_levels`).
		WithArgs(45, 10, level.ItemID, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.UpdateWithVersion(context.Background(), level)

	assert.NoError(t, err)
	assert.Equal(t, int64(4), level.Version)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestPostgreSQLStockRepository_UpdateWithVersion_Conflict(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	repo := NewPostgreSQLStockRepository(db)
	level := &domain.StockLevel{
		ItemID:         uuid.Must(uuid.NewV7()),
		QuantityOnHand: 45,
		Version:        3,
	}

	// Another writer already bumped the version; no rows match.
	dbMock.ExpectExec(`UPDATE stock_levels`).
		WithArgs(45, 0, level.ItemID, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateWithVersion(context.Background(), level)

	assert.ErrorIs(t, err, apperrors.ErrConcurrencyConflict)
	assert.Equal(t, int64(3), level.Version)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestPostgreSQLStockRepository_Get(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	repo := NewPostgreSQLStockRepository(db)
	itemID := uuid.Must(uuid.NewV7())
	updatedAt := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"item_id", "quantity_on_hand", "reorder_level", "version", "updated_at"}).
		AddRow(itemID, 50, 10, int64(3), updatedAt)
	dbMock.ExpectQuery(`SELECT item_id, quantity_on_hand`).
		WithArgs(itemID).
		WillReturnRows(rows)

	level, err := repo.Get(context.Background(), itemID)

	require.NoError(t, err)
	assert.Equal(t, itemID, level.ItemID)
	assert.Equal(t, 50, level.QuantityOnHand)
	assert.Equal(t, int64(3), level.Version)
}

func TestPostgreSQLStockRepository_Get_NotFound(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	repo := NewPostgreSQLStockRepository(db)
	itemID := uuid.Must(uuid.NewV7())

	dbMock.ExpectQuery(`SELECT item_id, quantity_on_hand`).
		WithArgs(itemID).
		WillReturnRows(sqlmock.NewRows([]string{"item_id", "quantity_on_hand", "reorder_level", "version", "updated_at"}))

	_, err = repo.Get(context.Background(), itemID)

	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}
