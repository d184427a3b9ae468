// Package repository provides data persistence implementations for pricing entities.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/mysillydreams/catalog-core/internal/database"
	apperrors "github.com/mysillydreams/catalog-core/internal/errors"
	"github.com/mysillydreams/catalog-core/internal/pricing/domain"
)

// PostgreSQLPricingRuleRepository handles pricing rule persistence for PostgreSQL
type PostgreSQLPricingRuleRepository struct {
	db *sql.DB
}

// NewPostgreSQLPricingRuleRepository creates a new PostgreSQLPricingRuleRepository
func NewPostgreSQLPricingRuleRepository(db *sql.DB) *PostgreSQLPricingRuleRepository {
	return &PostgreSQLPricingRuleRepository{
		db: db,
	}
}

// Create inserts a new pricing rule at version 1
func (r *PostgreSQLPricingRuleRepository) Create(ctx context.Context, rule *domain.PricingRule) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO pricing_rules (id, item_id, rule_type, parameters, enabled, version, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`

	parameters, err := json.Marshal(rule.Parameters)
	if err != nil {
		return err
	}

	rule.Version = 1
	_, err = querier.ExecContext(ctx, query,
		rule.ID, rule.ItemID, rule.RuleType, parameters, rule.Enabled, rule.Version)

	return err
}

// Get retrieves a pricing rule by id
func (r *PostgreSQLPricingRuleRepository) Get(ctx context.Context, ruleID uuid.UUID) (*domain.PricingRule, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, item_id, rule_type, parameters, enabled, version, created_at, updated_at
			  FROM pricing_rules
			  WHERE id = $1`

	rule, err := scanPricingRule(querier.QueryRowContext(ctx, query, ruleID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRuleNotFound
		}
		return nil, err
	}

	return rule, nil
}

// ListByItem retrieves pricing rules for an item
func (r *PostgreSQLPricingRuleRepository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*domain.PricingRule, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, item_id, rule_type, parameters, enabled, version, created_at, updated_at
			  FROM pricing_rules
			  WHERE item_id = $1
			  ORDER BY created_at`

	rows, err := querier.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var rules []*domain.PricingRule
	for rows.Next() {
		rule, err := scanPricingRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rules, nil
}

// UpdateWithVersion writes the rule conditionally on the version the caller
// read. Zero rows affected means another writer committed first.
func (r *PostgreSQLPricingRuleRepository) UpdateWithVersion(ctx context.Context, rule *domain.PricingRule) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE pricing_rules
			  SET parameters = $1, enabled = $2, version = version + 1, updated_at = NOW()
			  WHERE id = $3 AND version = $4`

	parameters, err := json.Marshal(rule.Parameters)
	if err != nil {
		return err
	}

	result, err := querier.ExecContext(ctx, query, parameters, rule.Enabled, rule.ID, rule.Version)
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

	rule.Version++
	return nil
}

// Delete removes a pricing rule
func (r *PostgreSQLPricingRuleRepository) Delete(ctx context.Context, ruleID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM pricing_rules WHERE id = $1`, ruleID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrRuleNotFound
	}

	return nil
}

// rowScanner covers sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPricingRule(row rowScanner) (*domain.PricingRule, error) {
	var rule domain.PricingRule
	var parameters []byte

	err := row.Scan(&rule.ID, &rule.ItemID, &rule.RuleType, &parameters,
		&rule.Enabled, &rule.Version, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(parameters, &rule.Parameters); err != nil {
		return nil, err
	}

	return &rule, nil
}
