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

// MySQLPricingRuleRepository handles pricing rule persistence for MySQL
type MySQLPricingRuleRepository struct {
	db *sql.DB
}

// NewMySQLPricingRuleRepository creates a new MySQLPricingRuleRepository
func NewMySQLPricingRuleRepository(db *sql.DB) *MySQLPricingRuleRepository {
	return &MySQLPricingRuleRepository{
		db: db,
	}
}

// Create inserts a new pricing rule at version 1
func (r *MySQLPricingRuleRepository) Create(ctx context.Context, rule *domain.PricingRule) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO pricing_rules (id, item_id, rule_type, parameters, enabled, version, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())`

	idBytes, err := rule.ID.MarshalBinary()
	if err != nil {
		return err
	}
	itemIDBytes, err := rule.ItemID.MarshalBinary()
	if err != nil {
		return err
	}
	parameters, err := json.Marshal(rule.Parameters)
	if err != nil {
		return err
	}

	rule.Version = 1
	_, err = querier.ExecContext(ctx, query,
		idBytes, itemIDBytes, rule.RuleType, parameters, rule.Enabled, rule.Version)

	return err
}

// Get retrieves a pricing rule by id
func (r *MySQLPricingRuleRepository) Get(ctx context.Context, ruleID uuid.UUID) (*domain.PricingRule, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, item_id, rule_type, parameters, enabled, version, created_at, updated_at
			  FROM pricing_rules
			  WHERE id = ?`

	idBytes, err := ruleID.MarshalBinary()
	if err != nil {
		return nil, err
	}

	rule, err := scanMySQLPricingRule(querier.QueryRowContext(ctx, query, idBytes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRuleNotFound
		}
		return nil, err
	}

	return rule, nil
}

// ListByItem retrieves pricing rules for an item
func (r *MySQLPricingRuleRepository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*domain.PricingRule, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, item_id, rule_type, parameters, enabled, version, created_at, updated_at
			  FROM pricing_rules
			  WHERE item_id = ?
			  ORDER BY created_at`

	itemIDBytes, err := itemID.MarshalBinary()
	if err != nil {
		return nil, err
	}

	rows, err := querier.QueryContext(ctx, query, itemIDBytes)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var rules []*domain.PricingRule
	for rows.Next() {
		rule, err := scanMySQLPricingRule(rows)
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
func (r *MySQLPricingRuleRepository) UpdateWithVersion(ctx context.Context, rule *domain.PricingRule) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE pricing_rules
			  SET parameters = ?, enabled = ?, version = version + 1, updated_at = NOW()
			  WHERE id = ? AND version = ?`

	idBytes, err := rule.ID.MarshalBinary()
	if err != nil {
		return err
	}
	parameters, err := json.Marshal(rule.Parameters)
	if err != nil {
		return err
	}

	result, err := querier.ExecContext(ctx, query, parameters, rule.Enabled, idBytes, rule.Version)
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
func (r *MySQLPricingRuleRepository) Delete(ctx context.Context, ruleID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	idBytes, err := ruleID.MarshalBinary()
	if err != nil {
		return err
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM pricing_rules WHERE id = ?`, idBytes)
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

func scanMySQLPricingRule(row rowScanner) (*domain.PricingRule, error) {
	var rule domain.PricingRule
	var rowID, rowItemID, parameters []byte

	err := row.Scan(&rowID, &rowItemID, &rule.RuleType, &parameters,
		&rule.Enabled, &rule.Version, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := rule.ID.UnmarshalBinary(rowID); err != nil {
		return nil, err
	}
	if err := rule.ItemID.UnmarshalBinary(rowItemID); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(parameters, &rule.Parameters); err != nil {
		return nil, err
	}

	return &rule, nil
}
