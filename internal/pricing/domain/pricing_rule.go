// Package domain defines the core domain models for dynamic pricing. Rules
// and overrides are versioned aggregates; every committed mutation emits an
// event through the outbox.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mysillydreams/catalog-core/internal/errors"
)

// RuleType identifies the pricing algorithm a rule configures.
type RuleType string

const (
	// RuleTypePercentOff applies a percentage discount. Requires a
	// discountPercentage parameter in (0, 100].
	RuleTypePercentOff RuleType = "PERCENT_OFF"
	// RuleTypeTimeOfDay applies between startHour and endHour. Both
	// parameters must be within [0, 23].
	RuleTypeTimeOfDay RuleType = "TIME_OF_DAY"
)

// PricingRule configures dynamic pricing for a single catalog item. ItemID
// and RuleType are fixed at creation; only parameters and the enabled flag
// may change afterwards.
type PricingRule struct {
	ID         uuid.UUID      `json:"id"`
	ItemID     uuid.UUID      `json:"item_id"`
	RuleType   RuleType       `json:"rule_type"`
	Parameters map[string]any `json:"parameters"`
	Enabled    bool           `json:"enabled"`
	Version    int64          `json:"version"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// ValidateParameters checks the parameter map against the rule type's schema.
func (r RuleType) ValidateParameters(parameters map[string]any) error {
	if parameters == nil {
		return errors.Wrap(errors.ErrInvalidInput, "rule parameters are required")
	}

	switch r {
	case RuleTypePercentOff:
		pct, ok := numberParam(parameters, "discountPercentage")
		if !ok {
			return errors.Wrap(errors.ErrInvalidInput,
				"discountPercentage parameter is required for PERCENT_OFF rules")
		}
		if pct <= 0 || pct > 100 {
			return errors.Wrap(errors.ErrInvalidInput, "discountPercentage must be between 0 and 100")
		}
	case RuleTypeTimeOfDay:
		start, okStart := numberParam(parameters, "startHour")
		end, okEnd := numberParam(parameters, "endHour")
		if !okStart || !okEnd {
			return errors.Wrap(errors.ErrInvalidInput,
				"startHour and endHour parameters are required for TIME_OF_DAY rules")
		}
		if start < 0 || start > 23 || end < 0 || end > 23 {
			return errors.Wrap(errors.ErrInvalidInput, "startHour and endHour must be between 0 and 23")
		}
	default:
		return errors.Wrap(errors.ErrInvalidInput, fmt.Sprintf("unsupported rule type: %s", r))
	}

	return nil
}

// numberParam reads a numeric parameter; JSON decoding yields float64, typed
// callers may pass int.
func numberParam(parameters map[string]any, key string) (float64, bool) {
	switch v := parameters[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
