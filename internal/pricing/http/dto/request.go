// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"

	customValidation "github.com/mysillydreams/catalog-core/internal/validation"
)

// RuleRequest contains the parameters for creating or updating a pricing rule.
// On update the item id and rule type must match the stored record.
type RuleRequest struct {
	ItemID     string         `json:"item_id"`
	RuleType   string         `json:"rule_type"`
	Parameters map[string]any `json:"parameters"`
	Enabled    bool           `json:"enabled"`
}

// Validate checks if the rule request is valid. Rule-type specific parameter
// checks are enforced by the use case.
func (r *RuleRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ItemID, validation.Required, customValidation.UUID),
		validation.Field(&r.RuleType, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Parameters, validation.Required),
	)
}

// OverrideRequest contains the parameters for creating or updating a price override.
type OverrideRequest struct {
	ItemID        string     `json:"item_id"`
	OverridePrice float64    `json:"override_price"`
	StartsAt      *time.Time `json:"starts_at"`
	EndsAt        *time.Time `json:"ends_at"`
	Enabled       bool       `json:"enabled"`
}

// Validate checks if the override request is valid. Window ordering is
// enforced by the use case.
func (r *OverrideRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ItemID, validation.Required, customValidation.UUID),
		validation.Field(&r.OverridePrice, validation.Required, validation.Min(0.0).Exclusive()),
	)
}
