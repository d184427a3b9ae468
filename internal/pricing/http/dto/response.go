package dto

import (
	"time"

	pricingDomain "github.com/mysillydreams/catalog-core/internal/pricing/domain"
)

// PricingRuleResponse represents a pricing rule in API responses.
type PricingRuleResponse struct {
	ID         string         `json:"id"`
	ItemID     string         `json:"item_id"`
	RuleType   string         `json:"rule_type"`
	Parameters map[string]any `json:"parameters"`
	Enabled    bool           `json:"enabled"`
	Version    int64          `json:"version"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// PricingRuleListResponse represents a list of pricing rules.
type PricingRuleListResponse struct {
	Rules []PricingRuleResponse `json:"rules"`
}

// PriceOverrideResponse represents a price override in API responses.
type PriceOverrideResponse struct {
	ID            string     `json:"id"`
	ItemID        string     `json:"item_id"`
	OverridePrice float64    `json:"override_price"`
	StartsAt      time.Time  `json:"starts_at"`
	EndsAt        *time.Time `json:"ends_at,omitempty"`
	Enabled       bool       `json:"enabled"`
	Version       int64      `json:"version"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// PriceOverrideListResponse represents a list of price overrides.
type PriceOverrideListResponse struct {
	Overrides []PriceOverrideResponse `json:"overrides"`
}

// MapRuleToResponse converts a domain pricing rule to an API response.
func MapRuleToResponse(rule *pricingDomain.PricingRule) PricingRuleResponse {
	return PricingRuleResponse{
		ID:         rule.ID.String(),
		ItemID:     rule.ItemID.String(),
		RuleType:   string(rule.RuleType),
		Parameters: rule.Parameters,
		Enabled:    rule.Enabled,
		Version:    rule.Version,
		CreatedAt:  rule.CreatedAt,
		UpdatedAt:  rule.UpdatedAt,
	}
}

// MapRulesToListResponse converts domain pricing rules to a list response.
func MapRulesToListResponse(rules []*pricingDomain.PricingRule) PricingRuleListResponse {
	out := PricingRuleListResponse{
		Rules: make([]PricingRuleResponse, 0, len(rules)),
	}
	for _, rule := range rules {
		out.Rules = append(out.Rules, MapRuleToResponse(rule))
	}
	return out
}

// MapOverrideToResponse converts a domain price override to an API response.
func MapOverrideToResponse(override *pricingDomain.PriceOverride) PriceOverrideResponse {
	return PriceOverrideResponse{
		ID:            override.ID.String(),
		ItemID:        override.ItemID.String(),
		OverridePrice: override.OverridePrice,
		StartsAt:      override.StartsAt,
		EndsAt:        override.EndsAt,
		Enabled:       override.Enabled,
		Version:       override.Version,
		CreatedAt:     override.CreatedAt,
		UpdatedAt:     override.UpdatedAt,
	}
}

// MapOverridesToListResponse converts domain price overrides to a list response.
func MapOverridesToListResponse(overrides []*pricingDomain.PriceOverride) PriceOverrideListResponse {
	out := PriceOverrideListResponse{
		Overrides: make([]PriceOverrideResponse, 0, len(overrides)),
	}
	for _, override := range overrides {
		out.Overrides = append(out.Overrides, MapOverrideToResponse(override))
	}
	return out
}
