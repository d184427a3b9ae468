// Package usecase implements business logic orchestration for dynamic
// pricing. Rule and override mutations follow the same transactional shape as
// stock mutations: validate, conditional write, outbox append, retried under
// the optimistic concurrency policy.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	catalogDomain "github.com/mysillydreams/catalog-core/internal/catalog/domain"
	pricingDomain "github.com/mysillydreams/catalog-core/internal/pricing/domain"
)

// CatalogItemRepository defines the interface for catalog item lookups.
type CatalogItemRepository interface {
	Get(ctx context.Context, itemID uuid.UUID) (*catalogDomain.CatalogItem, error)
}

// PricingRuleRepository defines the interface for pricing rule persistence.
type PricingRuleRepository interface {
	Create(ctx context.Context, rule *pricingDomain.PricingRule) error
	Get(ctx context.Context, ruleID uuid.UUID) (*pricingDomain.PricingRule, error)
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]*pricingDomain.PricingRule, error)
	UpdateWithVersion(ctx context.Context, rule *pricingDomain.PricingRule) error
	Delete(ctx context.Context, ruleID uuid.UUID) error
}

// PriceOverrideRepository defines the interface for price override persistence.
type PriceOverrideRepository interface {
	Create(ctx context.Context, override *pricingDomain.PriceOverride) error
	Get(ctx context.Context, overrideID uuid.UUID) (*pricingDomain.PriceOverride, error)
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]*pricingDomain.PriceOverride, error)
	ListActiveByItem(ctx context.Context, itemID uuid.UUID, at time.Time) ([]*pricingDomain.PriceOverride, error)
	UpdateWithVersion(ctx context.Context, override *pricingDomain.PriceOverride) error
	Delete(ctx context.Context, overrideID uuid.UUID) error
}

// RuleInput carries the mutable and immutable fields of a pricing rule. On
// update the immutable fields must match the stored record.
type RuleInput struct {
	ItemID     uuid.UUID
	RuleType   pricingDomain.RuleType
	Parameters map[string]any
	Enabled    bool
}

// OverrideInput carries the mutable and immutable fields of a price override.
type OverrideInput struct {
	ItemID        uuid.UUID
	OverridePrice float64
	// StartsAt defaults to now when zero.
	StartsAt time.Time
	EndsAt   *time.Time
	Enabled  bool
}

// PricingUseCase defines the interface for pricing business logic.
type PricingUseCase interface {
	CreateRule(ctx context.Context, input RuleInput) (*pricingDomain.PricingRule, error)
	GetRule(ctx context.Context, ruleID uuid.UUID) (*pricingDomain.PricingRule, error)
	ListRulesByItem(ctx context.Context, itemID uuid.UUID) ([]*pricingDomain.PricingRule, error)
	// UpdateRule replaces the parameters and enabled flag. Changing the
	// item id or rule type is rejected.
	UpdateRule(ctx context.Context, ruleID uuid.UUID, input RuleInput) (*pricingDomain.PricingRule, error)
	DeleteRule(ctx context.Context, ruleID uuid.UUID) error

	CreateOverride(ctx context.Context, input OverrideInput) (*pricingDomain.PriceOverride, error)
	GetOverride(ctx context.Context, overrideID uuid.UUID) (*pricingDomain.PriceOverride, error)
	ListOverridesByItem(ctx context.Context, itemID uuid.UUID) ([]*pricingDomain.PriceOverride, error)
	ListActiveOverrides(ctx context.Context, itemID uuid.UUID) ([]*pricingDomain.PriceOverride, error)
	// UpdateOverride replaces price, window and enabled flag. Changing the
	// item id is rejected.
	UpdateOverride(ctx context.Context, overrideID uuid.UUID, input OverrideInput) (*pricingDomain.PriceOverride, error)
	DeleteOverride(ctx context.Context, overrideID uuid.UUID) error
}
