package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mysillydreams/catalog-core/internal/metrics"
	pricingDomain "github.com/mysillydreams/catalog-core/internal/pricing/domain"
)

// pricingUseCaseWithMetrics decorates PricingUseCase with metrics instrumentation.
type pricingUseCaseWithMetrics struct {
	next    PricingUseCase
	metrics metrics.BusinessMetrics
}

// NewPricingUseCaseWithMetrics wraps a PricingUseCase with metrics recording.
func NewPricingUseCaseWithMetrics(useCase PricingUseCase, m metrics.BusinessMetrics) PricingUseCase {
	return &pricingUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (p *pricingUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	p.metrics.RecordOperation(ctx, "pricing", operation, status)
	p.metrics.RecordDuration(ctx, "pricing", operation, time.Since(start), status)
}

// CreateRule records metrics for rule creation.
func (p *pricingUseCaseWithMetrics) CreateRule(ctx context.Context, input RuleInput) (*pricingDomain.PricingRule, error) {
	start := time.Now()
	rule, err := p.next.CreateRule(ctx, input)
	p.record(ctx, "rule_create", start, err)
	return rule, err
}

// GetRule records metrics for rule reads.
func (p *pricingUseCaseWithMetrics) GetRule(ctx context.Context, ruleID uuid.UUID) (*pricingDomain.PricingRule, error) {
	start := time.Now()
	rule, err := p.next.GetRule(ctx, ruleID)
	p.record(ctx, "rule_get", start, err)
	return rule, err
}

// ListRulesByItem records metrics for rule listings.
func (p *pricingUseCaseWithMetrics) ListRulesByItem(ctx context.Context, itemID uuid.UUID) ([]*pricingDomain.PricingRule, error) {
	start := time.Now()
	rules, err := p.next.ListRulesByItem(ctx, itemID)
	p.record(ctx, "rule_list", start, err)
	return rules, err
}

// UpdateRule records metrics for rule updates.
func (p *pricingUseCaseWithMetrics) UpdateRule(
	ctx context.Context,
	ruleID uuid.UUID,
	input RuleInput,
) (*pricingDomain.PricingRule, error) {
	start := time.Now()
	rule, err := p.next.UpdateRule(ctx, ruleID, input)
	p.record(ctx, "rule_update", start, err)
	return rule, err
}

// DeleteRule records metrics for rule deletion.
func (p *pricingUseCaseWithMetrics) DeleteRule(ctx context.Context, ruleID uuid.UUID) error {
	start := time.Now()
	err := p.next.DeleteRule(ctx, ruleID)
	p.record(ctx, "rule_delete", start, err)
	return err
}

// CreateOverride records metrics for override creation.
func (p *pricingUseCaseWithMetrics) CreateOverride(ctx context.Context, input OverrideInput) (*pricingDomain.PriceOverride, error) {
	start := time.Now()
	override, err := p.next.CreateOverride(ctx, input)
	p.record(ctx, "override_create", start, err)
	return override, err
}

// GetOverride records metrics for override reads.
func (p *pricingUseCaseWithMetrics) GetOverride(ctx context.Context, overrideID uuid.UUID) (*pricingDomain.PriceOverride, error) {
	start := time.Now()
	override, err := p.next.GetOverride(ctx, overrideID)
	p.record(ctx, "override_get", start, err)
	return override, err
}

// ListOverridesByItem records metrics for override listings.
func (p *pricingUseCaseWithMetrics) ListOverridesByItem(ctx context.Context, itemID uuid.UUID) ([]*pricingDomain.PriceOverride, error) {
	start := time.Now()
	overrides, err := p.next.ListOverridesByItem(ctx, itemID)
	p.record(ctx, "override_list", start, err)
	return overrides, err
}

// ListActiveOverrides records metrics for active override listings.
func (p *pricingUseCaseWithMetrics) ListActiveOverrides(ctx context.Context, itemID uuid.UUID) ([]*pricingDomain.PriceOverride, error) {
	start := time.Now()
	overrides, err := p.next.ListActiveOverrides(ctx, itemID)
	p.record(ctx, "override_list_active", start, err)
	return overrides, err
}

// UpdateOverride records metrics for override updates.
func (p *pricingUseCaseWithMetrics) UpdateOverride(
	ctx context.Context,
	overrideID uuid.UUID,
	input OverrideInput,
) (*pricingDomain.PriceOverride, error) {
	start := time.Now()
	override, err := p.next.UpdateOverride(ctx, overrideID, input)
	p.record(ctx, "override_update", start, err)
	return override, err
}

// DeleteOverride records metrics for override deletion.
func (p *pricingUseCaseWithMetrics) DeleteOverride(ctx context.Context, overrideID uuid.UUID) error {
	start := time.Now()
	err := p.next.DeleteOverride(ctx, overrideID)
	p.record(ctx, "override_delete", start, err)
	return err
}
