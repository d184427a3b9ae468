package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mysillydreams/catalog-core/internal/database"
	outboxUsecase "github.com/mysillydreams/catalog-core/internal/outbox/usecase"
	pricingDomain "github.com/mysillydreams/catalog-core/internal/pricing/domain"
	"github.com/mysillydreams/catalog-core/internal/retry"
)

const (
	ruleAggregateType     = "PricingRule"
	overrideAggregateType = "PriceOverride"
)

// pricingUseCase implements the PricingUseCase interface.
type pricingUseCase struct {
	txManager    database.TxManager
	itemRepo     CatalogItemRepository
	ruleRepo     PricingRuleRepository
	overrideRepo PriceOverrideRepository
	appender     outboxUsecase.Appender
	retryPolicy  retry.Policy
	pricingTopic string
	logger       *slog.Logger
	now          func() time.Time
}

// NewPricingUseCase creates a new pricing use case instance with the provided dependencies.
func NewPricingUseCase(
	txManager database.TxManager,
	itemRepo CatalogItemRepository,
	ruleRepo PricingRuleRepository,
	overrideRepo PriceOverrideRepository,
	appender outboxUsecase.Appender,
	retryPolicy retry.Policy,
	pricingTopic string,
	logger *slog.Logger,
) PricingUseCase {
	return &pricingUseCase{
		txManager:    txManager,
		itemRepo:     itemRepo,
		ruleRepo:     ruleRepo,
		overrideRepo: overrideRepo,
		appender:     appender,
		retryPolicy:  retryPolicy,
		pricingTopic: pricingTopic,
		logger:       logger,
		now:          time.Now,
	}
}

// CreateRule validates and persists a new pricing rule and emits
// pricing.rule.created.
func (p *pricingUseCase) CreateRule(ctx context.Context, input RuleInput) (*pricingDomain.PricingRule, error) {
	if err := input.RuleType.ValidateParameters(input.Parameters); err != nil {
		return nil, err
	}

	var rule *pricingDomain.PricingRule
	err := p.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := p.itemRepo.Get(txCtx, input.ItemID); err != nil {
			return err
		}

		now := p.now().UTC()
		rule = &pricingDomain.PricingRule{
			ID:         uuid.Must(uuid.NewV7()),
			ItemID:     input.ItemID,
			RuleType:   input.RuleType,
			Parameters: input.Parameters,
			Enabled:    input.Enabled,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		if err := p.ruleRepo.Create(txCtx, rule); err != nil {
			return err
		}

		return p.appender.Append(txCtx, ruleAggregateType, rule.ID.String(),
			pricingDomain.EventTypeRuleCreated, p.pricingTopic, rule)
	})
	if err != nil {
		return nil, err
	}

	if p.logger != nil {
		p.logger.Info("pricing rule created",
			slog.String("rule_id", rule.ID.String()),
			slog.String("item_id", rule.ItemID.String()),
			slog.String("rule_type", string(rule.RuleType)),
		)
	}

	return rule, nil
}

// GetRule retrieves a pricing rule by id.
func (p *pricingUseCase) GetRule(ctx context.Context, ruleID uuid.UUID) (*pricingDomain.PricingRule, error) {
	return p.ruleRepo.Get(ctx, ruleID)
}

// ListRulesByItem retrieves the pricing rules configured for an item.
func (p *pricingUseCase) ListRulesByItem(ctx context.Context, itemID uuid.UUID) ([]*pricingDomain.PricingRule, error) {
	if _, err := p.itemRepo.Get(ctx, itemID); err != nil {
		return nil, err
	}
	return p.ruleRepo.ListByItem(ctx, itemID)
}

// UpdateRule replaces the parameters and enabled flag of an existing rule and
// emits pricing.rule.updated.
func (p *pricingUseCase) UpdateRule(
	ctx context.Context,
	ruleID uuid.UUID,
	input RuleInput,
) (*pricingDomain.PricingRule, error) {
	var rule *pricingDomain.PricingRule

	err := retry.Do(ctx, p.retryPolicy, func(ctx context.Context) error {
		return p.txManager.WithTx(ctx, func(txCtx context.Context) error {
			stored, err := p.ruleRepo.Get(txCtx, ruleID)
			if err != nil {
				return err
			}

			if stored.ItemID != input.ItemID || stored.RuleType != input.RuleType {
				return pricingDomain.ErrUnsupportedChange
			}
			if err := stored.RuleType.ValidateParameters(input.Parameters); err != nil {
				return err
			}

			stored.Parameters = input.Parameters
			stored.Enabled = input.Enabled
			stored.UpdatedAt = p.now().UTC()

			if err := p.ruleRepo.UpdateWithVersion(txCtx, stored); err != nil {
				return err
			}

			err = p.appender.Append(txCtx, ruleAggregateType, stored.ID.String(),
				pricingDomain.EventTypeRuleUpdated, p.pricingTopic, stored)
			if err != nil {
				return err
			}

			rule = stored
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return rule, nil
}

// DeleteRule emits pricing.rule.deleted with the final snapshot, then removes
// the rule, all in one transaction.
func (p *pricingUseCase) DeleteRule(ctx context.Context, ruleID uuid.UUID) error {
	return p.txManager.WithTx(ctx, func(txCtx context.Context) error {
		rule, err := p.ruleRepo.Get(txCtx, ruleID)
		if err != nil {
			return err
		}

		err = p.appender.Append(txCtx, ruleAggregateType, rule.ID.String(),
			pricingDomain.EventTypeRuleDeleted, p.pricingTopic, rule)
		if err != nil {
			return err
		}

		return p.ruleRepo.Delete(txCtx, ruleID)
	})
}

// CreateOverride validates and persists a new price override and emits
// price.override.created.
func (p *pricingUseCase) CreateOverride(ctx context.Context, input OverrideInput) (*pricingDomain.PriceOverride, error) {
	startsAt := input.StartsAt
	if startsAt.IsZero() {
		startsAt = p.now().UTC()
	}
	if input.EndsAt != nil && !startsAt.Before(*input.EndsAt) {
		return nil, pricingDomain.ErrInvalidTimeRange
	}

	var override *pricingDomain.PriceOverride
	err := p.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := p.itemRepo.Get(txCtx, input.ItemID); err != nil {
			return err
		}

		now := p.now().UTC()
		override = &pricingDomain.PriceOverride{
			ID:            uuid.Must(uuid.NewV7()),
			ItemID:        input.ItemID,
			OverridePrice: input.OverridePrice,
			StartsAt:      startsAt,
			EndsAt:        input.EndsAt,
			Enabled:       input.Enabled,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		if err := p.overrideRepo.Create(txCtx, override); err != nil {
			return err
		}

		return p.appender.Append(txCtx, overrideAggregateType, override.ID.String(),
			pricingDomain.EventTypeOverrideCreated, p.pricingTopic, override)
	})
	if err != nil {
		return nil, err
	}

	return override, nil
}

// GetOverride retrieves a price override by id.
func (p *pricingUseCase) GetOverride(ctx context.Context, overrideID uuid.UUID) (*pricingDomain.PriceOverride, error) {
	return p.overrideRepo.Get(ctx, overrideID)
}

// ListOverridesByItem retrieves all price overrides for an item.
func (p *pricingUseCase) ListOverridesByItem(ctx context.Context, itemID uuid.UUID) ([]*pricingDomain.PriceOverride, error) {
	if _, err := p.itemRepo.Get(ctx, itemID); err != nil {
		return nil, err
	}
	return p.overrideRepo.ListByItem(ctx, itemID)
}

// ListActiveOverrides retrieves the overrides currently in effect for an item.
func (p *pricingUseCase) ListActiveOverrides(ctx context.Context, itemID uuid.UUID) ([]*pricingDomain.PriceOverride, error) {
	if _, err := p.itemRepo.Get(ctx, itemID); err != nil {
		return nil, err
	}
	return p.overrideRepo.ListActiveByItem(ctx, itemID, p.now().UTC())
}

// UpdateOverride replaces the price, window and enabled flag of an existing
// override and emits price.override.updated.
func (p *pricingUseCase) UpdateOverride(
	ctx context.Context,
	overrideID uuid.UUID,
	input OverrideInput,
) (*pricingDomain.PriceOverride, error) {
	if input.StartsAt.IsZero() {
		return nil, pricingDomain.ErrInvalidTimeRange
	}
	if input.EndsAt != nil && !input.StartsAt.Before(*input.EndsAt) {
		return nil, pricingDomain.ErrInvalidTimeRange
	}

	var override *pricingDomain.PriceOverride

	err := retry.Do(ctx, p.retryPolicy, func(ctx context.Context) error {
		return p.txManager.WithTx(ctx, func(txCtx context.Context) error {
			stored, err := p.overrideRepo.Get(txCtx, overrideID)
			if err != nil {
				return err
			}

			if stored.ItemID != input.ItemID {
				return pricingDomain.ErrUnsupportedChange
			}

			stored.OverridePrice = input.OverridePrice
			stored.StartsAt = input.StartsAt
			stored.EndsAt = input.EndsAt
			stored.Enabled = input.Enabled
			stored.UpdatedAt = p.now().UTC()

			if err := p.overrideRepo.UpdateWithVersion(txCtx, stored); err != nil {
				return err
			}

			err = p.appender.Append(txCtx, overrideAggregateType, stored.ID.String(),
				pricingDomain.EventTypeOverrideUpdated, p.pricingTopic, stored)
			if err != nil {
				return err
			}

			override = stored
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return override, nil
}

// DeleteOverride emits price.override.deleted with the final snapshot, then
// removes the override, all in one transaction.
func (p *pricingUseCase) DeleteOverride(ctx context.Context, overrideID uuid.UUID) error {
	return p.txManager.WithTx(ctx, func(txCtx context.Context) error {
		override, err := p.overrideRepo.Get(txCtx, overrideID)
		if err != nil {
			return err
		}

		err = p.appender.Append(txCtx, overrideAggregateType, override.ID.String(),
			pricingDomain.EventTypeOverrideDeleted, p.pricingTopic, override)
		if err != nil {
			return err
		}

		return p.overrideRepo.Delete(txCtx, overrideID)
	})
}
