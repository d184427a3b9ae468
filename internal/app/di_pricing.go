package app

import (
	"fmt"

	pricingRepository "github.com/mysillydreams/catalog-core/internal/pricing/repository"
	pricingUsecase "github.com/mysillydreams/catalog-core/internal/pricing/usecase"
)

// PricingRuleRepository returns the pricing rule repository.
func (c *Container) PricingRuleRepository() (pricingUsecase.PricingRuleRepository, error) {
	var err error
	c.ruleRepoInit.Do(func() {
		c.ruleRepo, err = c.initPricingRuleRepository()
		if err != nil {
			c.initErrors["ruleRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["ruleRepo"]; exists {
		return nil, storedErr
	}
	return c.ruleRepo, nil
}

// PriceOverrideRepository returns the price override repository.
func (c *Container) PriceOverrideRepository() (pricingUsecase.PriceOverrideRepository, error) {
	var err error
	c.overrideRepoInit.Do(func() {
		c.overrideRepo, err = c.initPriceOverrideRepository()
		if err != nil {
			c.initErrors["overrideRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["overrideRepo"]; exists {
		return nil, storedErr
	}
	return c.overrideRepo, nil
}

// PricingUseCase returns the pricing use case wrapped with metrics recording.
func (c *Container) PricingUseCase() (pricingUsecase.PricingUseCase, error) {
	var err error
	c.pricingUseCaseInit.Do(func() {
		c.pricingUseCase, err = c.initPricingUseCase()
		if err != nil {
			c.initErrors["pricingUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["pricingUseCase"]; exists {
		return nil, storedErr
	}
	return c.pricingUseCase, nil
}

// initPricingRuleRepository creates the pricing rule repository for the
// configured driver.
func (c *Container) initPricingRuleRepository() (pricingUsecase.PricingRuleRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for pricing rule repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return pricingRepository.NewPostgreSQLPricingRuleRepository(db), nil
	case "mysql":
		return pricingRepository.NewMySQLPricingRuleRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initPriceOverrideRepository creates the price override repository for the
// configured driver.
func (c *Container) initPriceOverrideRepository() (pricingUsecase.PriceOverrideRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for price override repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return pricingRepository.NewPostgreSQLPriceOverrideRepository(db), nil
	case "mysql":
		return pricingRepository.NewMySQLPriceOverrideRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initPricingUseCase creates the pricing use case with all its dependencies.
func (c *Container) initPricingUseCase() (pricingUsecase.PricingUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for pricing use case: %w", err)
	}

	itemRepo, err := c.CatalogItemRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog item repository for pricing use case: %w", err)
	}

	ruleRepo, err := c.PricingRuleRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get pricing rule repository for pricing use case: %w", err)
	}

	overrideRepo, err := c.PriceOverrideRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get price override repository for pricing use case: %w", err)
	}

	appender, err := c.Appender()
	if err != nil {
		return nil, fmt.Errorf("failed to get appender for pricing use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for pricing use case: %w", err)
	}

	useCase := pricingUsecase.NewPricingUseCase(
		txManager,
		itemRepo,
		ruleRepo,
		overrideRepo,
		appender,
		c.mutationRetryPolicy(),
		c.config.TopicPricingEvents,
		c.Logger(),
	)

	return pricingUsecase.NewPricingUseCaseWithMetrics(useCase, businessMetrics), nil
}
