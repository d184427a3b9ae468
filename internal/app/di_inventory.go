package app

import (
	"fmt"

	catalogRepository "github.com/mysillydreams/catalog-core/internal/catalog/repository"
	inventoryRepository "github.com/mysillydreams/catalog-core/internal/inventory/repository"
	inventoryUsecase "github.com/mysillydreams/catalog-core/internal/inventory/usecase"
)

// CatalogItemRepository returns the catalog item lookup repository shared by
// the inventory and pricing use cases.
func (c *Container) CatalogItemRepository() (inventoryUsecase.CatalogItemRepository, error) {
	var err error
	c.catalogItemRepoInit.Do(func() {
		c.catalogItemRepo, err = c.initCatalogItemRepository()
		if err != nil {
			c.initErrors["catalogItemRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["catalogItemRepo"]; exists {
		return nil, storedErr
	}
	return c.catalogItemRepo, nil
}

// StockRepository returns the stock level repository.
func (c *Container) StockRepository() (inventoryUsecase.StockRepository, error) {
	var err error
	c.stockRepoInit.Do(func() {
		c.stockRepo, err = c.initStockRepository()
		if err != nil {
			c.initErrors["stockRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["stockRepo"]; exists {
		return nil, storedErr
	}
	return c.stockRepo, nil
}

// StockUseCase returns the stock use case wrapped with metrics recording.
func (c *Container) StockUseCase() (inventoryUsecase.StockUseCase, error) {
	var err error
	c.stockUseCaseInit.Do(func() {
		c.stockUseCase, err = c.initStockUseCase()
		if err != nil {
			c.initErrors["stockUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["stockUseCase"]; exists {
		return nil, storedErr
	}
	return c.stockUseCase, nil
}

// initCatalogItemRepository creates the catalog item repository for the
// configured driver.
func (c *Container) initCatalogItemRepository() (inventoryUsecase.CatalogItemRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for catalog item repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return catalogRepository.NewPostgreSQLCatalogItemRepository(db), nil
	case "mysql":
		return catalogRepository.NewMySQLCatalogItemRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initStockRepository creates the stock repository for the configured driver.
func (c *Container) initStockRepository() (inventoryUsecase.StockRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for stock repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return inventoryRepository.NewPostgreSQLStockRepository(db), nil
	case "mysql":
		return inventoryRepository.NewMySQLStockRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initStockUseCase creates the stock use case with all its dependencies.
func (c *Container) initStockUseCase() (inventoryUsecase.StockUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for stock use case: %w", err)
	}

	itemRepo, err := c.CatalogItemRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog item repository for stock use case: %w", err)
	}

	stockRepo, err := c.StockRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get stock repository for stock use case: %w", err)
	}

	appender, err := c.Appender()
	if err != nil {
		return nil, fmt.Errorf("failed to get appender for stock use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for stock use case: %w", err)
	}

	useCase := inventoryUsecase.NewStockUseCase(
		txManager,
		itemRepo,
		stockRepo,
		appender,
		c.mutationRetryPolicy(),
		c.config.TopicStockChanged,
		c.Logger(),
	)

	return inventoryUsecase.NewStockUseCaseWithMetrics(useCase, businessMetrics), nil
}
