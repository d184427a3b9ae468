package app

import (
	"fmt"

	"github.com/mysillydreams/catalog-core/internal/broker"
	"github.com/mysillydreams/catalog-core/internal/events"
	inventoryDomain "github.com/mysillydreams/catalog-core/internal/inventory/domain"
	outboxRepository "github.com/mysillydreams/catalog-core/internal/outbox/repository"
	outboxUsecase "github.com/mysillydreams/catalog-core/internal/outbox/usecase"
	pricingDomain "github.com/mysillydreams/catalog-core/internal/pricing/domain"
)

// EventRegistry returns the event codec registry with all known event types
// registered.
func (c *Container) EventRegistry() *events.Registry {
	c.eventRegistryInit.Do(func() {
		c.eventRegistry = c.initEventRegistry()
	})
	return c.eventRegistry
}

// OutboxRepository returns the outbox event repository.
func (c *Container) OutboxRepository() (outboxUsecase.OutboxEventRepository, error) {
	var err error
	c.outboxRepoInit.Do(func() {
		c.outboxRepo, err = c.initOutboxRepository()
		if err != nil {
			c.initErrors["outboxRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["outboxRepo"]; exists {
		return nil, storedErr
	}
	return c.outboxRepo, nil
}

// Appender returns the outbox appender used by use cases to stage events.
func (c *Container) Appender() (outboxUsecase.Appender, error) {
	var err error
	c.appenderInit.Do(func() {
		c.appender, err = c.initAppender()
		if err != nil {
			c.initErrors["appender"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["appender"]; exists {
		return nil, storedErr
	}
	return c.appender, nil
}

// Publisher returns the Kafka publisher.
func (c *Container) Publisher() (*broker.KafkaPublisher, error) {
	var err error
	c.publisherInit.Do(func() {
		c.publisher, err = c.initPublisher()
		if err != nil {
			c.initErrors["publisher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["publisher"]; exists {
		return nil, storedErr
	}
	return c.publisher, nil
}

// OutboxRelay returns the outbox relay worker.
func (c *Container) OutboxRelay() (*outboxUsecase.Relay, error) {
	var err error
	c.outboxRelayInit.Do(func() {
		c.outboxRelay, err = c.initOutboxRelay()
		if err != nil {
			c.initErrors["outboxRelay"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["outboxRelay"]; exists {
		return nil, storedErr
	}
	return c.outboxRelay, nil
}

// initEventRegistry registers a codec per event type so the outbox appender
// serializes payloads with a known schema.
func (c *Container) initEventRegistry() *events.Registry {
	registry := events.NewRegistry()

	registry.Register(inventoryDomain.EventTypeStockLevelChanged, events.JSONCodec[inventoryDomain.StockLevelChangedEvent]())

	registry.Register(pricingDomain.EventTypeRuleCreated, events.JSONCodec[pricingDomain.PricingRule]())
	registry.Register(pricingDomain.EventTypeRuleUpdated, events.JSONCodec[pricingDomain.PricingRule]())
	registry.Register(pricingDomain.EventTypeRuleDeleted, events.JSONCodec[pricingDomain.PricingRule]())

	registry.Register(pricingDomain.EventTypeOverrideCreated, events.JSONCodec[pricingDomain.PriceOverride]())
	registry.Register(pricingDomain.EventTypeOverrideUpdated, events.JSONCodec[pricingDomain.PriceOverride]())
	registry.Register(pricingDomain.EventTypeOverrideDeleted, events.JSONCodec[pricingDomain.PriceOverride]())

	return registry
}

// initOutboxRepository creates the outbox repository for the configured driver.
func (c *Container) initOutboxRepository() (outboxUsecase.OutboxEventRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for outbox repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return outboxRepository.NewPostgreSQLOutboxEventRepository(db), nil
	case "mysql":
		return outboxRepository.NewMySQLOutboxEventRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initAppender creates the outbox appender.
func (c *Container) initAppender() (outboxUsecase.Appender, error) {
	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for appender: %w", err)
	}
	return outboxUsecase.NewAppender(outboxRepo, c.EventRegistry()), nil
}

// initPublisher creates the Kafka publisher.
func (c *Container) initPublisher() (*broker.KafkaPublisher, error) {
	if len(c.config.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers configured")
	}

	return broker.NewKafkaPublisher(broker.Config{
		Brokers:        c.config.KafkaBrokers,
		PublishTimeout: c.config.KafkaPublishTimeout,
	}, c.Logger()), nil
}

// initOutboxRelay creates the outbox relay worker.
func (c *Container) initOutboxRelay() (*outboxUsecase.Relay, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for outbox relay: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for outbox relay: %w", err)
	}

	publisher, err := c.Publisher()
	if err != nil {
		return nil, fmt.Errorf("failed to get publisher for outbox relay: %w", err)
	}

	relayConfig := outboxUsecase.Config{
		PollInterval:    c.config.OutboxPollInterval,
		InitialDelay:    c.config.OutboxInitialDelay,
		BatchSize:       c.config.OutboxBatchSize,
		MaxAttempts:     c.config.OutboxMaxAttempts,
		RetryDelay:      c.config.OutboxRetryDelay,
		Retention:       c.config.OutboxRetention,
		CleanupInterval: c.config.OutboxCleanupInterval,
	}

	return outboxUsecase.NewRelay(relayConfig, txManager, outboxRepo, publisher, c.Logger()), nil
}
