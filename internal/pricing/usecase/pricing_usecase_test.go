package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	catalogDomain "github.com/mysillydreams/catalog-core/internal/catalog/domain"
	apperrors "github.com/mysillydreams/catalog-core/internal/errors"
	pricingDomain "github.com/mysillydreams/catalog-core/internal/pricing/domain"
	"github.com/mysillydreams/catalog-core/internal/retry"
)

// MockTxManager is a mock implementation of database.TxManager that executes
// the given function without a real transaction.
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

// MockCatalogItemRepository is a mock implementation of CatalogItemRepository
type MockCatalogItemRepository struct {
	mock.Mock
}

func (m *MockCatalogItemRepository) Get(ctx context.Context, itemID uuid.UUID) (*catalogDomain.CatalogItem, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogDomain.CatalogItem), args.Error(1)
}

// MockPricingRuleRepository is a mock implementation of PricingRuleRepository
type MockPricingRuleRepository struct {
	mock.Mock
}

func (m *MockPricingRuleRepository) Create(ctx context.Context, rule *pricingDomain.PricingRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockPricingRuleRepository) Get(ctx context.Context, ruleID uuid.UUID) (*pricingDomain.PricingRule, error) {
	args := m.Called(ctx, ruleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricingDomain.PricingRule), args.Error(1)
}

func (m *MockPricingRuleRepository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*pricingDomain.PricingRule, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pricingDomain.PricingRule), args.Error(1)
}

func (m *MockPricingRuleRepository) UpdateWithVersion(ctx context.Context, rule *pricingDomain.PricingRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockPricingRuleRepository) Delete(ctx context.Context, ruleID uuid.UUID) error {
	args := m.Called(ctx, ruleID)
	return args.Error(0)
}

// MockPriceOverrideRepository is a mock implementation of PriceOverrideRepository
type MockPriceOverrideRepository struct {
	mock.Mock
}

func (m *MockPriceOverrideRepository) Create(ctx context.Context, override *pricingDomain.PriceOverride) error {
	args := m.Called(ctx, override)
	return args.Error(0)
}

func (m *MockPriceOverrideRepository) Get(ctx context.Context, overrideID uuid.UUID) (*pricingDomain.PriceOverride, error) {
	args := m.Called(ctx, overrideID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricingDomain.PriceOverride), args.Error(1)
}

func (m *MockPriceOverrideRepository) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*pricingDomain.PriceOverride, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pricingDomain.PriceOverride), args.Error(1)
}

func (m *MockPriceOverrideRepository) ListActiveByItem(
	ctx context.Context,
	itemID uuid.UUID,
	at time.Time,
) ([]*pricingDomain.PriceOverride, error) {
	args := m.Called(ctx, itemID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*pricingDomain.PriceOverride), args.Error(1)
}

func (m *MockPriceOverrideRepository) UpdateWithVersion(ctx context.Context, override *pricingDomain.PriceOverride) error {
	args := m.Called(ctx, override)
	return args.Error(0)
}

func (m *MockPriceOverrideRepository) Delete(ctx context.Context, overrideID uuid.UUID) error {
	args := m.Called(ctx, overrideID)
	return args.Error(0)
}

// MockAppender is a mock implementation of the outbox Appender
type MockAppender struct {
	mock.Mock
}

func (m *MockAppender) Append(
	ctx context.Context,
	aggregateType, aggregateID, eventType, topic string,
	payload any,
) error {
	args := m.Called(ctx, aggregateType, aggregateID, eventType, topic, payload)
	return args.Error(0)
}

type pricingFixture struct {
	txManager    *MockTxManager
	itemRepo     *MockCatalogItemRepository
	ruleRepo     *MockPricingRuleRepository
	overrideRepo *MockPriceOverrideRepository
	appender     *MockAppender
	useCase      PricingUseCase
	itemID       uuid.UUID
}

func newPricingFixture() *pricingFixture {
	f := &pricingFixture{
		txManager:    &MockTxManager{},
		itemRepo:     &MockCatalogItemRepository{},
		ruleRepo:     &MockPricingRuleRepository{},
		overrideRepo: &MockPriceOverrideRepository{},
		appender:     &MockAppender{},
		itemID:       uuid.Must(uuid.NewV7()),
	}

	policy := retry.Policy{Attempts: 3, BaseDelay: time.Millisecond, Multiplier: 2.0}
	f.useCase = NewPricingUseCase(f.txManager, f.itemRepo, f.ruleRepo, f.overrideRepo,
		f.appender, policy, "catalog.pricing.events", nil)

	return f
}

func (f *pricingFixture) expectItem() {
	f.itemRepo.On("Get", mock.Anything, f.itemID).Return(&catalogDomain.CatalogItem{
		ID:       f.itemID,
		SKU:      "SKU-001",
		ItemType: catalogDomain.ItemTypeProduct,
	}, nil)
}

func percentOffParams(pct float64) map[string]any {
	return map[string]any{"discountPercentage": pct}
}

func TestPricingUseCase_CreateRule(t *testing.T) {
	f := newPricingFixture()
	f.expectItem()

	f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
	f.ruleRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *pricingDomain.PricingRule) bool {
		return r.ItemID == f.itemID && r.RuleType == pricingDomain.RuleTypePercentOff && r.Enabled
	})).Return(nil)
	f.appender.On("Append", mock.Anything, "PricingRule", mock.Anything,
		"pricing.rule.created", "catalog.pricing.events", mock.Anything).Return(nil)

	rule, err := f.useCase.CreateRule(context.Background(), RuleInput{
		ItemID:     f.itemID,
		RuleType:   pricingDomain.RuleTypePercentOff,
		Parameters: percentOffParams(15),
		Enabled:    true,
	})

	require.NoError(t, err)
	assert.Equal(t, f.itemID, rule.ItemID)
	f.ruleRepo.AssertExpectations(t)
	f.appender.AssertExpectations(t)
}

func TestPricingUseCase_CreateRule_InvalidParameters(t *testing.T) {
	tests := []struct {
		name       string
		ruleType   pricingDomain.RuleType
		parameters map[string]any
	}{
		{"nil parameters", pricingDomain.RuleTypePercentOff, nil},
		{"missing discount", pricingDomain.RuleTypePercentOff, map[string]any{}},
		{"discount over 100", pricingDomain.RuleTypePercentOff, percentOffParams(150)},
		{"discount zero", pricingDomain.RuleTypePercentOff, percentOffParams(0)},
		{"missing hours", pricingDomain.RuleTypeTimeOfDay, map[string]any{"startHour": 9}},
		{"hour out of range", pricingDomain.RuleTypeTimeOfDay, map[string]any{"startHour": 9, "endHour": 24}},
		{"unknown rule type", "BOGO", map[string]any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPricingFixture()

			_, err := f.useCase.CreateRule(context.Background(), RuleInput{
				ItemID:     f.itemID,
				RuleType:   tt.ruleType,
				Parameters: tt.parameters,
			})

			assert.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
			f.ruleRepo.AssertNotCalled(t, "Create")
		})
	}
}

func TestPricingUseCase_UpdateRule(t *testing.T) {
	f := newPricingFixture()
	ruleID := uuid.Must(uuid.NewV7())

	f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
	f.ruleRepo.On("Get", mock.Anything, ruleID).Return(&pricingDomain.PricingRule{
		ID:         ruleID,
		ItemID:     f.itemID,
		RuleType:   pricingDomain.RuleTypePercentOff,
		Parameters: percentOffParams(10),
		Enabled:    true,
		Version:    2,
	}, nil)
	f.ruleRepo.On("UpdateWithVersion", mock.Anything, mock.MatchedBy(func(r *pricingDomain.PricingRule) bool {
		return r.Parameters["discountPercentage"] == float64(25) && !r.Enabled
	})).Return(nil)
	f.appender.On("Append", mock.Anything, "PricingRule", ruleID.String(),
		"pricing.rule.updated", "catalog.pricing.events", mock.Anything).Return(nil)

	rule, err := f.useCase.UpdateRule(context.Background(), ruleID, RuleInput{
		ItemID:     f.itemID,
		RuleType:   pricingDomain.RuleTypePercentOff,
		Parameters: percentOffParams(25),
		Enabled:    false,
	})

	require.NoError(t, err)
	assert.False(t, rule.Enabled)
	f.ruleRepo.AssertExpectations(t)
	f.appender.AssertExpectations(t)
}

func TestPricingUseCase_UpdateRule_RejectsItemChange(t *testing.T) {
	f := newPricingFixture()
	ruleID := uuid.Must(uuid.NewV7())

	f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
	f.ruleRepo.On("Get", mock.Anything, ruleID).Return(&pricingDomain.PricingRule{
		ID:       ruleID,
		ItemID:   f.itemID,
		RuleType: pricingDomain.RuleTypePercentOff,
		Version:  1,
	}, nil)

	_, err := f.useCase.UpdateRule(context.Background(), ruleID, RuleInput{
		ItemID:     uuid.Must(uuid.NewV7()),
		RuleType:   pricingDomain.RuleTypePercentOff,
		Parameters: percentOffParams(25),
	})

	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidOperation))
	f.ruleRepo.AssertNotCalled(t, "UpdateWithVersion")
	f.appender.AssertNotCalled(t, "Append")
}

func TestPricingUseCase_UpdateRule_RejectsRuleTypeChange(t *testing.T) {
	f := newPricingFixture()
	ruleID := uuid.Must(uuid.NewV7())

	f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
	f.ruleRepo.On("Get", mock.Anything, ruleID).Return(&pricingDomain.PricingRule{
		ID:       ruleID,
		ItemID:   f.itemID,
		RuleType: pricingDomain.RuleTypePercentOff,
		Version:  1,
	}, nil)

	_, err := f.useCase.UpdateRule(context.Background(), ruleID, RuleInput{
		ItemID:     f.itemID,
		RuleType:   pricingDomain.RuleTypeTimeOfDay,
		Parameters: map[string]any{"startHour": 9, "endHour": 17},
	})

	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidOperation))
	f.ruleRepo.AssertNotCalled(t, "UpdateWithVersion")
}

func TestPricingUseCase_UpdateRule_RetriesOnVersionConflict(t *testing.T) {
	f := newPricingFixture()
	ruleID := uuid.Must(uuid.NewV7())

	storedRule := func(version int64) *pricingDomain.PricingRule {
		return &pricingDomain.PricingRule{
			ID:         ruleID,
			ItemID:     f.itemID,
			RuleType:   pricingDomain.RuleTypePercentOff,
			Parameters: percentOffParams(10),
			Version:    version,
		}
	}

	f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
	f.ruleRepo.On("Get", mock.Anything, ruleID).Return(storedRule(1), nil).Once()
	f.ruleRepo.On("Get", mock.Anything, ruleID).Return(storedRule(2), nil).Once()
	f.ruleRepo.On("UpdateWithVersion", mock.Anything, mock.Anything).
		Return(apperrors.ErrConcurrencyConflict).Once()
	f.ruleRepo.On("UpdateWithVersion", mock.Anything, mock.Anything).Return(nil).Once()
	f.appender.On("Append", mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).Return(nil)

	rule, err := f.useCase.UpdateRule(context.Background(), ruleID, RuleInput{
		ItemID:     f.itemID,
		RuleType:   pricingDomain.RuleTypePercentOff,
		Parameters: percentOffParams(25),
		Enabled:    true,
	})

	require.NoError(t, err)
	assert.Equal(t, float64(25), rule.Parameters["discountPercentage"])
	f.ruleRepo.AssertExpectations(t)
}

func TestPricingUseCase_DeleteRule_EmitsEventBeforeRemoval(t *testing.T) {
	f := newPricingFixture()
	ruleID := uuid.Must(uuid.NewV7())

	rule := &pricingDomain.PricingRule{
		ID:       ruleID,
		ItemID:   f.itemID,
		RuleType: pricingDomain.RuleTypePercentOff,
		Version:  3,
	}

	f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
	f.ruleRepo.On("Get", mock.Anything, ruleID).Return(rule, nil)
	f.appender.On("Append", mock.Anything, "PricingRule", ruleID.String(),
		"pricing.rule.deleted", "catalog.pricing.events", rule).Return(nil)
	f.ruleRepo.On("Delete", mock.Anything, ruleID).Return(nil)

	err := f.useCase.DeleteRule(context.Background(), ruleID)

	assert.NoError(t, err)
	f.ruleRepo.AssertExpectations(t)
	f.appender.AssertExpectations(t)
}

func TestPricingUseCase_CreateOverride(t *testing.T) {
	f := newPricingFixture()
	f.expectItem()

	endsAt := time.Now().Add(24 * time.Hour).UTC()

	f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
	f.overrideRepo.On("Create", mock.Anything, mock.MatchedBy(func(o *pricingDomain.PriceOverride) bool {
		return o.ItemID == f.itemID && o.OverridePrice == 9.99 && !o.StartsAt.IsZero()
	})).Return(nil)
	f.appender.On("Append", mock.Anything, "PriceOverride", mock.Anything,
		"price.override.created", "catalog.pricing.events", mock.Anything).Return(nil)

	override, err := f.useCase.CreateOverride(context.Background(), OverrideInput{
		ItemID:        f.itemID,
		OverridePrice: 9.99,
		EndsAt:        &endsAt,
		Enabled:       true,
	})

	require.NoError(t, err)
	assert.Equal(t, 9.99, override.OverridePrice)
	f.overrideRepo.AssertExpectations(t)
}

func TestPricingUseCase_CreateOverride_InvalidTimeRange(t *testing.T) {
	f := newPricingFixture()

	startsAt := time.Now().UTC()
	endsAt := startsAt.Add(-time.Hour)

	_, err := f.useCase.CreateOverride(context.Background(), OverrideInput{
		ItemID:        f.itemID,
		OverridePrice: 9.99,
		StartsAt:      startsAt,
		EndsAt:        &endsAt,
	})

	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	f.overrideRepo.AssertNotCalled(t, "Create")
}

func TestPricingUseCase_UpdateOverride_RejectsItemChange(t *testing.T) {
	f := newPricingFixture()
	overrideID := uuid.Must(uuid.NewV7())

	f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
	f.overrideRepo.On("Get", mock.Anything, overrideID).Return(&pricingDomain.PriceOverride{
		ID:       overrideID,
		ItemID:   f.itemID,
		StartsAt: time.Now().UTC(),
		Version:  1,
	}, nil)

	_, err := f.useCase.UpdateOverride(context.Background(), overrideID, OverrideInput{
		ItemID:        uuid.Must(uuid.NewV7()),
		OverridePrice: 5,
		StartsAt:      time.Now().UTC(),
	})

	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidOperation))
	f.overrideRepo.AssertNotCalled(t, "UpdateWithVersion")
}

func TestPricingUseCase_DeleteOverride_EmitsEventBeforeRemoval(t *testing.T) {
	f := newPricingFixture()
	overrideID := uuid.Must(uuid.NewV7())

	override := &pricingDomain.PriceOverride{
		ID:       overrideID,
		ItemID:   f.itemID,
		StartsAt: time.Now().UTC(),
		Version:  2,
	}

	f.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil)
	f.overrideRepo.On("Get", mock.Anything, overrideID).Return(override, nil)
	f.appender.On("Append", mock.Anything, "PriceOverride", overrideID.String(),
		"price.override.deleted", "catalog.pricing.events", override).Return(nil)
	f.overrideRepo.On("Delete", mock.Anything, overrideID).Return(nil)

	err := f.useCase.DeleteOverride(context.Background(), overrideID)

	assert.NoError(t, err)
	f.overrideRepo.AssertExpectations(t)
	f.appender.AssertExpectations(t)
}

func TestPriceOverride_ActiveAt(t *testing.T) {
	now := time.Now().UTC()
	endsAt := now.Add(time.Hour)

	override := &pricingDomain.PriceOverride{
		StartsAt: now.Add(-time.Hour),
		EndsAt:   &endsAt,
		Enabled:  true,
	}

	assert.True(t, override.ActiveAt(now))
	assert.False(t, override.ActiveAt(now.Add(-2*time.Hour)))
	assert.False(t, override.ActiveAt(now.Add(2*time.Hour)))

	override.Enabled = false
	assert.False(t, override.ActiveAt(now))
}
