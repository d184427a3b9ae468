// Package http provides HTTP handlers for dynamic pricing operations.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mysillydreams/catalog-core/internal/httputil"
	pricingDomain "github.com/mysillydreams/catalog-core/internal/pricing/domain"
	"github.com/mysillydreams/catalog-core/internal/pricing/http/dto"
	pricingUseCase "github.com/mysillydreams/catalog-core/internal/pricing/usecase"
	customValidation "github.com/mysillydreams/catalog-core/internal/validation"
)

// PricingHandler handles HTTP requests for pricing rule and price override operations.
type PricingHandler struct {
	pricingUseCase pricingUseCase.PricingUseCase
	logger         *slog.Logger
}

// NewPricingHandler creates a new pricing handler with required dependencies.
func NewPricingHandler(useCase pricingUseCase.PricingUseCase, logger *slog.Logger) *PricingHandler {
	return &PricingHandler{
		pricingUseCase: useCase,
		logger:         logger,
	}
}

// parseIDParam extracts and parses a UUID URL parameter.
func (h *PricingHandler) parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid %s: %w", name, err), h.logger)
		return uuid.Nil, false
	}
	return id, true
}

// parseItemIDQuery extracts and parses the required item_id query parameter.
func (h *PricingHandler) parseItemIDQuery(c *gin.Context) (uuid.UUID, bool) {
	raw := c.Query("item_id")
	if raw == "" {
		httputil.HandleBadRequestGin(c, fmt.Errorf("item_id query parameter is required"), h.logger)
		return uuid.Nil, false
	}
	itemID, err := uuid.Parse(raw)
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid item_id: %w", err), h.logger)
		return uuid.Nil, false
	}
	return itemID, true
}

// bindRuleInput binds and validates a rule request body.
func (h *PricingHandler) bindRuleInput(c *gin.Context) (pricingUseCase.RuleInput, bool) {
	var req dto.RuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return pricingUseCase.RuleInput{}, false
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return pricingUseCase.RuleInput{}, false
	}

	return pricingUseCase.RuleInput{
		ItemID:     uuid.MustParse(req.ItemID),
		RuleType:   pricingDomain.RuleType(req.RuleType),
		Parameters: req.Parameters,
		Enabled:    req.Enabled,
	}, true
}

// bindOverrideInput binds and validates an override request body.
func (h *PricingHandler) bindOverrideInput(c *gin.Context) (pricingUseCase.OverrideInput, bool) {
	var req dto.OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return pricingUseCase.OverrideInput{}, false
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return pricingUseCase.OverrideInput{}, false
	}

	var startsAt time.Time
	if req.StartsAt != nil {
		startsAt = *req.StartsAt
	}

	return pricingUseCase.OverrideInput{
		ItemID:        uuid.MustParse(req.ItemID),
		OverridePrice: req.OverridePrice,
		StartsAt:      startsAt,
		EndsAt:        req.EndsAt,
		Enabled:       req.Enabled,
	}, true
}

// CreateRuleHandler creates a new pricing rule.
// POST /v1/pricing/rules
// Returns 201 Created with the rule.
func (h *PricingHandler) CreateRuleHandler(c *gin.Context) {
	input, ok := h.bindRuleInput(c)
	if !ok {
		return
	}

	rule, err := h.pricingUseCase.CreateRule(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapRuleToResponse(rule))
}

// GetRuleHandler retrieves a pricing rule by id.
// GET /v1/pricing/rules/:ruleID
// Returns 200 OK with the rule.
func (h *PricingHandler) GetRuleHandler(c *gin.Context) {
	ruleID, ok := h.parseIDParam(c, "ruleID")
	if !ok {
		return
	}

	rule, err := h.pricingUseCase.GetRule(c.Request.Context(), ruleID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRuleToResponse(rule))
}

// ListRulesHandler retrieves the pricing rules configured for an item.
// GET /v1/pricing/rules?item_id=<uuid>
// Returns 200 OK with a rule list.
func (h *PricingHandler) ListRulesHandler(c *gin.Context) {
	itemID, ok := h.parseItemIDQuery(c)
	if !ok {
		return
	}

	rules, err := h.pricingUseCase.ListRulesByItem(c.Request.Context(), itemID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRulesToListResponse(rules))
}

// UpdateRuleHandler replaces the parameters and enabled flag of a rule.
// PUT /v1/pricing/rules/:ruleID
// Returns 200 OK with the updated rule.
func (h *PricingHandler) UpdateRuleHandler(c *gin.Context) {
	ruleID, ok := h.parseIDParam(c, "ruleID")
	if !ok {
		return
	}

	input, ok := h.bindRuleInput(c)
	if !ok {
		return
	}

	rule, err := h.pricingUseCase.UpdateRule(c.Request.Context(), ruleID, input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRuleToResponse(rule))
}

// DeleteRuleHandler removes a pricing rule.
// DELETE /v1/pricing/rules/:ruleID
// Returns 204 No Content.
func (h *PricingHandler) DeleteRuleHandler(c *gin.Context) {
	ruleID, ok := h.parseIDParam(c, "ruleID")
	if !ok {
		return
	}

	if err := h.pricingUseCase.DeleteRule(c.Request.Context(), ruleID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// CreateOverrideHandler creates a new price override.
// POST /v1/pricing/overrides
// Returns 201 Created with the override.
func (h *PricingHandler) CreateOverrideHandler(c *gin.Context) {
	input, ok := h.bindOverrideInput(c)
	if !ok {
		return
	}

	override, err := h.pricingUseCase.CreateOverride(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapOverrideToResponse(override))
}

// GetOverrideHandler retrieves a price override by id.
// GET /v1/pricing/overrides/:overrideID
// Returns 200 OK with the override.
func (h *PricingHandler) GetOverrideHandler(c *gin.Context) {
	overrideID, ok := h.parseIDParam(c, "overrideID")
	if !ok {
		return
	}

	override, err := h.pricingUseCase.GetOverride(c.Request.Context(), overrideID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapOverrideToResponse(override))
}

// ListOverridesHandler retrieves price overrides for an item. With active=true
// only the overrides currently in effect are returned.
// GET /v1/pricing/overrides?item_id=<uuid>&active=true
// Returns 200 OK with an override list.
func (h *PricingHandler) ListOverridesHandler(c *gin.Context) {
	itemID, ok := h.parseItemIDQuery(c)
	if !ok {
		return
	}

	var overrides []*pricingDomain.PriceOverride
	var err error

	if c.Query("active") == "true" {
		overrides, err = h.pricingUseCase.ListActiveOverrides(c.Request.Context(), itemID)
	} else {
		overrides, err = h.pricingUseCase.ListOverridesByItem(c.Request.Context(), itemID)
	}
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapOverridesToListResponse(overrides))
}

// UpdateOverrideHandler replaces the price, window and enabled flag of an override.
// PUT /v1/pricing/overrides/:overrideID
// Returns 200 OK with the updated override.
func (h *PricingHandler) UpdateOverrideHandler(c *gin.Context) {
	overrideID, ok := h.parseIDParam(c, "overrideID")
	if !ok {
		return
	}

	input, ok := h.bindOverrideInput(c)
	if !ok {
		return
	}

	override, err := h.pricingUseCase.UpdateOverride(c.Request.Context(), overrideID, input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapOverrideToResponse(override))
}

// DeleteOverrideHandler removes a price override.
// DELETE /v1/pricing/overrides/:overrideID
// Returns 204 No Content.
func (h *PricingHandler) DeleteOverrideHandler(c *gin.Context) {
	overrideID, ok := h.parseIDParam(c, "overrideID")
	if !ok {
		return
	}

	if err := h.pricingUseCase.DeleteOverride(c.Request.Context(), overrideID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
