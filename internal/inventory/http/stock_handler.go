// Package http provides HTTP handlers for inventory operations. Stock
// mutations flow through the versioned use case so every successful response
// reflects a committed write with its outbox event.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mysillydreams/catalog-core/internal/httputil"
	inventoryDomain "github.com/mysillydreams/catalog-core/internal/inventory/domain"
	"github.com/mysillydreams/catalog-core/internal/inventory/http/dto"
	inventoryUseCase "github.com/mysillydreams/catalog-core/internal/inventory/usecase"
	customValidation "github.com/mysillydreams/catalog-core/internal/validation"
)

// StockHandler handles HTTP requests for stock operations.
type StockHandler struct {
	stockUseCase inventoryUseCase.StockUseCase
	logger       *slog.Logger
}

// NewStockHandler creates a new stock handler with required dependencies.
func NewStockHandler(stockUseCase inventoryUseCase.StockUseCase, logger *slog.Logger) *StockHandler {
	return &StockHandler{
		stockUseCase: stockUseCase,
		logger:       logger,
	}
}

// parseItemID extracts and parses the itemID URL parameter.
func (h *StockHandler) parseItemID(c *gin.Context) (uuid.UUID, bool) {
	itemID, err := uuid.Parse(c.Param("itemID"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid item id: %w", err), h.logger)
		return uuid.Nil, false
	}
	return itemID, true
}

// ReserveHandler reserves stock for a cart.
// POST /v1/stock/:itemID/reserve
// Returns 200 OK with the updated stock level.
func (h *StockHandler) ReserveHandler(c *gin.Context) {
	itemID, ok := h.parseItemID(c)
	if !ok {
		return
	}

	var req dto.ReserveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	level, err := h.stockUseCase.Reserve(c.Request.Context(), itemID, req.Quantity, req.ReferenceID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapStockLevelToResponse(level))
}

// ReleaseHandler returns previously reserved stock.
// POST /v1/stock/:itemID/release
// Returns 200 OK with the updated stock level.
func (h *StockHandler) ReleaseHandler(c *gin.Context) {
	itemID, ok := h.parseItemID(c)
	if !ok {
		return
	}

	var req dto.ReserveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	level, err := h.stockUseCase.Release(c.Request.Context(), itemID, req.Quantity, req.ReferenceID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapStockLevelToResponse(level))
}

// AdjustHandler applies a warehouse-side stock adjustment.
// POST /v1/stock/adjust
// Returns 200 OK with the updated stock level.
func (h *StockHandler) AdjustHandler(c *gin.Context) {
	var req dto.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	// Validated as a UUID by the dto
	itemID := uuid.MustParse(req.ItemID)

	input := inventoryUseCase.AdjustStockInput{
		ItemID:      itemID,
		Type:        inventoryDomain.AdjustmentType(req.Type),
		Quantity:    req.Quantity,
		Reason:      req.Reason,
		ReferenceID: req.ReferenceID,
	}

	level, err := h.stockUseCase.Adjust(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapStockLevelToResponse(level))
}

// GetHandler retrieves the stock level for an item.
// GET /v1/stock/:itemID
// Returns 200 OK with the stock level.
func (h *StockHandler) GetHandler(c *gin.Context) {
	itemID, ok := h.parseItemID(c)
	if !ok {
		return
	}

	level, err := h.stockUseCase.Get(c.Request.Context(), itemID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapStockLevelToResponse(level))
}

// ListHandler retrieves stock levels with pagination support.
// GET /v1/stock?offset=0&limit=50
// Returns 200 OK with a stock level list.
func (h *StockHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	levels, err := h.stockUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapStockLevelsToListResponse(levels))
}

// ReorderAlertsHandler retrieves items whose on-hand quantity fell below the
// reorder threshold.
// GET /v1/stock/reorder-alerts
// Returns 200 OK with a stock level list.
func (h *StockHandler) ReorderAlertsHandler(c *gin.Context) {
	levels, err := h.stockUseCase.ListBelowReorderLevel(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapStockLevelsToListResponse(levels))
}

// ListTransactionsHandler retrieves the stock ledger for an item.
// GET /v1/stock/:itemID/transactions?offset=0&limit=50
// Returns 200 OK with a transaction list, most recent first.
func (h *StockHandler) ListTransactionsHandler(c *gin.Context) {
	itemID, ok := h.parseItemID(c)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	txs, err := h.stockUseCase.ListTransactions(c.Request.Context(), itemID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTransactionsToListResponse(txs))
}
