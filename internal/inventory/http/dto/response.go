package dto

import (
	"time"

	inventoryDomain "github.com/mysillydreams/catalog-core/internal/inventory/domain"
)

// StockLevelResponse represents a stock level in API responses.
type StockLevelResponse struct {
	ItemID         string    `json:"item_id"`
	QuantityOnHand int       `json:"quantity_on_hand"`
	ReorderLevel   int       `json:"reorder_level"`
	BelowReorder   bool      `json:"below_reorder"`
	Version        int64     `json:"version"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// StockLevelListResponse represents a paginated list of stock levels.
type StockLevelListResponse struct {
	StockLevels []StockLevelResponse `json:"stock_levels"`
}

// StockTransactionResponse represents one stock ledger row in API responses.
type StockTransactionResponse struct {
	ID              string    `json:"id"`
	ItemID          string    `json:"item_id"`
	TransactionType string    `json:"transaction_type"`
	QuantityChanged int       `json:"quantity_changed"`
	QuantityBefore  int       `json:"quantity_before"`
	QuantityAfter   int       `json:"quantity_after"`
	Reason          string    `json:"reason"`
	ReferenceID     string    `json:"reference_id,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// StockTransactionListResponse represents a paginated list of ledger rows.
type StockTransactionListResponse struct {
	Transactions []StockTransactionResponse `json:"transactions"`
}

// MapStockLevelToResponse converts a domain stock level to an API response.
func MapStockLevelToResponse(level *inventoryDomain.StockLevel) StockLevelResponse {
	return StockLevelResponse{
		ItemID:         level.ItemID.String(),
		QuantityOnHand: level.QuantityOnHand,
		ReorderLevel:   level.ReorderLevel,
		BelowReorder:   level.BelowReorderLevel(),
		Version:        level.Version,
		UpdatedAt:      level.UpdatedAt,
	}
}

// MapStockLevelsToListResponse converts domain stock levels to a list response.
func MapStockLevelsToListResponse(levels []*inventoryDomain.StockLevel) StockLevelListResponse {
	out := StockLevelListResponse{
		StockLevels: make([]StockLevelResponse, 0, len(levels)),
	}
	for _, level := range levels {
		out.StockLevels = append(out.StockLevels, MapStockLevelToResponse(level))
	}
	return out
}

// MapTransactionToResponse converts a domain ledger row to an API response.
func MapTransactionToResponse(tx *inventoryDomain.StockTransaction) StockTransactionResponse {
	return StockTransactionResponse{
		ID:              tx.ID.String(),
		ItemID:          tx.ItemID.String(),
		TransactionType: string(tx.TransactionType),
		QuantityChanged: tx.QuantityChanged,
		QuantityBefore:  tx.QuantityBefore,
		QuantityAfter:   tx.QuantityAfter,
		Reason:          tx.Reason,
		ReferenceID:     tx.ReferenceID,
		OccurredAt:      tx.OccurredAt,
	}
}

// MapTransactionsToListResponse converts domain ledger rows to a list response.
func MapTransactionsToListResponse(txs []*inventoryDomain.StockTransaction) StockTransactionListResponse {
	out := StockTransactionListResponse{
		Transactions: make([]StockTransactionResponse, 0, len(txs)),
	}
	for _, tx := range txs {
		out.Transactions = append(out.Transactions, MapTransactionToResponse(tx))
	}
	return out
}
