package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventTypeStockLevelChanged is emitted for every committed stock mutation.
const EventTypeStockLevelChanged = "stock.level.changed"

// StockLevelChangedEvent is the payload published for a stock mutation. It
// captures the aggregate state at write time, not at publish time.
type StockLevelChangedEvent struct {
	EventID         uuid.UUID      `json:"event_id"`
	ItemID          uuid.UUID      `json:"item_id"`
	ItemSKU         string         `json:"item_sku"`
	AdjustmentType  AdjustmentType `json:"adjustment_type"`
	QuantityChanged int            `json:"quantity_changed"`
	QuantityBefore  int            `json:"quantity_before"`
	QuantityAfter   int            `json:"quantity_after"`
	Reason          string         `json:"reason"`
	ReferenceID     string         `json:"reference_id,omitempty"`
	OccurredAt      time.Time      `json:"occurred_at"`
}
