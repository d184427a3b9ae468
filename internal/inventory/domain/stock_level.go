// Package domain defines the core domain models for inventory tracking. Stock
// levels are versioned aggregates mutated under optimistic concurrency; every
// committed mutation also appends an immutable ledger row.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// StockLevel tracks the on-hand quantity for a single catalog item.
type StockLevel struct {
	// ItemID is the owning catalog item; one stock row per item.
	ItemID uuid.UUID
	// QuantityOnHand is the current available quantity; never negative.
	QuantityOnHand int
	// ReorderLevel is the threshold below which the item shows up in
	// reorder alerts.
	ReorderLevel int
	// Version increments on every committed write and guards the
	// conditional update.
	Version int64
	// UpdatedAt is the UTC timestamp of the last committed write.
	UpdatedAt time.Time
}

// BelowReorderLevel reports whether the item needs replenishment.
func (s *StockLevel) BelowReorderLevel() bool {
	return s.QuantityOnHand < s.ReorderLevel
}
