package domain

import (
	"time"

	"github.com/google/uuid"
)

// AdjustmentType classifies a stock mutation.
type AdjustmentType string

const (
	// AdjustmentTypeReceive adds incoming quantity.
	AdjustmentTypeReceive AdjustmentType = "receive"
	// AdjustmentTypeIssue removes outgoing quantity; requires sufficient
	// stock on hand.
	AdjustmentTypeIssue AdjustmentType = "issue"
	// AdjustmentTypeCorrection applies a signed delta from a physical
	// count; the resulting quantity must stay non-negative.
	AdjustmentTypeCorrection AdjustmentType = "correction"
)

// Valid reports whether the adjustment type is one of the known values.
func (t AdjustmentType) Valid() bool {
	switch t {
	case AdjustmentTypeReceive, AdjustmentTypeIssue, AdjustmentTypeCorrection:
		return true
	}
	return false
}

// StockTransaction is one row of the append-only stock ledger. Rows are never
// updated or deleted; quantityAfter always equals quantityBefore plus
// quantityChanged.
type StockTransaction struct {
	ID              uuid.UUID
	ItemID          uuid.UUID
	TransactionType AdjustmentType
	// QuantityChanged is the signed delta applied by this transaction.
	QuantityChanged int
	QuantityBefore  int
	QuantityAfter   int
	Reason          string
	// ReferenceID links the transaction to an external trigger such as a
	// cart id; empty when unknown.
	ReferenceID string
	OccurredAt  time.Time
}
