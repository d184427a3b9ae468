package domain

import (
	"time"

	"github.com/google/uuid"
)

// PriceOverride pins an item to a fixed price for a time window. The item id
// is fixed at creation.
type PriceOverride struct {
	ID            uuid.UUID `json:"id"`
	ItemID        uuid.UUID `json:"item_id"`
	OverridePrice float64   `json:"override_price"`
	StartsAt      time.Time `json:"starts_at"`
	// EndsAt is nil for an open-ended override.
	EndsAt    *time.Time `json:"ends_at,omitempty"`
	Enabled   bool       `json:"enabled"`
	Version   int64      `json:"version"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ActiveAt reports whether the override applies at the given instant.
func (o *PriceOverride) ActiveAt(t time.Time) bool {
	if !o.Enabled {
		return false
	}
	if t.Before(o.StartsAt) {
		return false
	}
	if o.EndsAt != nil && !t.Before(*o.EndsAt) {
		return false
	}
	return true
}
