package domain

import (
	"github.com/mysillydreams/catalog-core/internal/errors"
)

// Pricing-specific error definitions.
var (
	// ErrRuleNotFound indicates the pricing rule does not exist.
	ErrRuleNotFound = errors.Wrap(errors.ErrNotFound, "pricing rule not found")
	// ErrOverrideNotFound indicates the price override does not exist.
	ErrOverrideNotFound = errors.Wrap(errors.ErrNotFound, "price override not found")
	// ErrUnsupportedChange indicates an update tried to change an
	// immutable field such as the item id or rule type.
	ErrUnsupportedChange = errors.Wrap(errors.ErrInvalidOperation,
		"changing the item or rule type of an existing record is not supported")
	// ErrInvalidTimeRange indicates the override window starts after it ends.
	ErrInvalidTimeRange = errors.Wrap(errors.ErrInvalidInput, "start time must be before end time")
)
