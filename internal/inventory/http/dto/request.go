// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/mysillydreams/catalog-core/internal/validation"
)

// ReserveStockRequest contains the parameters for reserving or releasing stock.
// The item id is extracted from the URL parameter, not the request body.
type ReserveStockRequest struct {
	Quantity    int    `json:"quantity"`
	ReferenceID string `json:"reference_id"`
}

// Validate checks if the reserve/release request is valid.
func (r *ReserveStockRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Quantity, validation.Required, validation.Min(1)),
	)
}

// AdjustStockRequest contains the parameters for a warehouse-side stock adjustment.
type AdjustStockRequest struct {
	ItemID string `json:"item_id"`
	Type   string `json:"type"`
	// Quantity is a positive magnitude for receive and issue, a signed
	// delta for correction.
	Quantity    int    `json:"quantity"`
	Reason      string `json:"reason"`
	ReferenceID string `json:"reference_id"`
}

// Validate checks if the adjust stock request is valid. Quantity sign rules
// depend on the adjustment type and are enforced by the use case.
func (r *AdjustStockRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ItemID, validation.Required, customValidation.UUID),
		validation.Field(&r.Type, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Reason, validation.Required, customValidation.NotBlank),
	)
}
