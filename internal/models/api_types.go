package models

import "time"

// ErrorResponse represents the standard error response format
type ErrorResponse struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

type ErrorDetail struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// AddItemRequest is the payload for adding a catalog product to a store draft
type AddItemRequest struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId,omitempty"`
}

// UpdateQuantityRequest sets the exact quantity of a draft line item.
// A quantity of zero or less removes the line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateNotesRequest replaces the free-text notes of a store draft
type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

// CheckoutRequest submits a store's draft as an order
type CheckoutRequest struct {
	CreatedBy string `json:"createdBy"`
}
