package models

import "github.com/shopspring/decimal"

// OrderInsert is the order row written to the backend on checkout
type OrderInsert struct {
	StoreID    string `json:"store_id"`
	CreatedBy  string `json:"created_by"`
	Notes      string `json:"notes"`
	SourceType string `json:"source_type"`
}

// OrderItemInsert is one order-item row written to the backend on checkout,
// drawn directly from a draft line item
type OrderItemInsert struct {
	OrderID   string          `json:"order_id,omitempty"`
	ProductID string          `json:"product_id"`
	VariantID string          `json:"variant_id,omitempty"`
	StoreID   string          `json:"store_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}
