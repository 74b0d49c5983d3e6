package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DraftItemID builds the identity key of a draft line item. Two additions of
// the same product/variant combination collapse into one line under this key.
func DraftItemID(productID, variantID string) string {
	if variantID == "" {
		return productID + "-base"
	}
	return productID + "-" + variantID
}

// OrderDraftItem is one line of an in-progress order. Price is the effective
// wholesale price captured when the item was added; it is never re-derived
// from the catalog afterwards.
type OrderDraftItem struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	VariantID   string          `json:"variantId,omitempty"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	VariantName string          `json:"variantName,omitempty"`
	Options     []string        `json:"options,omitempty"`
}

// LineTotal returns price multiplied by quantity
func (i OrderDraftItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderDraft is the in-progress order of a single store
type OrderDraft struct {
	Items     []OrderDraftItem `json:"items"`
	Notes     string           `json:"notes"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// DraftSummary exposes the derived totals of a draft
type DraftSummary struct {
	StoreID     string          `json:"storeId"`
	TotalItems  int             `json:"totalItems"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}
