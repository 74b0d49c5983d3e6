package models

import (
	"github.com/shopspring/decimal"
)

// ProductStatus represents the catalog lifecycle state of a product or variant
type ProductStatus string

const (
	StatusActive       ProductStatus = "active"
	StatusDiscontinued ProductStatus = "discontinued"
	StatusPreorder     ProductStatus = "preorder"
	StatusSoldOut      ProductStatus = "sold_out"
)

// Product represents a catalog product as served by the central backend
type Product struct {
	ID             string           `json:"id"`
	SKU            string           `json:"sku"`
	Name           string           `json:"name"`
	Brand          string           `json:"brand,omitempty"`
	Model          string           `json:"model,omitempty"`
	Series         string           `json:"series,omitempty"`
	Category       string           `json:"category,omitempty"`
	Color          string           `json:"color,omitempty"`
	Barcode        string           `json:"barcode,omitempty"`
	WholesalePrice decimal.Decimal  `json:"wholesalePrice"`
	RetailPrice    decimal.Decimal  `json:"retailPrice"`
	Status         ProductStatus    `json:"status"`
	HasVariants    bool             `json:"hasVariants"`
	Variants       []ProductVariant `json:"variants,omitempty"`
}

// Variant returns the variant with the given ID, or nil if the product has no such variant
func (p *Product) Variant(variantID string) *ProductVariant {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}

// ProductVariant represents a sellable variation of a product.
// Wholesale and retail prices are optional overrides of the parent product's base prices.
type ProductVariant struct {
	ID             string           `json:"id"`
	ProductID      string           `json:"productId"`
	SKU            string           `json:"sku"`
	Name           string           `json:"name"`
	Option1        string           `json:"option1,omitempty"`
	Option2        string           `json:"option2,omitempty"`
	Option3        string           `json:"option3,omitempty"`
	WholesalePrice *decimal.Decimal `json:"wholesalePrice,omitempty"`
	RetailPrice    *decimal.Decimal `json:"retailPrice,omitempty"`
	Status         ProductStatus    `json:"status"`
}

// Options returns the non-empty option labels of the variant, in order
func (v *ProductVariant) Options() []string {
	var options []string
	for _, opt := range []string{v.Option1, v.Option2, v.Option3} {
		if opt != "" {
			options = append(options, opt)
		}
	}
	return options
}
