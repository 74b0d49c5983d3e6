package models

import "github.com/shopspring/decimal"

// EffectivePrice returns the wholesale price that applies when ordering the
// given product/variant combination: the variant's override when one is set,
// otherwise the product's base wholesale price. Every place that reads a
// price for an order line must go through this function so that prices
// captured on draft items stay consistent.
func EffectivePrice(product Product, variant *ProductVariant) decimal.Decimal {
	if variant != nil && variant.WholesalePrice != nil {
		return *variant.WholesalePrice
	}
	return product.WholesalePrice
}
