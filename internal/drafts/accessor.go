package drafts

import (
	"github.com/shopspring/decimal"

	"order-management-api/internal/models"
)

// StoreDraft is a thin handle binding the draft operations to one store.
// When no store is selected (empty storeID or nil parent) every operation
// is inert: mutations are no-ops and reads return empty/zero values, so
// callers can hold a handle unconditionally without guarding it.
type StoreDraft struct {
	store   *Store
	storeID string
}

// ForStore returns a handle bound to the given store identifier
func (s *Store) ForStore(storeID string) StoreDraft {
	return StoreDraft{store: s, storeID: storeID}
}

func (d StoreDraft) bound() bool {
	return d.store != nil && d.storeID != ""
}

// Draft returns the bound store's draft, or an empty draft when unbound
func (d StoreDraft) Draft() models.OrderDraft {
	if !d.bound() {
		return models.OrderDraft{Items: []models.OrderDraftItem{}}
	}
	return d.store.GetDraft(d.storeID)
}

// AddItem adds one unit of the product/variant to the bound store's draft
func (d StoreDraft) AddItem(product models.Product, variant *models.ProductVariant) {
	if !d.bound() {
		return
	}
	d.store.AddItem(d.storeID, product, variant)
}

// UpdateQuantity sets a line's quantity; zero or less removes the line
func (d StoreDraft) UpdateQuantity(itemID string, quantity int) {
	if !d.bound() {
		return
	}
	d.store.UpdateQuantity(d.storeID, itemID, quantity)
}

// RemoveItem deletes a line from the bound store's draft
func (d StoreDraft) RemoveItem(itemID string) {
	if !d.bound() {
		return
	}
	d.store.RemoveItem(d.storeID, itemID)
}

// UpdateNotes replaces the bound store's draft notes
func (d StoreDraft) UpdateNotes(notes string) {
	if !d.bound() {
		return
	}
	d.store.UpdateNotes(d.storeID, notes)
}

// Clear drops the bound store's draft entirely
func (d StoreDraft) Clear() {
	if !d.bound() {
		return
	}
	d.store.ClearDraft(d.storeID)
}

// TotalItems returns the summed quantities of the bound store's draft
func (d StoreDraft) TotalItems() int {
	if !d.bound() {
		return 0
	}
	return d.store.TotalItems(d.storeID)
}

// TotalAmount returns the summed line totals of the bound store's draft
func (d StoreDraft) TotalAmount() decimal.Decimal {
	if !d.bound() {
		return decimal.Zero
	}
	return d.store.TotalAmount(d.storeID)
}

// ItemQuantity returns the quantity of the exact product/variant line
func (d StoreDraft) ItemQuantity(productID, variantID string) int {
	if !d.bound() {
		return 0
	}
	return d.store.ItemQuantity(d.storeID, productID, variantID)
}
