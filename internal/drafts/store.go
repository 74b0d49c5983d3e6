package drafts

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"order-management-api/internal/models"
	"order-management-api/internal/storage"
)

// draftsPayload is the persisted shape: only the drafts map is written
type draftsPayload struct {
	Drafts map[string]models.OrderDraft `json:"drafts"`
}

// Store maintains, per store, an editable pending order that survives
// restarts. All operations are total: an absent store key behaves as an
// empty draft and mutations create the entry lazily.
type Store struct {
	mu     sync.RWMutex
	kv     storage.KeyValueStore
	drafts map[string]*models.OrderDraft
}

// NewStore creates a draft store over the given persistence substrate and
// loads any persisted drafts. A corrupt blob is dropped and the store
// starts empty.
func NewStore(kv storage.KeyValueStore) *Store {
	s := &Store{
		kv:     kv,
		drafts: make(map[string]*models.OrderDraft),
	}
	s.load()
	return s
}

func (s *Store) load() {
	data, found, err := s.kv.Get(storage.KeyOrderDrafts)
	if err != nil {
		slog.Warn("Failed to read persisted drafts, starting empty", "error", err)
		return
	}
	if !found {
		return
	}

	var payload draftsPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		slog.Warn("Persisted drafts are corrupt, discarding", "error", err)
		if err := s.kv.Delete(storage.KeyOrderDrafts); err != nil {
			slog.Warn("Failed to delete corrupt drafts blob", "error", err)
		}
		return
	}

	for storeID := range payload.Drafts {
		draft := payload.Drafts[storeID]
		s.drafts[storeID] = &draft
	}

	slog.Info("Order drafts loaded from storage", "stores", len(s.drafts))
}

// persistLocked writes the whole drafts map back to storage. Draft
// operations stay total: a persistence failure is logged, not returned.
func (s *Store) persistLocked() {
	payload := draftsPayload{Drafts: make(map[string]models.OrderDraft, len(s.drafts))}
	for storeID, draft := range s.drafts {
		payload.Drafts[storeID] = *draft
	}

	data, err := json.Marshal(payload)
	if err != nil {
		slog.Warn("Failed to marshal drafts", "error", err)
		return
	}

	if err := s.kv.Set(storage.KeyOrderDrafts, data); err != nil {
		slog.Warn("Failed to persist drafts", "error", err)
	}
}

// draftLocked returns the live draft for a store, creating it when absent
func (s *Store) draftLocked(storeID string) *models.OrderDraft {
	draft, ok := s.drafts[storeID]
	if !ok {
		draft = &models.OrderDraft{Items: []models.OrderDraftItem{}}
		s.drafts[storeID] = draft
	}
	return draft
}

// GetDraft returns a copy of the store's draft. A store that never had a
// draft gets a fresh empty one; reads never create a persisted entry.
func (s *Store) GetDraft(storeID string) models.OrderDraft {
	s.mu.RLock()
	defer s.mu.RUnlock()

	draft, ok := s.drafts[storeID]
	if !ok {
		return models.OrderDraft{Items: []models.OrderDraftItem{}, UpdatedAt: time.Now()}
	}

	out := *draft
	out.Items = make([]models.OrderDraftItem, len(draft.Items))
	copy(out.Items, draft.Items)
	return out
}

// AddItem adds one unit of a product/variant combination to the store's
// draft. A line with the same identity has its quantity incremented; the
// unit price recorded at first add is kept as-is.
func (s *Store) AddItem(storeID string, product models.Product, variant *models.ProductVariant) {
	s.mu.Lock()
	defer s.mu.Unlock()

	variantID := ""
	if variant != nil {
		variantID = variant.ID
	}
	itemID := models.DraftItemID(product.ID, variantID)

	draft := s.draftLocked(storeID)

	for i := range draft.Items {
		if draft.Items[i].ID == itemID {
			draft.Items[i].Quantity++
			draft.UpdatedAt = time.Now()
			s.persistLocked()
			return
		}
	}

	item := models.OrderDraftItem{
		ID:        itemID,
		ProductID: product.ID,
		Name:      product.Name,
		SKU:       product.SKU,
		Price:     models.EffectivePrice(product, variant),
		Quantity:  1,
	}
	if variant != nil {
		item.VariantID = variant.ID
		item.Name = product.Name + " - " + variant.Name
		item.SKU = variant.SKU
		item.VariantName = variant.Name
		item.Options = variant.Options()
	}

	draft.Items = append(draft.Items, item)
	draft.UpdatedAt = time.Now()
	s.persistLocked()
}

// UpdateQuantity sets a line's quantity exactly. Zero or negative removes
// the line; that is the defined removal path, not an error.
func (s *Store) UpdateQuantity(storeID, itemID string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(storeID, itemID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.drafts[storeID]
	if !ok {
		return
	}

	for i := range draft.Items {
		if draft.Items[i].ID == itemID {
			draft.Items[i].Quantity = quantity
			draft.UpdatedAt = time.Now()
			s.persistLocked()
			return
		}
	}
}

// RemoveItem deletes a line from the store's draft; absent lines are a no-op
func (s *Store) RemoveItem(storeID, itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.drafts[storeID]
	if !ok {
		return
	}

	for i := range draft.Items {
		if draft.Items[i].ID == itemID {
			draft.Items = append(draft.Items[:i], draft.Items[i+1:]...)
			draft.UpdatedAt = time.Now()
			s.persistLocked()
			return
		}
	}
}

// UpdateNotes replaces the draft's notes verbatim, creating the draft when absent
func (s *Store) UpdateNotes(storeID, notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.draftLocked(storeID)
	draft.Notes = notes
	draft.UpdatedAt = time.Now()
	s.persistLocked()
}

// ClearDraft drops the store's entry entirely, both in memory and in the
// persisted blob; a later GetDraft returns a fresh empty draft
func (s *Store) ClearDraft(storeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.drafts[storeID]; !ok {
		return
	}

	delete(s.drafts, storeID)
	s.persistLocked()
}

// TotalItems returns the sum of quantities across the store's draft
func (s *Store) TotalItems(storeID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	draft, ok := s.drafts[storeID]
	if !ok {
		return 0
	}

	total := 0
	for _, item := range draft.Items {
		total += item.Quantity
	}
	return total
}

// TotalAmount returns the sum of price times quantity across the store's draft
func (s *Store) TotalAmount(storeID string) decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	draft, ok := s.drafts[storeID]
	if !ok {
		return total
	}

	for _, item := range draft.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// ItemQuantity returns the quantity of the exact product/variant line, or zero
func (s *Store) ItemQuantity(storeID, productID, variantID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	draft, ok := s.drafts[storeID]
	if !ok {
		return 0
	}

	itemID := models.DraftItemID(productID, variantID)
	for _, item := range draft.Items {
		if item.ID == itemID {
			return item.Quantity
		}
	}
	return 0
}

// TotalProductQuantity returns the summed quantity of a product across all
// of its variant lines in the store's draft
func (s *Store) TotalProductQuantity(storeID, productID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	draft, ok := s.drafts[storeID]
	if !ok {
		return 0
	}

	total := 0
	for _, item := range draft.Items {
		if item.ProductID == productID {
			total += item.Quantity
		}
	}
	return total
}

// Summary returns the derived totals of the store's draft
func (s *Store) Summary(storeID string) models.DraftSummary {
	return models.DraftSummary{
		StoreID:     storeID,
		TotalItems:  s.TotalItems(storeID),
		TotalAmount: s.TotalAmount(storeID),
	}
}
