package drafts

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-management-api/internal/models"
	"order-management-api/internal/storage"
)

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func testProduct() models.Product {
	return models.Product{
		ID:             "p-1",
		SKU:            "SKU-1",
		Name:           "Alpha Widget",
		WholesalePrice: decimal.NewFromFloat(12.50),
		RetailPrice:    decimal.NewFromFloat(19.99),
		Status:         models.StatusActive,
		HasVariants:    true,
	}
}

func testVariant() *models.ProductVariant {
	return &models.ProductVariant{
		ID:             "v-1",
		ProductID:      "p-1",
		SKU:            "SKU-1-RED-L",
		Name:           "Red / L",
		Option1:        "Red",
		Option2:        "L",
		WholesalePrice: decimalPtr(decimal.NewFromFloat(13.75)),
		Status:         models.StatusActive,
	}
}

// TestStore_AddItemDeduplicates tests that adding the same product/variant
// twice increments quantity instead of creating a second line
func TestStore_AddItemDeduplicates(t *testing.T) {
	// Arrange
	s := NewStore(storage.NewMemoryStore())

	// Act
	s.AddItem("store-1", testProduct(), testVariant())
	s.AddItem("store-1", testProduct(), testVariant())

	// Assert
	draft := s.GetDraft("store-1")
	require.Len(t, draft.Items, 1, "Same identity must collapse into one line")
	assert.Equal(t, 2, draft.Items[0].Quantity)
	assert.Equal(t, "p-1-v-1", draft.Items[0].ID)
}

// TestStore_AddItemVariantsAreDistinctLines tests that base product and
// variant additions produce separate lines
func TestStore_AddItemVariantsAreDistinctLines(t *testing.T) {
	s := NewStore(storage.NewMemoryStore())

	s.AddItem("store-1", testProduct(), nil)
	s.AddItem("store-1", testProduct(), testVariant())

	draft := s.GetDraft("store-1")
	require.Len(t, draft.Items, 2)
	assert.Equal(t, "p-1-base", draft.Items[0].ID)
	assert.Equal(t, "p-1-v-1", draft.Items[1].ID)
}

// TestStore_AddItemCapturesVariantFields tests name composition, variant
// price override and option labels on a new line
func TestStore_AddItemCapturesVariantFields(t *testing.T) {
	s := NewStore(storage.NewMemoryStore())

	s.AddItem("store-1", testProduct(), testVariant())

	item := s.GetDraft("store-1").Items[0]
	assert.Equal(t, "Alpha Widget - Red / L", item.Name, "Name should combine product and variant")
	assert.Equal(t, "SKU-1-RED-L", item.SKU, "Variant SKU should win")
	assert.True(t, item.Price.Equal(decimal.NewFromFloat(13.75)), "Variant price override should apply")
	assert.Equal(t, "Red / L", item.VariantName)
	assert.Equal(t, []string{"Red", "L"}, item.Options)
}

// TestStore_AddItemWithoutVariant tests the base-product line shape
func TestStore_AddItemWithoutVariant(t *testing.T) {
	s := NewStore(storage.NewMemoryStore())

	s.AddItem("store-1", testProduct(), nil)

	item := s.GetDraft("store-1").Items[0]
	assert.Equal(t, "Alpha Widget", item.Name)
	assert.Equal(t, "SKU-1", item.SKU)
	assert.True(t, item.Price.Equal(decimal.NewFromFloat(12.50)), "Base wholesale price should apply")
	assert.Empty(t, item.VariantName)
	assert.Nil(t, item.Options)
}

// TestStore_PriceFrozenAtAddTime tests that later catalog price changes do
// not touch an already-added line's stored price
func TestStore_PriceFrozenAtAddTime(t *testing.T) {
	s := NewStore(storage.NewMemoryStore())
	product := testProduct()

	s.AddItem("store-1", product, nil)

	// Catalog price changes after the item was added
	product.WholesalePrice = decimal.NewFromFloat(99.99)
	s.AddItem("store-1", product, nil)

	draft := s.GetDraft("store-1")
	require.Len(t, draft.Items, 1)
	assert.Equal(t, 2, draft.Items[0].Quantity)
	assert.True(t, draft.Items[0].Price.Equal(decimal.NewFromFloat(12.50)),
		"Stored price must stay frozen to the add-time price")
}

// TestStore_UpdateQuantityZeroOrNegativeDeletes tests the defined removal path
func TestStore_UpdateQuantityZeroOrNegativeDeletes(t *testing.T) {
	s := NewStore(storage.NewMemoryStore())

	s.AddItem("store-1", testProduct(), nil)
	s.UpdateQuantity("store-1", "p-1-base", 0)
	assert.Empty(t, s.GetDraft("store-1").Items, "Quantity zero must delete the line")

	s.AddItem("store-1", testProduct(), nil)
	s.UpdateQuantity("store-1", "p-1-base", -5)
	assert.Empty(t, s.GetDraft("store-1").Items, "Negative quantity must delete the line")
}

// TestStore_UpdateQuantitySetsExactValue tests that positive quantities are
// applied verbatim
func TestStore_UpdateQuantitySetsExactValue(t *testing.T) {
	s := NewStore(storage.NewMemoryStore())

	s.AddItem("store-1", testProduct(), nil)
	s.UpdateQuantity("store-1", "p-1-base", 42)

	draft := s.GetDraft("store-1")
	require.Len(t, draft.Items, 1)
	assert.Equal(t, 42, draft.Items[0].Quantity)
}

// TestStore_GetDraftDefaultsToEmpty tests that an unknown store yields a
// fresh empty draft without persisting anything
func TestStore_GetDraftDefaultsToEmpty(t *testing.T) {
	kv := storage.NewMemoryStore()
	s := NewStore(kv)

	draft := s.GetDraft("store-that-never-had-a-draft")

	assert.NotNil(t, draft.Items)
	assert.Empty(t, draft.Items)
	assert.Empty(t, draft.Notes)
	assert.False(t, draft.UpdatedAt.IsZero(), "Empty default should carry a timestamp")

	_, found, err := kv.Get(storage.KeyOrderDrafts)
	require.NoError(t, err)
	assert.False(t, found, "Reads must not create a persisted entry")
}

// TestStore_TotalsConsistency tests derived totals against a manual sum over
// a mixed mutation sequence
func TestStore_TotalsConsistency(t *testing.T) {
	s := NewStore(storage.NewMemoryStore())

	s.AddItem("store-1", testProduct(), nil)
	s.AddItem("store-1", testProduct(), testVariant())
	s.AddItem("store-1", testProduct(), testVariant())
	s.UpdateQuantity("store-1", "p-1-base", 3)
	s.RemoveItem("store-1", "no-such-item")

	draft := s.GetDraft("store-1")
	wantItems := 0
	wantAmount := decimal.Zero
	for _, item := range draft.Items {
		wantItems += item.Quantity
		wantAmount = wantAmount.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	assert.Equal(t, wantItems, s.TotalItems("store-1"))
	assert.True(t, s.TotalAmount("store-1").Equal(wantAmount),
		"TotalAmount %s should equal manual sum %s", s.TotalAmount("store-1"), wantAmount)

	// 3 base units at 12.50 plus 2 variant units at 13.75
	assert.Equal(t, 5, s.TotalItems("store-1"))
	assert.True(t, s.TotalAmount("store-1").Equal(decimal.NewFromFloat(65.00)))
}

// TestStore_ItemQuantityQueries tests the per-identity and per-product
// quantity lookups
func TestStore_ItemQuantityQueries(t *testing.T) {
	s := NewStore(storage.NewMemoryStore())

	s.AddItem("store-1", testProduct(), nil)
	s.AddItem("store-1", testProduct(), testVariant())
	s.AddItem("store-1", testProduct(), testVariant())

	assert.Equal(t, 1, s.ItemQuantity("store-1", "p-1", ""))
	assert.Equal(t, 2, s.ItemQuantity("store-1", "p-1", "v-1"))
	assert.Equal(t, 0, s.ItemQuantity("store-1", "p-1", "v-other"))
	assert.Equal(t, 3, s.TotalProductQuantity("store-1", "p-1"), "Should sum across all variants")
	assert.Equal(t, 0, s.TotalProductQuantity("store-2", "p-1"), "Other stores are independent")
}

// TestStore_ClearDraftDropsPersistedKey tests that clearing removes the
// store's entry from the persisted blob, not just its items
func TestStore_ClearDraftDropsPersistedKey(t *testing.T) {
	kv := storage.NewMemoryStore()
	s := NewStore(kv)

	s.AddItem("store-1", testProduct(), nil)
	s.AddItem("store-2", testProduct(), nil)

	s.ClearDraft("store-1")

	draft := s.GetDraft("store-1")
	assert.Empty(t, draft.Items, "Cleared store should read as a fresh empty draft")

	data, found, err := kv.Get(storage.KeyOrderDrafts)
	require.NoError(t, err)
	require.True(t, found)

	var payload struct {
		Drafts map[string]models.OrderDraft `json:"drafts"`
	}
	require.NoError(t, json.Unmarshal(data, &payload))
	_, exists := payload.Drafts["store-1"]
	assert.False(t, exists, "Persisted blob must no longer contain the cleared store")
	_, exists = payload.Drafts["store-2"]
	assert.True(t, exists, "Other stores' drafts must survive")
}

// TestStore_UpdateNotesCreatesDraft tests that notes mutations create the
// draft lazily and persist it
func TestStore_UpdateNotesCreatesDraft(t *testing.T) {
	kv := storage.NewMemoryStore()
	s := NewStore(kv)

	s.UpdateNotes("store-1", "deliver before friday")

	draft := s.GetDraft("store-1")
	assert.Equal(t, "deliver before friday", draft.Notes)
	assert.False(t, draft.UpdatedAt.IsZero())

	_, found, err := kv.Get(storage.KeyOrderDrafts)
	require.NoError(t, err)
	assert.True(t, found, "A mutation must persist the draft")
}

// TestStore_SurvivesRestart tests reloading drafts from the shared substrate
func TestStore_SurvivesRestart(t *testing.T) {
	kv := storage.NewMemoryStore()

	first := NewStore(kv)
	first.AddItem("store-1", testProduct(), testVariant())
	first.UpdateNotes("store-1", "note")

	second := NewStore(kv)

	draft := second.GetDraft("store-1")
	require.Len(t, draft.Items, 1)
	assert.Equal(t, "p-1-v-1", draft.Items[0].ID)
	assert.True(t, draft.Items[0].Price.Equal(decimal.NewFromFloat(13.75)), "Frozen price should survive reload")
	assert.Equal(t, "note", draft.Notes)
}

// TestStore_CorruptBlobStartsEmpty tests self-healing on a corrupt drafts blob
func TestStore_CorruptBlobStartsEmpty(t *testing.T) {
	kv := storage.NewMemoryStore()
	require.NoError(t, kv.Set(storage.KeyOrderDrafts, []byte("not json at all")))

	var s *Store
	assert.NotPanics(t, func() { s = NewStore(kv) })

	assert.Empty(t, s.GetDraft("store-1").Items)

	_, found, err := kv.Get(storage.KeyOrderDrafts)
	require.NoError(t, err)
	assert.False(t, found, "Corrupt blob should be cleared")
}

// TestStore_MutationsOnMissingStoreAreNoOps tests that quantity and removal
// operations on unknown stores neither fail nor create entries
func TestStore_MutationsOnMissingStoreAreNoOps(t *testing.T) {
	kv := storage.NewMemoryStore()
	s := NewStore(kv)

	assert.NotPanics(t, func() {
		s.UpdateQuantity("ghost", "p-1-base", 4)
		s.RemoveItem("ghost", "p-1-base")
		s.ClearDraft("ghost")
	})

	_, found, err := kv.Get(storage.KeyOrderDrafts)
	require.NoError(t, err)
	assert.False(t, found, "No-op mutations must not persist anything")
}

// TestStoreDraft_BoundAccessor tests the per-store convenience handle
func TestStoreDraft_BoundAccessor(t *testing.T) {
	s := NewStore(storage.NewMemoryStore())
	handle := s.ForStore("store-1")

	handle.AddItem(testProduct(), nil)
	handle.UpdateQuantity("p-1-base", 3)

	assert.Equal(t, 3, handle.TotalItems())
	assert.True(t, handle.TotalAmount().Equal(decimal.NewFromFloat(37.50)))
	assert.Equal(t, 3, handle.ItemQuantity("p-1", ""))
	require.Len(t, handle.Draft().Items, 1)

	handle.Clear()
	assert.Empty(t, handle.Draft().Items)
}

// TestStoreDraft_UnboundAccessorIsInert tests that a handle without a store
// selected never panics and stays inert
func TestStoreDraft_UnboundAccessorIsInert(t *testing.T) {
	s := NewStore(storage.NewMemoryStore())
	handle := s.ForStore("")

	assert.NotPanics(t, func() {
		handle.AddItem(testProduct(), testVariant())
		handle.UpdateQuantity("p-1-v-1", 5)
		handle.RemoveItem("p-1-v-1")
		handle.UpdateNotes("ignored")
		handle.Clear()
	})

	assert.Equal(t, 0, handle.TotalItems())
	assert.True(t, handle.TotalAmount().IsZero())
	assert.Empty(t, handle.Draft().Items)

	var zero StoreDraft
	assert.NotPanics(t, func() { zero.AddItem(testProduct(), nil) }, "Zero-value handle must be safe too")
}
