package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-management-api/internal/backend"
	"order-management-api/internal/drafts"
	"order-management-api/internal/models"
	"order-management-api/internal/storage"
)

// fakeSubmitter records the last submitted order and returns a canned response
type fakeSubmitter struct {
	calls   int
	lastReq backend.SubmitOrderRequest
	err     error
}

func (f *fakeSubmitter) SubmitOrder(ctx context.Context, order backend.SubmitOrderRequest) (*backend.SubmitOrderResponse, error) {
	f.calls++
	f.lastReq = order
	if f.err != nil {
		return nil, f.err
	}
	return &backend.SubmitOrderResponse{OrderID: "order-123", ItemCount: len(order.Items)}, nil
}

func seededDraftStore(t *testing.T) *drafts.Store {
	t.Helper()

	s := drafts.NewStore(storage.NewMemoryStore())
	price := decimal.NewFromFloat(13.75)
	s.AddItem("store-1", models.Product{
		ID:             "p-1",
		SKU:            "SKU-1",
		Name:           "Alpha Widget",
		WholesalePrice: decimal.NewFromFloat(12.50),
		Status:         models.StatusActive,
	}, &models.ProductVariant{
		ID:             "v-1",
		ProductID:      "p-1",
		SKU:            "SKU-1-RED",
		Name:           "Red",
		Option1:        "Red",
		WholesalePrice: &price,
	})
	s.UpdateQuantity("store-1", "p-1-v-1", 4)
	s.UpdateNotes("store-1", "rush order")
	return s
}

// TestService_CheckoutSubmitsDraftAndClearsIt tests the happy path: one
// order row, item rows with frozen prices, draft cleared afterwards
func TestService_CheckoutSubmitsDraftAndClearsIt(t *testing.T) {
	// Arrange
	draftStore := seededDraftStore(t)
	submitter := &fakeSubmitter{}
	svc := NewService(submitter, draftStore)

	// Act
	resp, err := svc.Checkout(context.Background(), "store-1", "user-7")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "order-123", resp.OrderID)
	assert.Equal(t, 1, submitter.calls)

	req := submitter.lastReq
	assert.NotEmpty(t, req.IdempotencyKey, "Each submission should carry an idempotency key")
	assert.Equal(t, "store-1", req.Order.StoreID)
	assert.Equal(t, "user-7", req.Order.CreatedBy)
	assert.Equal(t, "rush order", req.Order.Notes)
	assert.Equal(t, "store_order", req.Order.SourceType)

	require.Len(t, req.Items, 1)
	assert.Equal(t, "p-1", req.Items[0].ProductID)
	assert.Equal(t, "v-1", req.Items[0].VariantID)
	assert.Equal(t, "store-1", req.Items[0].StoreID)
	assert.Equal(t, 4, req.Items[0].Quantity)
	assert.True(t, req.Items[0].UnitPrice.Equal(decimal.NewFromFloat(13.75)),
		"Item rows must carry the frozen draft price")

	assert.Empty(t, draftStore.GetDraft("store-1").Items, "Draft should be cleared after a successful submit")
}

// TestService_CheckoutEmptyDraft tests that an empty draft is rejected
// without touching the backend
func TestService_CheckoutEmptyDraft(t *testing.T) {
	draftStore := drafts.NewStore(storage.NewMemoryStore())
	submitter := &fakeSubmitter{}
	svc := NewService(submitter, draftStore)

	resp, err := svc.Checkout(context.Background(), "store-1", "user-7")

	assert.ErrorIs(t, err, ErrEmptyDraft)
	assert.Nil(t, resp)
	assert.Equal(t, 0, submitter.calls, "Backend must not be called for an empty draft")
}

// TestService_CheckoutBackendFailureKeepsDraft tests that a failed submit
// leaves the draft intact for retry
func TestService_CheckoutBackendFailureKeepsDraft(t *testing.T) {
	draftStore := seededDraftStore(t)
	submitter := &fakeSubmitter{err: errors.New("backend down")}
	svc := NewService(submitter, draftStore)

	resp, err := svc.Checkout(context.Background(), "store-1", "user-7")

	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Len(t, draftStore.GetDraft("store-1").Items, 1, "Draft must survive a failed submit")
}
