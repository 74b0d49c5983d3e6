package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"order-management-api/internal/backend"
	"order-management-api/internal/drafts"
	"order-management-api/internal/models"
)

// sourceTypeStoreOrder marks orders submitted from a store's draft
const sourceTypeStoreOrder = "store_order"

// ErrEmptyDraft is returned when checkout runs against a draft with no items
var ErrEmptyDraft = errors.New("draft has no items")

// Submitter is the subset of the backend API checkout depends on
type Submitter interface {
	SubmitOrder(ctx context.Context, order backend.SubmitOrderRequest) (*backend.SubmitOrderResponse, error)
}

// Service turns a store's draft into an order at the backend.
// The draft is cleared only after the backend accepts the order.
type Service struct {
	backend Submitter
	drafts  *drafts.Store
}

// NewService creates a checkout service
func NewService(submitter Submitter, draftStore *drafts.Store) *Service {
	return &Service{
		backend: submitter,
		drafts:  draftStore,
	}
}

// Checkout submits the store's draft as one order row plus its item rows.
// Each item row carries the unit price frozen on the draft line.
func (s *Service) Checkout(ctx context.Context, storeID, createdBy string) (*backend.SubmitOrderResponse, error) {
	draft := s.drafts.GetDraft(storeID)
	if len(draft.Items) == 0 {
		return nil, ErrEmptyDraft
	}

	req := backend.SubmitOrderRequest{
		IdempotencyKey: uuid.NewString(),
		Order: models.OrderInsert{
			StoreID:    storeID,
			CreatedBy:  createdBy,
			Notes:      draft.Notes,
			SourceType: sourceTypeStoreOrder,
		},
		Items: make([]models.OrderItemInsert, 0, len(draft.Items)),
	}

	for _, item := range draft.Items {
		req.Items = append(req.Items, models.OrderItemInsert{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			StoreID:   storeID,
			Quantity:  item.Quantity,
			UnitPrice: item.Price,
		})
	}

	resp, err := s.backend.SubmitOrder(ctx, req)
	if err != nil {
		// Keep the draft so the user can retry
		return nil, fmt.Errorf("failed to submit order: %w", err)
	}

	s.drafts.ClearDraft(storeID)

	slog.Info("Order submitted",
		"store_id", storeID,
		"order_id", resp.OrderID,
		"items", len(draft.Items))

	return resp, nil
}
