package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"order-management-api/internal/catalog"
	"order-management-api/internal/drafts"
	"order-management-api/internal/models"
	"order-management-api/internal/orders"
)

// DraftHandler handles per-store order draft HTTP requests
type DraftHandler struct {
	drafts   *drafts.Store
	cache    *catalog.ProductCache
	checkout *orders.Service
}

// NewDraftHandler creates a new draft handler
func NewDraftHandler(draftStore *drafts.Store, cache *catalog.ProductCache, checkout *orders.Service) *DraftHandler {
	return &DraftHandler{
		drafts:   draftStore,
		cache:    cache,
		checkout: checkout,
	}
}

// GetDraft handles GET /v1/stores/{storeId}/draft
func (h *DraftHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	storeID := mux.Vars(r)["storeId"]
	writeJSONResponse(w, http.StatusOK, h.drafts.GetDraft(storeID))
}

// AddItem handles POST /v1/stores/{storeId}/draft/items - add one unit of a
// catalog product (optionally a specific variant) to the store's draft
func (h *DraftHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	storeID := mux.Vars(r)["storeId"]

	var req models.AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Invalid JSON in add item request", "error", err, "remote_addr", r.RemoteAddr)
		writeErrorResponse(w, http.StatusBadRequest, "bad_request", "Invalid JSON", nil)
		return
	}

	if req.ProductID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "bad_request", "Missing product ID",
			[]models.ErrorDetail{{Field: "productId", Issue: "required"}})
		return
	}

	product := h.cache.ProductByID(req.ProductID)
	if product == nil {
		writeErrorResponse(w, http.StatusNotFound, "not_found", "Product not found in catalog", nil)
		return
	}

	var variant *models.ProductVariant
	if req.VariantID != "" {
		variant = product.Variant(req.VariantID)
		if variant == nil {
			writeErrorResponse(w, http.StatusNotFound, "not_found", "Variant not found on product", nil)
			return
		}
	}

	h.drafts.AddItem(storeID, *product, variant)

	slog.Info("Draft item added",
		"store_id", storeID,
		"product_id", req.ProductID,
		"variant_id", req.VariantID)

	writeJSONResponse(w, http.StatusOK, h.drafts.GetDraft(storeID))
}

// UpdateQuantity handles PUT /v1/stores/{storeId}/draft/items/{itemId}.
// A quantity of zero or less removes the line.
func (h *DraftHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	storeID := vars["storeId"]
	itemID := vars["itemId"]

	var req models.UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Invalid JSON in update quantity request", "error", err, "remote_addr", r.RemoteAddr)
		writeErrorResponse(w, http.StatusBadRequest, "bad_request", "Invalid JSON", nil)
		return
	}

	h.drafts.UpdateQuantity(storeID, itemID, req.Quantity)
	writeJSONResponse(w, http.StatusOK, h.drafts.GetDraft(storeID))
}

// RemoveItem handles DELETE /v1/stores/{storeId}/draft/items/{itemId}
func (h *DraftHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	h.drafts.RemoveItem(vars["storeId"], vars["itemId"])
	writeJSONResponse(w, http.StatusOK, h.drafts.GetDraft(vars["storeId"]))
}

// UpdateNotes handles PUT /v1/stores/{storeId}/draft/notes
func (h *DraftHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	storeID := mux.Vars(r)["storeId"]

	var req models.UpdateNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Invalid JSON in update notes request", "error", err, "remote_addr", r.RemoteAddr)
		writeErrorResponse(w, http.StatusBadRequest, "bad_request", "Invalid JSON", nil)
		return
	}

	h.drafts.UpdateNotes(storeID, req.Notes)
	writeJSONResponse(w, http.StatusOK, h.drafts.GetDraft(storeID))
}

// ClearDraft handles DELETE /v1/stores/{storeId}/draft
func (h *DraftHandler) ClearDraft(w http.ResponseWriter, r *http.Request) {
	storeID := mux.Vars(r)["storeId"]
	h.drafts.ClearDraft(storeID)
	writeJSONResponse(w, http.StatusOK, h.drafts.GetDraft(storeID))
}

// GetSummary handles GET /v1/stores/{storeId}/draft/summary
func (h *DraftHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	storeID := mux.Vars(r)["storeId"]
	writeJSONResponse(w, http.StatusOK, h.drafts.Summary(storeID))
}

// Checkout handles POST /v1/stores/{storeId}/checkout - submit the store's
// draft as an order and clear it on success
func (h *DraftHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	storeID := mux.Vars(r)["storeId"]

	var req models.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Invalid JSON in checkout request", "error", err, "remote_addr", r.RemoteAddr)
		writeErrorResponse(w, http.StatusBadRequest, "bad_request", "Invalid JSON", nil)
		return
	}

	resp, err := h.checkout.Checkout(r.Context(), storeID, req.CreatedBy)
	if err != nil {
		if errors.Is(err, orders.ErrEmptyDraft) {
			writeErrorResponse(w, http.StatusConflict, "empty_draft", "Draft has no items", nil)
			return
		}
		slog.Error("Checkout failed", "store_id", storeID, "error", err)
		writeErrorResponse(w, http.StatusBadGateway, "backend_unavailable", "Failed to submit order", nil)
		return
	}

	writeJSONResponse(w, http.StatusCreated, resp)
}
