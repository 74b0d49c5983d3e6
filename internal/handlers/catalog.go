package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"order-management-api/internal/catalog"
	"order-management-api/internal/models"
)

// CatalogHandler handles catalog-related HTTP requests
type CatalogHandler struct {
	cache *catalog.ProductCache
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(cache *catalog.ProductCache) *CatalogHandler {
	return &CatalogHandler{cache: cache}
}

// catalogResponse wraps the product list with cache metadata
type catalogResponse struct {
	Items   []models.Product `json:"items"`
	Version *int64           `json:"version"`
	Stale   bool             `json:"stale"`
}

// ListProducts handles GET /v1/catalog - the cached product list.
// ?active=true narrows the list to active products.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var items []models.Product
	if r.URL.Query().Get("active") == "true" {
		items = h.cache.ActiveProducts()
	} else {
		items = h.cache.Products()
	}

	writeJSONResponse(w, http.StatusOK, catalogResponse{
		Items:   items,
		Version: h.cache.Version(),
		Stale:   h.cache.Stale(),
	})
}

// GetProduct handles GET /v1/catalog/{productId}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := mux.Vars(r)["productId"]

	product := h.cache.ProductByID(productID)
	if product == nil {
		writeErrorResponse(w, http.StatusNotFound, "not_found", "Product not found", nil)
		return
	}

	writeJSONResponse(w, http.StatusOK, product)
}

// GetProductBySKU handles GET /v1/catalog/sku/{sku}
func (h *CatalogHandler) GetProductBySKU(w http.ResponseWriter, r *http.Request) {
	sku := mux.Vars(r)["sku"]

	product := h.cache.ProductBySKU(sku)
	if product == nil {
		writeErrorResponse(w, http.StatusNotFound, "not_found", "Product not found", nil)
		return
	}

	writeJSONResponse(w, http.StatusOK, product)
}

// RefreshCatalog handles POST /v1/catalog/refresh - revalidate the cache
// against the backend. ?force=true discards the cache first.
func (h *CatalogHandler) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"

	var result *catalog.RefreshResult
	var err error
	if force {
		result, err = h.cache.ForceRefresh(r.Context())
	} else {
		result, err = h.cache.Refresh(r.Context())
	}

	if err != nil {
		slog.Error("Catalog refresh failed", "force", force, "error", err)
		writeErrorResponse(w, http.StatusBadGateway, "backend_unavailable", "Failed to refresh catalog", nil)
		return
	}

	writeJSONResponse(w, http.StatusOK, result)
}
