package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"order-management-api/internal/backend"
	"order-management-api/internal/models"
	"order-management-api/internal/storage"
)

// tableProducts is the backend table the cache mirrors
const tableProducts = "products"

// Client is the subset of the backend API the cache depends on
type Client interface {
	CheckDataVersion(ctx context.Context, table string, clientVersion *int64) (*backend.VersionCheckResult, error)
	FetchAllProducts(ctx context.Context) ([]models.Product, error)
}

// RefreshStatus describes how a refresh resolved
type RefreshStatus string

const (
	// RefreshFresh means the backend reported a newer version and the
	// cached list was replaced wholesale
	RefreshFresh RefreshStatus = "fresh"

	// RefreshUnchanged means the cached list was already current; only the
	// version was acknowledged and no product payload was transferred
	RefreshUnchanged RefreshStatus = "unchanged"

	// RefreshDegraded means the version check was unavailable and the list
	// came from a direct fetch, without version bookkeeping
	RefreshDegraded RefreshStatus = "degraded"
)

// RefreshResult reports the outcome of a Refresh call
type RefreshResult struct {
	Status       RefreshStatus `json:"status"`
	Version      *int64        `json:"version,omitempty"`
	ProductCount int           `json:"productCount"`
}

// cachePayload is the persisted shape: the product list is only ever
// replaced together with the version it was fetched at
type cachePayload struct {
	Version  int64            `json:"version"`
	Products []models.Product `json:"products"`
}

// ProductCache serves the full product list from local persisted storage
// while keeping it consistent with the backend via a cheap version check.
// Stale data keeps being served while revalidation runs (stale-while-revalidate);
// the freshness window is a hint, not an eviction policy.
type ProductCache struct {
	mu        sync.RWMutex
	store     storage.KeyValueStore
	client    Client
	freshness time.Duration

	version   *int64
	products  []models.Product
	fetchedAt time.Time
}

// New creates a product cache over the given persistence substrate and
// backend client. freshness bounds how long fetched data counts as fresh.
func New(store storage.KeyValueStore, client Client, freshness time.Duration) *ProductCache {
	if freshness <= 0 {
		freshness = 5 * time.Minute
	}

	return &ProductCache{
		store:     store,
		client:    client,
		freshness: freshness,
	}
}

// Load reads the persisted cache, if any. A corrupt blob is dropped and
// treated as a cold start; Load never fails because of it.
func (pc *ProductCache) Load() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	data, found, err := pc.store.Get(storage.KeyProductCache)
	if err != nil {
		slog.Warn("Failed to read product cache, starting cold", "error", err)
		return
	}
	if !found {
		slog.Debug("No persisted product cache found")
		return
	}

	var payload cachePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		slog.Warn("Persisted product cache is corrupt, discarding", "error", err)
		if err := pc.store.Delete(storage.KeyProductCache); err != nil {
			slog.Warn("Failed to delete corrupt product cache", "error", err)
		}
		return
	}

	version := payload.Version
	pc.version = &version
	pc.products = payload.Products
	// fetchedAt stays zero: persisted data is served immediately but
	// counts as stale until the next successful revalidation

	slog.Info("Product cache loaded from storage",
		"version", payload.Version,
		"products", len(payload.Products))
}

// Refresh revalidates the cache against the backend. When the version check
// itself is unavailable it degrades to a direct fetch of all products; only
// a failure of that second path is returned to the caller.
func (pc *ProductCache) Refresh(ctx context.Context) (*RefreshResult, error) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	result, err := pc.client.CheckDataVersion(ctx, tableProducts, pc.versionLocked())
	if err != nil {
		slog.Warn("Version check unavailable, falling back to direct fetch", "error", err)
		return pc.refreshDegradedLocked(ctx)
	}

	if !result.NeedsUpdate && len(pc.products) > 0 {
		// Cached list is current; acknowledge the version without
		// touching the persisted list
		version := result.Version
		pc.version = &version
		pc.fetchedAt = time.Now()

		slog.Debug("Product cache is current", "version", result.Version)
		return &RefreshResult{
			Status:       RefreshUnchanged,
			Version:      pc.versionLocked(),
			ProductCount: len(pc.products),
		}, nil
	}

	products := result.Data
	if products == nil {
		// The backend reported no update needed but we hold nothing
		// locally; fetch the list directly at the reported version
		products, err = pc.client.FetchAllProducts(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch products: %w", err)
		}
	}

	pc.replaceLocked(products, result.Version)

	slog.Info("Product cache refreshed",
		"version", result.Version,
		"products", len(products))

	return &RefreshResult{
		Status:       RefreshFresh,
		Version:      pc.versionLocked(),
		ProductCount: len(products),
	}, nil
}

// ForceRefresh discards the cache entirely and refetches unconditionally
func (pc *ProductCache) ForceRefresh(ctx context.Context) (*RefreshResult, error) {
	pc.mu.Lock()
	if err := pc.store.Delete(storage.KeyProductCache); err != nil {
		slog.Warn("Failed to delete persisted product cache", "error", err)
	}
	pc.version = nil
	pc.products = nil
	pc.fetchedAt = time.Time{}
	pc.mu.Unlock()

	return pc.Refresh(ctx)
}

// refreshDegradedLocked is the availability fallback: fetch the full list
// directly and keep serving it at the previously-known version
func (pc *ProductCache) refreshDegradedLocked(ctx context.Context) (*RefreshResult, error) {
	products, err := pc.client.FetchAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	version := int64(0)
	if pc.version != nil {
		version = *pc.version
	}
	pc.replaceLocked(products, version)

	slog.Info("Product cache refreshed in degraded mode",
		"version", version,
		"products", len(products))

	return &RefreshResult{
		Status:       RefreshDegraded,
		Version:      pc.versionLocked(),
		ProductCount: len(products),
	}, nil
}

// replaceLocked swaps the list and version together and persists them as one blob
func (pc *ProductCache) replaceLocked(products []models.Product, version int64) {
	pc.products = products
	pc.version = &version
	pc.fetchedAt = time.Now()

	data, err := json.Marshal(cachePayload{Version: version, Products: products})
	if err != nil {
		slog.Warn("Failed to marshal product cache", "error", err)
		return
	}

	if err := pc.store.Set(storage.KeyProductCache, data); err != nil {
		slog.Warn("Failed to persist product cache", "error", err)
	}
}

// versionLocked returns a copy of the current version pointer
func (pc *ProductCache) versionLocked() *int64 {
	if pc.version == nil {
		return nil
	}
	v := *pc.version
	return &v
}

// Version returns the last acknowledged cache version, or nil before the
// first successful fetch
func (pc *ProductCache) Version() *int64 {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return pc.versionLocked()
}

// Stale reports whether the freshness window has elapsed and a revalidation
// should run. Stale data is still served in the meantime.
func (pc *ProductCache) Stale() bool {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return time.Since(pc.fetchedAt) > pc.freshness
}

// Products returns the full cached product list
func (pc *ProductCache) Products() []models.Product {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	out := make([]models.Product, len(pc.products))
	copy(out, pc.products)
	return out
}

// ActiveProducts returns the products with active status, recomputed on read
func (pc *ProductCache) ActiveProducts() []models.Product {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	active := make([]models.Product, 0, len(pc.products))
	for _, p := range pc.products {
		if p.Status == models.StatusActive {
			active = append(active, p)
		}
	}
	return active
}

// ProductByID returns the cached product with the given ID, or nil
func (pc *ProductCache) ProductByID(id string) *models.Product {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	for i := range pc.products {
		if pc.products[i].ID == id {
			p := pc.products[i]
			return &p
		}
	}
	return nil
}

// ProductBySKU returns the cached product with the given SKU, or nil
func (pc *ProductCache) ProductBySKU(sku string) *models.Product {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	for i := range pc.products {
		if pc.products[i].SKU == sku {
			p := pc.products[i]
			return &p
		}
	}
	return nil
}

// Count returns the number of cached products
func (pc *ProductCache) Count() int {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return len(pc.products)
}
