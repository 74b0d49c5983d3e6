package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"order-management-api/internal/backend"
	"order-management-api/internal/catalog"
	"order-management-api/internal/config"
	"order-management-api/internal/drafts"
	"order-management-api/internal/handlers"
	"order-management-api/internal/middleware"
	"order-management-api/internal/orders"
	"order-management-api/internal/storage"
)

const (
	serviceName = "order-management-api"
	version     = "1.0.0"
)

func main() {
	cfg := config.Load()

	slog.Info("Starting order management API",
		"service", serviceName,
		"version", version,
		"port", cfg.Port,
		"environment", cfg.Environment,
		"backend_url", cfg.BackendURL)

	// Persistence substrate shared by the cache and the draft store
	store, err := storage.NewFileStore(cfg.DataDir)
	if err != nil {
		slog.Error("Failed to initialize local storage", "error", err)
		os.Exit(1)
	}

	backendClient := backend.NewClient(cfg.BackendURL, cfg.BackendAPIKey, cfg.RequestTimeout)

	// Serve whatever was persisted immediately, then revalidate
	productCache := catalog.New(store, backendClient, cfg.CatalogFreshness)
	productCache.Load()

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	if _, err := productCache.Refresh(startupCtx); err != nil {
		slog.Warn("Initial catalog refresh failed, serving persisted cache", "error", err)
	}
	cancelStartup()

	draftStore := drafts.NewStore(store)
	checkoutService := orders.NewService(backendClient, draftStore)

	// Background revalidation keeps the catalog within its freshness window
	revalidateCtx, stopRevalidation := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(cfg.RevalidateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-revalidateCtx.Done():
				return
			case <-ticker.C:
				if !productCache.Stale() {
					continue
				}
				ctx, cancel := context.WithTimeout(revalidateCtx, cfg.RequestTimeout)
				if _, err := productCache.Refresh(ctx); err != nil {
					slog.Warn("Background catalog revalidation failed", "error", err)
				}
				cancel()
			}
		}
	}()

	// Handlers
	catalogHandler := handlers.NewCatalogHandler(productCache)
	draftHandler := handlers.NewDraftHandler(draftStore, productCache, checkoutService)
	healthHandler := handlers.NewHealthHandler(backendClient, serviceName, version)

	// Router
	r := mux.NewRouter()

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.Use(middleware.Auth(strings.Split(cfg.APIKeys, ",")))

	// Catalog routes
	v1.HandleFunc("/catalog", catalogHandler.ListProducts).Methods("GET")
	v1.HandleFunc("/catalog/refresh", catalogHandler.RefreshCatalog).Methods("POST")
	v1.HandleFunc("/catalog/sku/{sku}", catalogHandler.GetProductBySKU).Methods("GET")
	v1.HandleFunc("/catalog/{productId}", catalogHandler.GetProduct).Methods("GET")

	// Per-store draft routes
	v1.HandleFunc("/stores/{storeId}/draft", draftHandler.GetDraft).Methods("GET")
	v1.HandleFunc("/stores/{storeId}/draft", draftHandler.ClearDraft).Methods("DELETE")
	v1.HandleFunc("/stores/{storeId}/draft/summary", draftHandler.GetSummary).Methods("GET")
	v1.HandleFunc("/stores/{storeId}/draft/notes", draftHandler.UpdateNotes).Methods("PUT")
	v1.HandleFunc("/stores/{storeId}/draft/items", draftHandler.AddItem).Methods("POST")
	v1.HandleFunc("/stores/{storeId}/draft/items/{itemId}", draftHandler.UpdateQuantity).Methods("PUT")
	v1.HandleFunc("/stores/{storeId}/draft/items/{itemId}", draftHandler.RemoveItem).Methods("DELETE")
	v1.HandleFunc("/stores/{storeId}/checkout", draftHandler.Checkout).Methods("POST")

	// Health check endpoint (no auth required)
	r.HandleFunc("/health", healthHandler.Health).Methods("GET")

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		slog.Info("Shutting down server...")
		stopRevalidation()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
	}()

	slog.Info("Server ready to accept connections", "address", server.Addr)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Server failed to start", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped")
}
