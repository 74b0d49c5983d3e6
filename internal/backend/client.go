package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"order-management-api/internal/models"
)

// VersionCheckResult is the contract of the backend's check-data-version call.
// Data is only populated when NeedsUpdate is true.
type VersionCheckResult struct {
	NeedsUpdate bool             `json:"needsUpdate"`
	Version     int64            `json:"version"`
	Data        []models.Product `json:"data,omitempty"`
}

// SubmitOrderRequest carries one order row plus its item rows
type SubmitOrderRequest struct {
	IdempotencyKey string                   `json:"idempotencyKey"`
	Order          models.OrderInsert       `json:"order"`
	Items          []models.OrderItemInsert `json:"items"`
}

// SubmitOrderResponse is the backend's acknowledgement of an order insert
type SubmitOrderResponse struct {
	OrderID   string `json:"orderId"`
	ItemCount int    `json:"itemCount"`
}

// Client provides methods to interact with the hosted backend API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new backend client. The timeout applies to every
// request; callers can cancel earlier through the context.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// HealthCheck checks the health of the backend API
func (c *Client) HealthCheck(ctx context.Context) (*models.HealthResponse, error) {
	url := fmt.Sprintf("%s/health", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("health check failed with status: %d", resp.StatusCode)
	}

	var health models.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &health, nil
}

// CheckDataVersion asks the backend whether the client's cached copy of a
// table is current. clientVersion is nil when no local cache exists.
func (c *Client) CheckDataVersion(ctx context.Context, table string, clientVersion *int64) (*VersionCheckResult, error) {
	url := fmt.Sprintf("%s/v1/rpc/check-data-version", c.baseURL)

	payload := struct {
		Table         string `json:"table"`
		ClientVersion *int64 `json:"clientVersion"`
	}{
		Table:         table,
		ClientVersion: clientVersion,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("version check failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result VersionCheckResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode version check response: %w", err)
	}

	return &result, nil
}

// FetchAllProducts retrieves the full product list, ordered by name.
// Used as the direct fallback read when the version check is unavailable.
func (c *Client) FetchAllProducts(ctx context.Context) ([]models.Product, error) {
	url := fmt.Sprintf("%s/v1/products?order=name", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// Expected format: {"items": [...]}; older deployments return a bare array
	var response struct {
		Items []models.Product `json:"items"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		var directProducts []models.Product
		if err2 := json.Unmarshal(body, &directProducts); err2 != nil {
			return nil, fmt.Errorf("failed to decode response as object or array: %w (original: %v)", err2, err)
		}
		return directProducts, nil
	}

	return response.Items, nil
}

// SubmitOrder inserts one order row and its item rows at the backend
func (c *Client) SubmitOrder(ctx context.Context, order SubmitOrderRequest) (*SubmitOrderResponse, error) {
	url := fmt.Sprintf("%s/v1/orders", c.baseURL)

	jsonData, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("order submission failed with status %d: %s", resp.StatusCode, string(body))
	}

	var orderResp SubmitOrderResponse
	if err := json.Unmarshal(body, &orderResp); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}

	return &orderResp, nil
}
