package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"order-management-api/internal/models"
)

// Auth creates an API key authentication middleware for the given keys
func Auth(validAPIKeys []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get("X-API-Key")

			if apiKey == "" {
				slog.Warn("Authentication failed: missing API key", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
				writeErrorResponse(w, http.StatusUnauthorized, "unauthorized", "API key required")
				return
			}

			if !isValidAPIKey(apiKey, validAPIKeys) {
				slog.Warn("Authentication failed: invalid API key",
					"remote_addr", r.RemoteAddr,
					"api_key", maskAPIKey(apiKey),
					"path", r.URL.Path)
				writeErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Invalid API key")
				return
			}

			slog.Debug("Authentication successful", "remote_addr", r.RemoteAddr, "api_key", maskAPIKey(apiKey))
			next.ServeHTTP(w, r)
		})
	}
}

// isValidAPIKey checks if the provided API key is valid
func isValidAPIKey(apiKey string, validKeys []string) bool {
	for _, validKey := range validKeys {
		if strings.TrimSpace(validKey) == apiKey {
			return true
		}
	}
	return false
}

// writeErrorResponse writes an error response in JSON format
func writeErrorResponse(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// maskAPIKey masks an API key for logging (shows only first 4 characters)
func maskAPIKey(apiKey string) string {
	if len(apiKey) <= 4 {
		return strings.Repeat("*", len(apiKey))
	}
	return apiKey[:4] + strings.Repeat("*", len(apiKey)-4)
}
