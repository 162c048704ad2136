package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"contai/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSearch(url string) *SearchService {
	return NewSearchService(&config.SearchConfig{
		URL:     url,
		APIKey:  "search-key",
		Enabled: true,
	}, zap.NewNop())
}

func TestResolveSupplierContext_Success(t *testing.T) {
	var captured struct {
		Query string `json:"query"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer search-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_ = json.NewEncoder(w).Encode(map[string]string{
			"answer": "Vende materiale da ufficio e cancelleria.",
		})
	}))
	defer server.Close()

	got := newTestSearch(server.URL).ResolveSupplierContext(context.Background(), "Rossi Forniture SRL", "Milano")

	assert.Equal(t, "Vende materiale da ufficio e cancelleria.", got)
	assert.Contains(t, captured.Query, "Rossi Forniture SRL")
	assert.Contains(t, captured.Query, "Milano")
}

func TestResolveSupplierContext_DegradesToSentinel(t *testing.T) {
	t.Run("connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		got := newTestSearch(server.URL).ResolveSupplierContext(context.Background(), "Rossi", "Milano")
		assert.Equal(t, SupplierContextUnavailable, got)
	})

	t.Run("provider error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		}))
		defer server.Close()

		got := newTestSearch(server.URL).ResolveSupplierContext(context.Background(), "Rossi", "Milano")
		assert.Equal(t, SupplierContextUnavailable, got)
	})

	t.Run("unparsable response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>gateway timeout</html>"))
		}))
		defer server.Close()

		got := newTestSearch(server.URL).ResolveSupplierContext(context.Background(), "Rossi", "Milano")
		assert.Equal(t, SupplierContextUnavailable, got)
	})

	t.Run("empty answer", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"answer": "  "})
		}))
		defer server.Close()

		got := newTestSearch(server.URL).ResolveSupplierContext(context.Background(), "Rossi", "Milano")
		assert.Equal(t, SupplierContextUnavailable, got)
	})
}
