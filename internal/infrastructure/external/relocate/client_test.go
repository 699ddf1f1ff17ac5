package relocate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Darkprophet2323/thriveremote-hub/internal/domain/relocate"
)

func newTestClient(baseURL string) *Client {
	cfg := DefaultClientConfig(baseURL)
	cfg.Username = "demo"
	cfg.Password = "demo123"
	return NewClient(cfg)
}

func TestClient_FetchDataset_Live(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/relocation/data", r.URL.Path)

		username, password, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "demo", username)
		assert.Equal(t, "demo123", password)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(relocate.Dataset{
			Properties: []relocate.Property{
				{ID: "prop-1", Title: "Stone cottage", Location: "Peak District", Price: "£450,000"},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	ds, err := client.FetchDataset(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "live", ds.Source)
	assert.False(t, ds.FetchedAt.IsZero())
	require.Len(t, ds.Properties, 1)
	assert.Equal(t, "prop-1", ds.Properties[0].ID)
}

func TestClient_FetchDataset_ProviderErrorFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	// Отказ провайдера не доходит до вызывающего: отдаётся встроенный набор.
	ds, err := client.FetchDataset(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "fallback", ds.Source)
	assert.False(t, ds.IsEmpty())
}

func TestClient_FetchDataset_EmptyPayloadFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"properties": []}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	ds, err := client.FetchDataset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fallback", ds.Source)
}

func TestClient_FetchDataset_MalformedJSONFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	ds, err := client.FetchDataset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fallback", ds.Source)
}

func TestClient_IsHealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	assert.True(t, client.IsHealthy(context.Background()))

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer down.Close()

	assert.False(t, newTestClient(down.URL).IsHealthy(context.Background()))
}

func TestFallbackDataset(t *testing.T) {
	ds := FallbackDataset()

	assert.Equal(t, "fallback", ds.Source)
	assert.False(t, ds.IsEmpty())
	assert.NotEmpty(t, ds.MovingTips)
}
