package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutriplan/internal/mealplan"
)

func testClient(t *testing.T, apiKey, baseURL string) *Client {
	cache, err := lru.New[string, []mealplan.SearchResult](8)
	require.NoError(t, err)
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		cache:      cache,
	}
}

func TestConfigured(t *testing.T) {
	assert.True(t, testClient(t, "key", "").Configured())
	assert.False(t, testClient(t, "", "").Configured())
}

func TestSearch(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/search", r.URL.Path)

		var payload searchPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "scientific evidence Oatmeal nutrition", payload.Query)
		assert.Equal(t, 2, payload.MaxResults)

		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"title": "Oats and cholesterol", "url": "https://example.org/oats", "score": 0.92},
				{"title": "Beta-glucan review", "url": "https://example.org/bg", "score": 0.85},
				{"title": "Extra hit", "url": "https://example.org/extra", "score": 0.60},
			},
		})
	}))
	defer srv.Close()

	c := testClient(t, "key", srv.URL)
	results, err := c.Search(context.Background(), "scientific evidence Oatmeal nutrition", 2)
	require.NoError(t, err)

	// Truncated to maxResults even when the API returns more.
	require.Len(t, results, 2)
	assert.Equal(t, "https://example.org/oats", results[0].URL)

	// Second identical query is served from the cache.
	again, err := c.Search(context.Background(), "scientific evidence Oatmeal nutrition", 2)
	require.NoError(t, err)
	assert.Equal(t, results, again)
	assert.Equal(t, 1, calls)
}

func TestSearchUnconfigured(t *testing.T) {
	_, err := testClient(t, "", "http://unused").Search(context.Background(), "q", 2)
	assert.Error(t, err)
}

func TestSearchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(t, "key", srv.URL).Search(context.Background(), "q", 2)
	assert.Error(t, err)
}
