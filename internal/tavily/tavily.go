package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"nutriplan/internal/mealplan"
)

// --- Tavily API Configuration ---
const (
	defaultBaseURL = "https://api.tavily.com"
	requestTimeout = 15 * time.Second
	cacheSize      = 512
)

type searchPayload struct {
	Query       string `json:"query"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results"`
}

type searchResponse struct {
	Results []mealplan.SearchResult `json:"results"`
}

// Client talks to the Tavily search API and implements
// mealplan.EvidenceSearcher. Identical queries are served from an in-process
// LRU cache, so a plan full of common items does not re-query per request.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *lru.Cache[string, []mealplan.SearchResult]
}

// NewClient builds a client from TAVILY_API_KEY and TAVILY_BASE_URL. A
// missing key is not an error: the client reports itself unconfigured and
// the evidence step is skipped.
func NewClient() (*Client, error) {
	cache, err := lru.New[string, []mealplan.SearchResult](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create search cache: %w", err)
	}

	baseURL := os.Getenv("TAVILY_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		apiKey:     os.Getenv("TAVILY_API_KEY"),
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		cache:      cache,
	}, nil
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Search runs one Tavily query and returns up to maxResults hits.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]mealplan.SearchResult, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("tavily client is not configured")
	}

	if cached, ok := c.cache.Get(query); ok {
		return cached, nil
	}

	payload := searchPayload{
		Query:       query,
		SearchDepth: "basic",
		MaxResults:  maxResults,
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Str("query", query).Msg("Tavily returned non-OK status")
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	results := parsed.Results
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	c.cache.Add(query, results)

	return results, nil
}
