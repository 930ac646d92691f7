package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutriplan/internal/mealplan"
)

func testClient(baseURL string) *Client {
	return &Client{
		apiKey:     "test-key",
		baseURL:    baseURL,
		model:      "test/model",
		httpClient: http.DefaultClient,
	}
}

func TestInvoke(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var payload completionPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "test/model", payload.Model)
		require.Len(t, payload.Messages, 2)
		assert.Equal(t, "system", payload.Messages[0].Role)

		json.NewEncoder(w).Encode(map[string]any{
			"model": "test/model",
			"choices": []map[string]any{
				{"message": map[string]string{"content": `{"name": "x"}`}, "finish_reason": "stop"},
			},
			"usage": map[string]int{"prompt_tokens": 100, "completion_tokens": 50, "total_tokens": 150},
		})
	}))
	defer srv.Close()

	completion, err := testClient(srv.URL).Invoke(context.Background(), []mealplan.ChatMessage{
		{Role: "system", Content: "be helpful"},
		{Role: "user", Content: "plan my day"},
	}, mealplan.GenerateOptions{Temperature: 0.7, MaxTokens: 8000})

	require.NoError(t, err)
	assert.Equal(t, `{"name": "x"}`, completion.Content)
	assert.Equal(t, 150, completion.Usage.TotalTokens)
}

func TestInvokeRateLimited(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Invoke(context.Background(), nil, mealplan.GenerateOptions{})
	assert.ErrorIs(t, err, mealplan.ErrRateLimited)
	// The client never retries on its own.
	assert.Equal(t, 1, calls)
}

func TestInvokeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Invoke(context.Background(), nil, mealplan.GenerateOptions{})
	assert.ErrorIs(t, err, mealplan.ErrGenerationFailed)
}

func TestInvokeEmbeddedAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "model overloaded", "code": 502},
		})
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Invoke(context.Background(), nil, mealplan.GenerateOptions{})
	require.ErrorIs(t, err, mealplan.ErrGenerationFailed)
	assert.Contains(t, err.Error(), "model overloaded")
}
