package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"nutriplan/internal/mealplan"
)

// --- OpenRouter API Configuration ---
const (
	defaultBaseURL = "https://openrouter.ai/api/v1"
	defaultModel   = "anthropic/claude-3.5-sonnet"
	requestTimeout = 120 * time.Second
)

// --- Structs for OpenRouter API Request/Response ---

type completionPayload struct {
	Model            string                 `json:"model"`
	Messages         []mealplan.ChatMessage `json:"messages"`
	Temperature      float64                `json:"temperature,omitempty"`
	MaxTokens        int                    `json:"max_tokens,omitempty"`
	TopP             float64                `json:"top_p,omitempty"`
	FrequencyPenalty float64                `json:"frequency_penalty,omitempty"`
}

type completionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage mealplan.Usage `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Client talks to the OpenRouter chat-completions endpoint. It implements
// mealplan.TextGenerator. One request per Invoke: rate limits surface as
// mealplan.ErrRateLimited for the caller to handle, never retried here.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient builds a client from OPENROUTER_API_KEY, OPENROUTER_BASE_URL,
// and OPENROUTER_MODEL. The key must be set; the rest have defaults.
func NewClient() (*Client, error) {
	apiKey := os.Getenv("OPENROUTER_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY environment variable is not set")
	}

	baseURL := os.Getenv("OPENROUTER_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := os.Getenv("OPENROUTER_MODEL")
	if model == "" {
		model = defaultModel
	}

	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: requestTimeout},
	}, nil
}

// Invoke sends one chat-completion request and returns the first choice.
func (c *Client) Invoke(ctx context.Context, messages []mealplan.ChatMessage, opts mealplan.GenerateOptions) (*mealplan.Completion, error) {
	payload := completionPayload{
		Model:            c.model,
		Messages:         messages,
		Temperature:      opts.Temperature,
		MaxTokens:        opts.MaxTokens,
		TopP:             opts.TopP,
		FrequencyPenalty: opts.FrequencyPenalty,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("model", c.model).Msg("OpenRouter request failed")
		return nil, fmt.Errorf("%w: %v", mealplan.ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %v", mealplan.ErrGenerationFailed, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		log.Warn().Str("model", c.model).Msg("OpenRouter rate limit hit")
		return nil, mealplan.ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		log.Error().Int("status", resp.StatusCode).Str("model", c.model).Msg("OpenRouter returned non-OK status")
		return nil, fmt.Errorf("%w: status %d", mealplan.ErrGenerationFailed, resp.StatusCode)
	}

	var parsed completionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", mealplan.ErrGenerationFailed, err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("%w: %s", mealplan.ErrGenerationFailed, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("%w: response contained no choices", mealplan.ErrGenerationFailed)
	}

	log.Info().
		Str("model", parsed.Model).
		Int("prompt_tokens", parsed.Usage.PromptTokens).
		Int("completion_tokens", parsed.Usage.CompletionTokens).
		Dur("latency", time.Since(start)).
		Msg("OpenRouter completion succeeded")

	return &mealplan.Completion{
		Content: parsed.Choices[0].Message.Content,
		Model:   parsed.Model,
		Usage:   parsed.Usage,
	}, nil
}
