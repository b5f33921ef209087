// Package openai implements the chat-completion client used for the
// language-model fallback.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/snackwise/backend/config"
	"github.com/snackwise/backend/internal/domain"
	"github.com/snackwise/backend/internal/logger"
)

// Client handles communication with the OpenAI chat-completions API.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	rateLimiter *rate.Limiter
	log         zerolog.Logger
}

// NewClient creates a new completion client from cfg.
func NewClient(cfg config.OpenAIConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		apiKey:      cfg.APIKey,
		baseURL:     baseURL,
		model:       cfg.Model,
		rateLimiter: rate.NewLimiter(rate.Limit(2), 5),
		log:         logger.With("openai"),
	}
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []domain.Turn `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message domain.Turn `json:"message"`
	} `json:"choices"`
}

// Complete sends the conversation turns to the chat-completions endpoint
// and returns the assistant's reply.
func (c *Client) Complete(ctx context.Context, turns []domain.Turn) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: rate limiter: %v", domain.ErrCompletionFailure, err)
	}

	payload, err := json.Marshal(chatCompletionRequest{Model: c.model, Messages: turns})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", domain.ErrCompletionFailure, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", domain.ErrCompletionFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCompletionFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.log.Warn().Int("status", resp.StatusCode).Str("body", strings.TrimSpace(string(body))).Msg("completion request rejected")
		return "", fmt.Errorf("%w: status %d", domain.ErrCompletionFailure, resp.StatusCode)
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrCompletionFailure, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", domain.ErrCompletionFailure)
	}

	return completion.Choices[0].Message.Content, nil
}
