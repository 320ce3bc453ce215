// Package llm calls an OpenAI-compatible chat completion API to pull
// structured contract fields out of document text.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

var ErrNotConfigured = errors.New("llm: api key not configured")

type Client struct {
	BaseURL string
	APIKey  string
	Model   string

	http    *resty.Client
	limiter *rate.Limiter
}

// New builds a client sharing one rate limiter across all calls. rps <= 0
// disables limiting.
func New(baseURL, apiKey, model string, rps float64, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	lim := rate.NewLimiter(rate.Inf, 1)
	if rps > 0 {
		lim = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Model:   model,
		http:    resty.New().SetTimeout(timeout),
		limiter: lim,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one system + user exchange and returns the raw reply.
func (c *Client) Complete(ctx context.Context, system, user string, jsonMode bool) (string, error) {
	if c.APIKey == "" {
		return "", ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	body := chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	if jsonMode {
		body.ResponseFormat = map[string]string{"type": "json_object"}
	}

	var resp chatResponse
	rr, err := c.http.R().SetContext(ctx).
		SetAuthToken(c.APIKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&resp).
		Post(c.BaseURL + "/chat/completions")
	if err != nil {
		return "", fmt.Errorf("llm request: %w", err)
	}
	if rr.IsError() {
		// some compatible servers reject response_format
		if jsonMode && rr.StatusCode() == 400 {
			return c.Complete(ctx, system, user, false)
		}
		return "", fmt.Errorf("llm: %s; body: %s", rr.Status(), abbreviate(rr.String(), 500))
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("llm: no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
