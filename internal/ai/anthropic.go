package ai

import (
	"context"
	"fmt"
	"strings"
)

const (
	anthropicBaseURL      = "https://api.anthropic.com/v1"
	anthropicVersion      = "2023-06-01"
	defaultAnthropicModel = "claude-3-5-sonnet-latest"
)

type anthropicClient struct {
	opts Options
}

// NewAnthropic returns an Anthropic-backed Generator and Expander.
func NewAnthropic(opts Options) *Client {
	if opts.Model == "" {
		opts.Model = defaultAnthropicModel
	}
	if opts.BaseURL == "" {
		opts.BaseURL = anthropicBaseURL
	}
	return &Client{name: "anthropic", c: &anthropicClient{opts: opts}}
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (c *anthropicClient) complete(ctx context.Context, system, user string, params completionParams) (string, error) {
	if c.opts.APIKey == "" {
		return "", fmt.Errorf("anthropic: %w", ErrMissingKey)
	}
	payload := anthropicRequest{
		Model:       c.opts.Model,
		System:      system,
		Messages:    []anthropicMessage{{Role: "user", Content: user}},
		MaxTokens:   params.MaxTokens,
		Temperature: params.Temperature,
	}
	headers := map[string]string{
		"x-api-key":         c.opts.APIKey,
		"anthropic-version": anthropicVersion,
	}
	url := strings.TrimRight(c.opts.BaseURL, "/") + "/messages"

	var out anthropicResponse
	if err := postJSON(ctx, c.opts.httpClient(), "anthropic", url, headers, payload, &out); err != nil {
		return "", err
	}
	var text strings.Builder
	for _, block := range out.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", fmt.Errorf("anthropic: %w", ErrEmptyResponse)
	}
	return text.String(), nil
}
