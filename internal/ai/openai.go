package ai

import (
	"context"
	"fmt"
	"strings"
)

const (
	openAIBaseURL      = "https://api.openai.com/v1"
	defaultOpenAIModel = "gpt-4o"

	perplexityBaseURL      = "https://api.perplexity.ai"
	defaultPerplexityModel = "sonar"
)

// openAIClient speaks the chat completions protocol. Perplexity exposes
// the same API under a different base URL.
type openAIClient struct {
	provider string
	opts     Options
}

// NewOpenAI returns an OpenAI-backed Generator and Expander.
func NewOpenAI(opts Options) *Client {
	if opts.Model == "" {
		opts.Model = defaultOpenAIModel
	}
	if opts.BaseURL == "" {
		opts.BaseURL = openAIBaseURL
	}
	return &Client{name: "openai", c: &openAIClient{provider: "openai", opts: opts}}
}

// NewPerplexity returns a Perplexity-backed Generator and Expander.
func NewPerplexity(opts Options) *Client {
	if opts.Model == "" {
		opts.Model = defaultPerplexityModel
	}
	if opts.BaseURL == "" {
		opts.BaseURL = perplexityBaseURL
	}
	return &Client{name: "perplexity", c: &openAIClient{provider: "perplexity", opts: opts}}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *openAIClient) complete(ctx context.Context, system, user string, params completionParams) (string, error) {
	if c.opts.APIKey == "" {
		return "", fmt.Errorf("%s: %w", c.provider, ErrMissingKey)
	}
	payload := chatRequest{
		Model: c.opts.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	}
	headers := map[string]string{"Authorization": "Bearer " + c.opts.APIKey}
	url := strings.TrimRight(c.opts.BaseURL, "/") + "/chat/completions"

	var out chatResponse
	if err := postJSON(ctx, c.opts.httpClient(), c.provider, url, headers, payload, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%s: %w", c.provider, ErrEmptyResponse)
	}
	return out.Choices[0].Message.Content, nil
}
