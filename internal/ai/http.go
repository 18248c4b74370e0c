package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/amonks/taskmanager/task"
)

// DefaultTimeout bounds a single provider request.
const DefaultTimeout = 120 * time.Second

// maxErrorBody limits how much of an error response is quoted.
const maxErrorBody = 2048

// Options configures a provider client.
type Options struct {
	APIKey string
	Model  string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// HTTPClient overrides the default client with DefaultTimeout.
	HTTPClient *http.Client
}

func (o Options) httpClient() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	return &http.Client{Timeout: DefaultTimeout}
}

// completer sends one system+user exchange and returns the text reply.
type completer interface {
	complete(ctx context.Context, system, user string, params completionParams) (string, error)
}

type completionParams struct {
	Temperature float64
	MaxTokens   int
}

var (
	generateParams = completionParams{Temperature: 0.7, MaxTokens: 4096}
	expandParams   = completionParams{Temperature: 0.1, MaxTokens: 2048}
)

// postJSON posts payload to url and decodes the JSON response into out.
func postJSON(ctx context.Context, client *http.Client, provider, url string, headers map[string]string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", provider, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", provider, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%s: status %d: %s", provider, resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", provider, err)
	}
	return nil
}

// Client generates and expands tasks with one language model provider.
type Client struct {
	name string
	c    completer
}

// Name returns the provider name.
func (l *Client) Name() string { return l.name }

// GenerateTasks asks the provider for a task list.
func (l *Client) GenerateTasks(ctx context.Context, req GenerateRequest) ([]task.Task, error) {
	text, err := l.c.complete(ctx, generateSystemPrompt, GeneratePrompt(req), generateParams)
	if err != nil {
		return nil, err
	}
	tasks, err := ParseTasks(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.name, err)
	}
	return tasks, nil
}

// ExpandTask asks the provider to break a task into subtasks.
func (l *Client) ExpandTask(ctx context.Context, req ExpandRequest) (*Expansion, error) {
	text, err := l.c.complete(ctx, expandSystemPrompt, ExpandPrompt(req), expandParams)
	if err != nil {
		return nil, err
	}
	exp, err := ParseExpansion(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.name, err)
	}
	return exp, nil
}
