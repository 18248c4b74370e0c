package ai

import (
	"context"
	"fmt"
	"strings"
)

const (
	huggingFaceBaseURL      = "https://api-inference.huggingface.co/models"
	defaultHuggingFaceModel = "mistralai/Mixtral-8x7B-Instruct-v0.1"
)

type huggingFaceClient struct {
	opts Options
}

// NewHuggingFace returns a Hugging Face inference API Generator and Expander.
func NewHuggingFace(opts Options) *Client {
	if opts.Model == "" {
		opts.Model = defaultHuggingFaceModel
	}
	if opts.BaseURL == "" {
		opts.BaseURL = huggingFaceBaseURL
	}
	return &Client{name: "huggingface", c: &huggingFaceClient{opts: opts}}
}

type huggingFaceRequest struct {
	Inputs     string                `json:"inputs"`
	Parameters huggingFaceParameters `json:"parameters"`
}

type huggingFaceParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

type huggingFaceResult struct {
	GeneratedText string `json:"generated_text"`
}

func (c *huggingFaceClient) complete(ctx context.Context, system, user string, params completionParams) (string, error) {
	if c.opts.APIKey == "" {
		return "", fmt.Errorf("huggingface: %w", ErrMissingKey)
	}
	payload := huggingFaceRequest{
		// Text generation models take a single prompt.
		Inputs: fmt.Sprintf("<s>[INST] %s\n\n%s [/INST]", system, user),
		Parameters: huggingFaceParameters{
			MaxNewTokens: min(params.MaxTokens, 2048),
			Temperature:  params.Temperature,
		},
	}
	headers := map[string]string{"Authorization": "Bearer " + c.opts.APIKey}
	url := strings.TrimRight(c.opts.BaseURL, "/") + "/" + c.opts.Model

	var out []huggingFaceResult
	if err := postJSON(ctx, c.opts.httpClient(), "huggingface", url, headers, payload, &out); err != nil {
		return "", err
	}
	if len(out) == 0 || strings.TrimSpace(out[0].GeneratedText) == "" {
		return "", fmt.Errorf("huggingface: %w", ErrEmptyResponse)
	}
	return out[0].GeneratedText, nil
}
