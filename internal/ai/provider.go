package ai

import (
	"fmt"
	"strings"

	"github.com/amonks/taskmanager/internal/config"
)

// Providers lists the supported provider names.
var Providers = []string{"openai", "anthropic", "huggingface", "perplexity"}

// Selection explains which generator New picked.
type Selection struct {
	Provider string
	Model    string

	// Reason is set when the simulator was chosen instead of a provider.
	Reason string
}

// Simulated reports whether the simulator was selected.
func (s Selection) Simulated() bool {
	return s.Provider == Simulator{}.Name()
}

// New returns the generator configured by cfg. Disabled AI, an unknown
// provider or a missing API key select the Simulator.
func New(cfg config.AI, keys config.Keys) (Generator, Selection) {
	sim := Selection{Provider: Simulator{}.Name()}
	if !cfg.Enabled {
		sim.Reason = "AI is disabled (set AI_ENABLED=true in .taskmanager/.env)"
		return Simulator{}, sim
	}
	client, err := newClient(cfg.Provider, cfg.Model, keys)
	if err != nil {
		sim.Reason = err.Error()
		return Simulator{}, sim
	}
	return client, Selection{Provider: client.Name(), Model: cfg.Model}
}

// NewExpander returns a provider that can expand tasks. Perplexity is
// preferred when its key is set; otherwise the configured provider is
// used. It returns false when no provider is usable.
func NewExpander(cfg config.AI, keys config.Keys) (Expander, bool) {
	if keys.Perplexity != "" {
		model := ""
		if strings.EqualFold(cfg.Provider, "perplexity") {
			model = cfg.Model
		}
		return NewPerplexity(Options{APIKey: keys.Perplexity, Model: model}), true
	}
	if !cfg.Enabled {
		return nil, false
	}
	client, err := newClient(cfg.Provider, cfg.Model, keys)
	if err != nil {
		return nil, false
	}
	return client, true
}

func newClient(provider, model string, keys config.Keys) (*Client, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		provider = "openai"
	}
	key := keys.ForProvider(provider)
	opts := Options{APIKey: key, Model: model}
	var client *Client
	switch provider {
	case "openai":
		client = NewOpenAI(opts)
	case "anthropic":
		client = NewAnthropic(opts)
	case "huggingface":
		client = NewHuggingFace(opts)
	case "perplexity":
		client = NewPerplexity(opts)
	default:
		return nil, fmt.Errorf("unsupported AI provider %q (supported: %s)", provider, strings.Join(Providers, ", "))
	}
	if key == "" {
		return nil, fmt.Errorf("%s: %w (set %s in .taskmanager/.env)", provider, ErrMissingKey, keyEnvName(provider))
	}
	return client, nil
}

func keyEnvName(provider string) string {
	switch provider {
	case "anthropic":
		return config.EnvAnthropicKey
	case "huggingface":
		return config.EnvHuggingFaceKey
	case "perplexity":
		return config.EnvPerplexityKey
	}
	return config.EnvOpenAIKey
}
