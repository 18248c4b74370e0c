package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/amonks/taskmanager/internal/paths"
	"github.com/joho/godotenv"
)

// Environment variable names read by taskmanager.
const (
	EnvAIEnabled      = "AI_ENABLED"
	EnvAIProvider     = "AI_PROVIDER"
	EnvAIModel        = "AI_MODEL"
	EnvOpenAIKey      = "OPENAI_API_KEY"
	EnvAnthropicKey   = "ANTHROPIC_API_KEY"
	EnvHuggingFaceKey = "HUGGINGFACE_API_KEY"
	EnvPerplexityKey  = "PERPLEXITY_API_KEY"
	EnvLogLevel       = "TASKMANAGER_LOG_LEVEL"
)

var envKeys = []string{
	EnvAIEnabled,
	EnvAIProvider,
	EnvAIModel,
	EnvOpenAIKey,
	EnvAnthropicKey,
	EnvHuggingFaceKey,
	EnvPerplexityKey,
	EnvLogLevel,
}

// EnvExample is written to .taskmanager/.env.example by init.
const EnvExample = `# AI integration settings.
# Copy this file to .env and fill in the keys you want to use.

# OPENAI_API_KEY=sk-...
# ANTHROPIC_API_KEY=sk-ant-...
# HUGGINGFACE_API_KEY=hf_...
# PERPLEXITY_API_KEY=pplx-...

# Set to "true" to generate tasks with AI.
AI_ENABLED=false

# openai, anthropic, huggingface or perplexity
AI_PROVIDER=openai

# Leave empty to use the provider's default model.
AI_MODEL=
`

// Env holds the taskmanager-relevant environment: values from .env files
// overlaid by the process environment.
type Env map[string]string

// Keys holds provider API keys.
type Keys struct {
	OpenAI      string
	Anthropic   string
	HuggingFace string
	Perplexity  string
}

// LoadEnv reads .taskmanager/.env and then <project>/.env, keeping the
// first value seen for each key. Non-empty variables in the process
// environment win over both files. Missing files are skipped.
func LoadEnv(projectDir string) (Env, error) {
	env := Env{}

	files := []string{
		filepath.Join(projectDir, paths.ProjectDirName, ".env"),
		filepath.Join(projectDir, ".env"),
	}
	for _, path := range files {
		values, err := godotenv.Read(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		for k, v := range values {
			if _, ok := env[k]; !ok {
				env[k] = v
			}
		}
	}

	for _, key := range envKeys {
		if v := os.Getenv(key); v != "" {
			env[key] = v
		}
	}
	return env, nil
}

// Keys returns the provider API keys in env.
func (e Env) Keys() Keys {
	return Keys{
		OpenAI:      strings.TrimSpace(e[EnvOpenAIKey]),
		Anthropic:   strings.TrimSpace(e[EnvAnthropicKey]),
		HuggingFace: strings.TrimSpace(e[EnvHuggingFaceKey]),
		Perplexity:  strings.TrimSpace(e[EnvPerplexityKey]),
	}
}

// ForProvider returns the key for the named provider.
func (k Keys) ForProvider(provider string) string {
	switch strings.ToLower(provider) {
	case "openai":
		return k.OpenAI
	case "anthropic":
		return k.Anthropic
	case "huggingface":
		return k.HuggingFace
	case "perplexity":
		return k.Perplexity
	}
	return ""
}

// ApplyEnv overrides AI and log settings in cfg with values from env.
// An unparseable AI_ENABLED is reported and leaves the setting alone.
func (c *Config) ApplyEnv(env Env) error {
	if v, ok := env[EnvAIEnabled]; ok && strings.TrimSpace(v) != "" {
		enabled, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvAIEnabled, err)
		}
		c.AI.Enabled = enabled
	}
	if v := strings.TrimSpace(env[EnvAIProvider]); v != "" {
		c.AI.Provider = strings.ToLower(v)
	}
	if v := strings.TrimSpace(env[EnvAIModel]); v != "" {
		c.AI.Model = v
	}
	if v := strings.TrimSpace(env[EnvLogLevel]); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	return nil
}
