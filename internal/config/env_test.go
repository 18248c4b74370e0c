package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/amonks/taskmanager/internal/config"
	"github.com/amonks/taskmanager/internal/testsupport"
)

func writeEnvFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestLoadEnv_NoFiles(t *testing.T) {
	testsupport.SetupTestHome(t)

	env, err := config.LoadEnv(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(env) != 0 {
		t.Errorf("expected empty env, got %v", env)
	}
}

func TestLoadEnv_FilePrecedence(t *testing.T) {
	testsupport.SetupTestHome(t)
	projectDir := t.TempDir()

	writeEnvFile(t, filepath.Join(projectDir, ".taskmanager", ".env"), "OPENAI_API_KEY=from-taskmanager\nAI_ENABLED=true\n")
	writeEnvFile(t, filepath.Join(projectDir, ".env"), "OPENAI_API_KEY=from-root\nANTHROPIC_API_KEY=\"sk-ant\"\n")

	env, err := config.LoadEnv(projectDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	keys := env.Keys()
	if keys.OpenAI != "from-taskmanager" {
		t.Errorf("OpenAI = %q, expected .taskmanager/.env to win", keys.OpenAI)
	}
	if keys.Anthropic != "sk-ant" {
		t.Errorf("Anthropic = %q, expected %q", keys.Anthropic, "sk-ant")
	}
}

func TestLoadEnv_ProcessWins(t *testing.T) {
	testsupport.SetupTestHome(t)
	projectDir := t.TempDir()
	writeEnvFile(t, filepath.Join(projectDir, ".env"), "AI_PROVIDER=anthropic\n")
	t.Setenv("AI_PROVIDER", "openai")

	env, err := config.LoadEnv(projectDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env[config.EnvAIProvider] != "openai" {
		t.Errorf("AI_PROVIDER = %q, expected process value", env[config.EnvAIProvider])
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := config.Default()
	err := cfg.ApplyEnv(config.Env{
		config.EnvAIEnabled:  "true",
		config.EnvAIProvider: "HuggingFace",
		config.EnvAIModel:    "mistral",
		config.EnvLogLevel:   "DEBUG",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.AI.Enabled || cfg.AI.Provider != "huggingface" || cfg.AI.Model != "mistral" {
		t.Errorf("unexpected AI config: %+v", cfg.AI)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, expected debug", cfg.Log.Level)
	}

	if err := cfg.ApplyEnv(config.Env{config.EnvAIEnabled: "maybe"}); err == nil {
		t.Error("expected error for invalid AI_ENABLED")
	}
}

func TestKeys_ForProvider(t *testing.T) {
	keys := config.Keys{OpenAI: "o", Anthropic: "a", HuggingFace: "h", Perplexity: "p"}
	for provider, want := range map[string]string{"openai": "o", "Anthropic": "a", "huggingface": "h", "perplexity": "p", "other": ""} {
		if got := keys.ForProvider(provider); got != want {
			t.Errorf("ForProvider(%q) = %q, expected %q", provider, got, want)
		}
	}
}
