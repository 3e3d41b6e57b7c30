package llm

import (
	"context"
	"testing"
)

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: "mock"}, &captureRepo{}, discardLog())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", p.ModelID())
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Provider: "carrier-pigeon"}, &captureRepo{}, discardLog())
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewProvider_MissingKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "anthropic"
	_, err := NewProvider(context.Background(), cfg, &captureRepo{}, discardLog())
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestNewProviderFromEnv_ExplicitProvider(t *testing.T) {
	t.Setenv("TRAKAIDO_LLM_PROVIDER", "mock")

	p, err := NewProviderFromEnv(context.Background(), &captureRepo{}, discardLog())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", p.ModelID())
	}
}

func TestNewProviderFromEnv_ExplicitProviderMissingKey(t *testing.T) {
	t.Setenv("TRAKAIDO_LLM_PROVIDER", "openai")
	t.Setenv("TRAKAIDO_OPENAI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	_, err := NewProviderFromEnv(context.Background(), &captureRepo{}, discardLog())
	if err == nil {
		t.Fatal("expected error when explicit provider has no key")
	}
}

func TestNewProviderFromEnv_Discovery(t *testing.T) {
	t.Setenv("TRAKAIDO_LLM_PROVIDER", "")
	t.Setenv("TRAKAIDO_ANTHROPIC_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "sk-discovered")

	p, err := NewProviderFromEnv(context.Background(), &captureRepo{}, discardLog())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "gpt-4o-mini" {
		t.Fatalf("expected discovered openai default model, got %q", p.ModelID())
	}
}

func TestNewProviderFromEnv_NothingConfigured(t *testing.T) {
	for _, v := range []string{
		"TRAKAIDO_LLM_PROVIDER", "TRAKAIDO_ANTHROPIC_API_KEY", "TRAKAIDO_OPENAI_API_KEY",
		"TRAKAIDO_GEMINI_API_KEY", "TRAKAIDO_OPENROUTER_API_KEY",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(v, "")
	}

	_, err := NewProviderFromEnv(context.Background(), &captureRepo{}, discardLog())
	if err == nil {
		t.Fatal("expected error when nothing is configured")
	}
}
