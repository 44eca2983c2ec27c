package llm

import (
	"fmt"
	"os"
	"strings"
)

// Provider represents the text-generation provider type
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderClaude Provider = "claude"
	ProviderOpenAI Provider = "openai"
)

// New creates an LLM instance for the given provider. An empty model keeps
// the provider's default.
func New(provider Provider, apiKey, model string) (LLM, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s API key is required", provider)
	}

	switch provider {
	case ProviderGemini:
		if model != "" {
			return NewGeminiWithModel(apiKey, model), nil
		}
		return NewGemini(apiKey), nil

	case ProviderClaude:
		if model != "" {
			return NewClaudeWithModel(apiKey, model), nil
		}
		return NewClaude(apiKey), nil

	case ProviderOpenAI:
		if model != "" {
			return NewOpenAIWithModel(apiKey, model), nil
		}
		return NewOpenAI(apiKey), nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s (supported: gemini, claude, openai)", provider)
	}
}

// CreateFromEnv creates an LLM instance from environment variables.
// Overrides take precedence over LLM_PROVIDER and the per-provider model
// variables.
func CreateFromEnv(providerOverride, modelOverride string) (LLM, error) {
	provider := strings.ToLower(providerOverride)
	if provider == "" {
		provider = strings.ToLower(os.Getenv("LLM_PROVIDER"))
	}

	switch Provider(provider) {
	case ProviderGemini, "":
		// Default to Gemini.
		return New(ProviderGemini, os.Getenv("GEMINI_API_KEY"),
			modelOrEnv(modelOverride, "GEMINI_MODEL"))

	case ProviderClaude:
		return New(ProviderClaude, os.Getenv("ANTHROPIC_API_KEY"),
			modelOrEnv(modelOverride, "CLAUDE_MODEL"))

	case ProviderOpenAI:
		return New(ProviderOpenAI, os.Getenv("OPENAI_API_KEY"),
			modelOrEnv(modelOverride, "OPENAI_MODEL"))

	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER: %s (supported: gemini, claude, openai)", provider)
	}
}

// AvailableProviders returns the supported provider list.
func AvailableProviders() []Provider {
	return []Provider{ProviderGemini, ProviderClaude, ProviderOpenAI}
}

func modelOrEnv(override, envVar string) string {
	if override != "" {
		return override
	}
	return os.Getenv(envVar)
}
