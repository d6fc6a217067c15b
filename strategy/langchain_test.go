package strategy

import (
	"testing"

	"github.com/agentsystems/model-router/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

func TestNewAnthropicLLM(t *testing.T) {
	t.Setenv("ROUTER_TEST_ANTHROPIC_KEY", "sk-ant-test")
	rec := model.ConnectionRecord{
		HostingProvider:        model.ProviderAnthropic,
		HostingProviderModelID: "claude-sonnet-4-20250514",
		Enabled:                true,
		Auth:                   model.AuthSpec{Method: model.AuthAPIKey, APIKeyEnv: "ROUTER_TEST_ANTHROPIC_KEY"},
	}

	obj, err := NewAnthropicLLM("claude-sonnet-4", rec)
	require.NoError(t, err)
	assert.IsType(t, &anthropic.LLM{}, obj)
	assert.Implements(t, (*llms.Model)(nil), obj)
}

func TestNewOpenAILLM(t *testing.T) {
	t.Setenv("ROUTER_TEST_OPENAI_KEY", "sk-test")
	rec := model.ConnectionRecord{
		HostingProvider: model.ProviderOpenAI,
		Enabled:         true,
		Auth:            model.AuthSpec{Method: model.AuthAPIKey, APIKeyEnv: "ROUTER_TEST_OPENAI_KEY"},
		BaseURL:         "http://localhost:8000/v1",
	}

	obj, err := NewOpenAILLM("gpt-4o", rec)
	require.NoError(t, err)
	assert.IsType(t, &openai.LLM{}, obj)
}

func TestNewOllamaLLM(t *testing.T) {
	rec := model.ConnectionRecord{
		HostingProvider:        model.ProviderOllama,
		HostingProviderModelID: "llama3.1:8b",
		Enabled:                true,
		Auth:                   model.AuthSpec{Method: model.AuthNone},
		BaseURL:                "http://localhost:11434",
	}

	obj, err := NewOllamaLLM("llama", rec)
	require.NoError(t, err)
	assert.IsType(t, &ollama.LLM{}, obj)
}

func TestLangChainMissingCredential(t *testing.T) {
	t.Setenv("ROUTER_TEST_UNSET_KEY", "")
	rec := model.ConnectionRecord{
		HostingProvider: model.ProviderAnthropic,
		Enabled:         true,
		Auth:            model.AuthSpec{Method: model.AuthAPIKey, APIKeyEnv: "ROUTER_TEST_UNSET_KEY"},
	}

	for name, build := range map[string]Func{
		"anthropic": NewAnthropicLLM,
		"openai":    NewOpenAILLM,
	} {
		t.Run(name, func(t *testing.T) {
			obj, err := build("m", rec)
			assert.Nil(t, obj)
			assert.ErrorIs(t, err, ErrMissingCredential)
		})
	}
}
