package strategy

import (
	"github.com/agentsystems/model-router/model"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// The langchaingo clients read tokens and base URLs from the process
// environment when none are given, so both are always passed explicitly.

// NewAnthropicLLM builds a langchaingo Anthropic client.
func NewAnthropicLLM(name string, rec model.ConnectionRecord) (any, error) {
	token, err := clientToken(rec.Auth)
	if err != nil {
		return nil, err
	}
	base, err := BaseURL(model.ProviderAnthropic, rec)
	if err != nil {
		return nil, err
	}
	llm, err := anthropic.New(
		anthropic.WithModel(rec.ProviderModelID(name)),
		anthropic.WithToken(token),
		anthropic.WithBaseURL(base.String()),
	)
	if err != nil {
		return nil, err
	}
	return llm, nil
}

// NewOpenAILLM builds a langchaingo OpenAI client. BaseURL points it at any
// OpenAI-compatible endpoint.
func NewOpenAILLM(name string, rec model.ConnectionRecord) (any, error) {
	token, err := clientToken(rec.Auth)
	if err != nil {
		return nil, err
	}
	base, err := BaseURL(model.ProviderOpenAI, rec)
	if err != nil {
		return nil, err
	}
	llm, err := openai.New(
		openai.WithModel(rec.ProviderModelID(name)),
		openai.WithToken(token),
		openai.WithBaseURL(base.String()),
	)
	if err != nil {
		return nil, err
	}
	return llm, nil
}

// NewOllamaLLM builds a langchaingo Ollama client for a self-hosted server.
func NewOllamaLLM(name string, rec model.ConnectionRecord) (any, error) {
	if _, err := APIKey(rec.Auth); err != nil {
		return nil, err
	}
	base, err := BaseURL(model.ProviderOllama, rec)
	if err != nil {
		return nil, err
	}
	llm, err := ollama.New(
		ollama.WithModel(rec.ProviderModelID(name)),
		ollama.WithServerURL(base.String()),
	)
	if err != nil {
		return nil, err
	}
	return llm, nil
}
