// Package strategy holds the model-construction strategies, one per
// (framework, hosting provider) pair, and the registry the router dispatches on.
package strategy

import (
	"sort"
	"sync"

	"github.com/agentsystems/model-router/model"
	"go.uber.org/zap"
)

// Strategy builds a framework-native model object from a resolved connection.
// name is the logical model name the record was found under.
type Strategy interface {
	Build(name string, rec model.ConnectionRecord) (any, error)
}

// Func adapts a plain function to Strategy.
type Func func(name string, rec model.ConnectionRecord) (any, error)

// Build calls f.
func (f Func) Build(name string, rec model.ConnectionRecord) (any, error) {
	return f(name, rec)
}

type key struct {
	framework model.Framework
	provider  string
}

// Registry maps (framework, provider) pairs to strategies. It is filled at
// startup and safe for concurrent lookups afterwards.
type Registry struct {
	mu         sync.RWMutex
	strategies map[key]Strategy
	frameworks map[model.Framework]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		strategies: make(map[key]Strategy),
		frameworks: make(map[model.Framework]struct{}),
	}
}

// Register attaches or replaces the strategy for a framework and provider.
// Registering any strategy makes the framework supported.
func (r *Registry) Register(framework model.Framework, provider string, s Strategy) {
	if s == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[key{framework, provider}] = s
	r.frameworks[framework] = struct{}{}
}

// Lookup returns the strategy registered for the pair.
func (r *Registry) Lookup(framework model.Framework, provider string) (Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[key{framework, provider}]
	return s, ok
}

// SupportsFramework reports whether at least one strategy exists for framework.
func (r *Registry) SupportsFramework(framework model.Framework) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.frameworks[framework]
	return ok
}

// Frameworks returns the supported frameworks, sorted.
func (r *Registry) Frameworks() []model.Framework {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Framework, 0, len(r.frameworks))
	for f := range r.frameworks {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Providers returns the providers registered for framework, sorted.
func (r *Registry) Providers(framework model.Framework) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for k := range r.strategies {
		if k.framework == framework {
			out = append(out, k.provider)
		}
	}
	sort.Strings(out)
	return out
}

// Default returns a registry with every built-in strategy.
func Default(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := NewRegistry()

	r.Register(model.FrameworkLangChain, model.ProviderAnthropic, Func(NewAnthropicLLM))
	r.Register(model.FrameworkLangChain, model.ProviderOpenAI, Func(NewOpenAILLM))
	r.Register(model.FrameworkLangChain, model.ProviderOllama, Func(NewOllamaLLM))

	for _, provider := range []string{model.ProviderAnthropic, model.ProviderOpenAI, model.ProviderOllama} {
		r.Register(model.FrameworkHTTP, provider, &HTTPStrategy{Provider: provider, Logger: logger})
	}
	return r
}
