// Package router resolves logical model names to provider-specific model
// objects using the agentsystems configuration file.
//
// Every call reads its configuration source afresh; nothing resolved is
// cached between calls.
package router

import (
	"github.com/agentsystems/model-router/config"
	"github.com/agentsystems/model-router/model"
	"github.com/agentsystems/model-router/strategy"
	"go.uber.org/zap"
)

// Router dispatches model requests to the strategy registered for the
// requested framework and the model's hosting provider.
type Router struct {
	source   config.Source
	registry *strategy.Registry
	logger   *zap.Logger
}

// New returns a Router reading connections from src and building models with reg.
func New(src config.Source, reg *strategy.Registry, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{source: src, registry: reg, logger: logger}
}

// Default returns a Router over config.DefaultPath with the built-in strategies.
func Default(logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return New(config.NewFileSource(config.DefaultPath, logger), strategy.Default(logger), logger)
}

// Source returns the configuration source the router reads from.
func (r *Router) Source() config.Source {
	return r.source
}

// GetModel returns a ready-to-use model object for name, shaped for framework.
// The framework is checked before the configuration is read.
func (r *Router) GetModel(name, framework string) (any, error) {
	fw := model.Framework(framework)
	if !r.registry.SupportsFramework(fw) {
		r.logger.Warn("Framework not supported",
			zap.String("framework", framework),
			zap.String("model", name),
			zap.Any("supportedFrameworks", r.registry.Frameworks()))
		return nil, unsupportedFramework(framework)
	}

	rec, err := r.LoadModelConnection(name)
	if err != nil {
		return nil, err
	}

	s, ok := r.registry.Lookup(fw, rec.HostingProvider)
	if !ok {
		r.logger.Warn("No strategy for provider",
			zap.String("model", name),
			zap.String("provider", rec.HostingProvider),
			zap.String("framework", framework),
			zap.Strings("supportedProviders", r.registry.Providers(fw)))
		return nil, unsupportedProvider(rec.HostingProvider, framework)
	}

	r.logger.Info("Building model",
		zap.String("model", name),
		zap.String("provider", rec.HostingProvider),
		zap.String("providerModel", rec.ProviderModelID(name)),
		zap.String("framework", framework))
	return s.Build(name, rec)
}

// LoadModelConnection resolves name to its enabled connection record.
func (r *Router) LoadModelConnection(name string) (model.ConnectionRecord, error) {
	doc, err := r.source.Load()
	if err != nil {
		r.logger.Error("Failed to load config", zap.String("source", r.source.Location()), zap.Error(err))
		return model.ConnectionRecord{}, err
	}
	return r.lookup(doc, name)
}

func (r *Router) lookup(doc *model.ConfigDocument, name string) (model.ConnectionRecord, error) {
	rec, ok := doc.ModelConnections[name]
	if !ok {
		r.logger.Debug("Model not configured", zap.String("model", name))
		return model.ConnectionRecord{}, unknownModel(name)
	}
	if !rec.Enabled {
		r.logger.Debug("Model connection disabled", zap.String("model", name))
		return model.ConnectionRecord{}, disabledModel(name)
	}
	return rec, nil
}

// ValidateModelDependencies reports, for each distinct name, whether it
// resolves to an enabled connection. It never fails: a configuration that
// cannot be loaded marks every name unavailable.
func (r *Router) ValidateModelDependencies(names []string) model.ValidationResult {
	result := model.ValidationResult{Available: make(map[string]bool, len(names))}
	for _, name := range names {
		if _, seen := result.Available[name]; seen {
			continue
		}
		result.Models = append(result.Models, name)
		result.Available[name] = false
	}
	if len(result.Models) == 0 {
		return result
	}

	doc, err := r.source.Load()
	if err != nil {
		r.logger.Warn("Model dependencies unavailable, config could not be loaded",
			zap.String("source", r.source.Location()),
			zap.Strings("models", result.Models),
			zap.Error(err))
		return result
	}

	for _, name := range result.Models {
		_, err := r.lookup(doc, name)
		result.Available[name] = err == nil
		if err != nil {
			r.logger.Info("Model dependency unavailable", zap.String("model", name), zap.Error(err))
		}
	}
	return result
}
