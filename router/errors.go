package router

import (
	"errors"
	"fmt"

	"github.com/agentsystems/model-router/config"
)

var (
	// ErrConfigNotFound is matched when the configuration file is absent.
	ErrConfigNotFound = config.ErrNotFound
	// ErrUnknownModel is matched when a model has no connection configured.
	ErrUnknownModel = errors.New("unknown model")
	// ErrDisabledModel is matched when a model connection exists but is disabled.
	ErrDisabledModel = errors.New("disabled model")
	// ErrUnsupportedFramework is matched when the requested framework has no strategies.
	ErrUnsupportedFramework = errors.New("unsupported framework")
	// ErrUnsupportedProvider is matched when a provider has no strategy for the framework.
	ErrUnsupportedProvider = errors.New("unsupported provider for framework")
)

// Error carries a caller-facing message and unwraps to one of the sentinels above.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

func newError(kind error, format string, args ...any) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func unknownModel(name string) error {
	return newError(ErrUnknownModel, "No connection configured for model '%s'", name)
}

func disabledModel(name string) error {
	return newError(ErrDisabledModel, "Model connection '%s' is disabled", name)
}

func unsupportedFramework(framework string) error {
	return newError(ErrUnsupportedFramework, "Framework '%s' not supported", framework)
}

func unsupportedProvider(provider, framework string) error {
	return newError(ErrUnsupportedProvider, "Provider '%s' not supported for framework '%s'", provider, framework)
}
