package strategy

import (
	"errors"
	"fmt"
	"os"

	"github.com/agentsystems/model-router/model"
)

// ErrMissingCredential is matched when the environment variable named by a
// connection's auth spec is not set.
var ErrMissingCredential = errors.New("missing credential")

// MissingCredentialError names the unset variable. It never carries a secret.
type MissingCredentialError struct {
	Env string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("environment variable %s is not set", e.Env)
}

func (e *MissingCredentialError) Is(target error) bool {
	return target == ErrMissingCredential
}

// APIKey returns the secret for auth. Method none yields an empty key.
func APIKey(auth model.AuthSpec) (string, error) {
	switch auth.Method {
	case model.AuthNone:
		return "", nil
	case model.AuthAPIKey:
		if auth.APIKeyEnv == "" {
			return "", fmt.Errorf("auth method %s requires api_key_env", auth.Method)
		}
		key, ok := os.LookupEnv(auth.APIKeyEnv)
		if !ok || key == "" {
			return "", &MissingCredentialError{Env: auth.APIKeyEnv}
		}
		return key, nil
	default:
		return "", fmt.Errorf("unsupported auth method %q", auth.Method)
	}
}
