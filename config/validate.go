package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/agentsystems/model-router/model"
	"go.uber.org/multierr"
)

// SupportedVersion is the config_version this module understands.
const SupportedVersion = 1

// Validate checks the structure of every model connection and returns all
// problems found, combined with multierr. Disabled records are checked too.
func Validate(doc *model.ConfigDocument) error {
	if doc == nil {
		return errors.New("config document is empty")
	}

	var err error
	if doc.ConfigVersion != SupportedVersion {
		err = multierr.Append(err, fmt.Errorf("unsupported config_version %d, expected %d", doc.ConfigVersion, SupportedVersion))
	}

	names := make([]string, 0, len(doc.ModelConnections))
	for name := range doc.ModelConnections {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		err = multierr.Append(err, validateRecord(name, doc.ModelConnections[name]))
	}
	return err
}

func validateRecord(name string, rec model.ConnectionRecord) error {
	var err error
	if name == "" {
		err = multierr.Append(err, errors.New("model connection with empty name"))
	}
	if rec.HostingProvider == "" {
		err = multierr.Append(err, fmt.Errorf("model connection '%s': hosting_provider is required", name))
	}

	switch rec.Auth.Method {
	case model.AuthAPIKey:
		switch {
		case rec.Auth.APIKeyEnv == "":
			err = multierr.Append(err, fmt.Errorf("model connection '%s': auth.api_key_env is required for method %s", name, rec.Auth.Method))
		case !IsEnvName(rec.Auth.APIKeyEnv):
			// Most often a pasted secret instead of a variable name, so it is not echoed back.
			err = multierr.Append(err, fmt.Errorf("model connection '%s': auth.api_key_env is not a valid environment variable name", name))
		}
	case model.AuthNone:
	default:
		err = multierr.Append(err, fmt.Errorf("model connection '%s': unknown auth method %q", name, rec.Auth.Method))
	}
	return err
}

// IsEnvName reports whether s is a portable environment variable name.
func IsEnvName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
