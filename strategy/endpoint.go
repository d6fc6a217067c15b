package strategy

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/agentsystems/model-router/model"
)

// noAuthToken is sent to keyless endpoints so client libraries never fall
// back to a credential from the process environment.
const noAuthToken = "no-auth"

// DefaultBaseURLs are used when a connection does not set base_url. A base
// URL includes the provider's API version prefix, the form the provider
// client libraries expect.
var DefaultBaseURLs = map[string]string{
	model.ProviderAnthropic: "https://api.anthropic.com/v1",
	model.ProviderOpenAI:    "https://api.openai.com/v1",
	model.ProviderOllama:    "http://localhost:11434",
}

// BaseURL returns the endpoint a connection talks to: its base_url, or the
// provider default.
func BaseURL(provider string, rec model.ConnectionRecord) (*url.URL, error) {
	raw := rec.BaseURL
	if raw == "" {
		raw = DefaultBaseURLs[provider]
	}
	if raw == "" {
		return nil, fmt.Errorf("no base_url configured for provider '%s'", provider)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse base_url for provider '%s': %w", provider, err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u, nil
}

// clientToken returns the token handed to a client library. Keyless
// connections get a placeholder instead of an empty string.
func clientToken(auth model.AuthSpec) (string, error) {
	token, err := APIKey(auth)
	if err != nil {
		return "", err
	}
	if token == "" {
		return noAuthToken, nil
	}
	return token, nil
}

// joinPath appends a request path to a base path. When the request path
// already starts with the tail of the base path, such as "/v1", that
// segment is not repeated.
func joinPath(base, reqPath string) string {
	base = strings.TrimSuffix(base, "/")
	for i := 0; i < len(base); i++ {
		if base[i] != '/' {
			continue
		}
		tail := base[i:]
		if reqPath == tail || strings.HasPrefix(reqPath, tail+"/") {
			return base[:i] + reqPath
		}
	}
	return base + reqPath
}
