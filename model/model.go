package model

// Framework identifies the calling agent framework a model object is built for.
type Framework string

const (
	// FrameworkLangChain builds langchaingo llms.Model clients.
	FrameworkLangChain Framework = "langchain"
	// FrameworkHTTP builds authenticated reverse proxies to the provider API.
	FrameworkHTTP Framework = "http"
)

// Hosting providers known to the default strategy registry.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"
)

// AuthMethod selects how a connection authenticates against its provider.
type AuthMethod string

const (
	// AuthAPIKey reads the credential from the variable named by api_key_env.
	AuthAPIKey AuthMethod = "api_key"
	// AuthNone sends no credential, for local or self-hosted endpoints.
	AuthNone AuthMethod = "none"
)

// AuthSpec defines the authentication part of a model connection.
// APIKeyEnv names an environment variable; the secret itself never lives in the config.
type AuthSpec struct {
	Method    AuthMethod `yaml:"method" json:"method"`
	APIKeyEnv string     `yaml:"api_key_env,omitempty" json:"api_key_env,omitempty"`
}

// ConnectionRecord is the routing rule for one logical model name.
type ConnectionRecord struct {
	HostingProvider        string   `yaml:"hosting_provider" json:"hosting_provider"`
	HostingProviderModelID string   `yaml:"hosting_provider_model_id,omitempty" json:"hosting_provider_model_id,omitempty"`
	Enabled                bool     `yaml:"enabled" json:"enabled"`
	Auth                   AuthSpec `yaml:"auth" json:"auth"`
	BaseURL                string   `yaml:"base_url,omitempty" json:"base_url,omitempty"`
}

// ProviderModelID returns the provider-side model id, falling back to the
// logical name when the record does not set one.
func (r ConnectionRecord) ProviderModelID(name string) string {
	if r.HostingProviderModelID != "" {
		return r.HostingProviderModelID
	}
	return name
}

// ConfigDocument is the parsed agentsystems configuration file.
type ConfigDocument struct {
	ConfigVersion    int                         `yaml:"config_version" json:"config_version"`
	ModelConnections map[string]ConnectionRecord `yaml:"model_connections" json:"model_connections"`
}

// Clone returns a copy that shares no maps with d.
func (d *ConfigDocument) Clone() *ConfigDocument {
	if d == nil {
		return nil
	}
	out := &ConfigDocument{ConfigVersion: d.ConfigVersion}
	if d.ModelConnections != nil {
		out.ModelConnections = make(map[string]ConnectionRecord, len(d.ModelConnections))
		for name, rec := range d.ModelConnections {
			out.ModelConnections[name] = rec
		}
	}
	return out
}

// ValidationResult reports which requested models can be resolved.
// Models holds the distinct requested names in first-seen order and
// Available has exactly those keys.
type ValidationResult struct {
	Models    []string
	Available map[string]bool
}

// AllAvailable reports whether every requested model resolved.
func (v ValidationResult) AllAvailable() bool {
	for _, name := range v.Models {
		if !v.Available[name] {
			return false
		}
	}
	return true
}

// Unavailable lists the requested models that did not resolve, in request order.
func (v ValidationResult) Unavailable() []string {
	var missing []string
	for _, name := range v.Models {
		if !v.Available[name] {
			missing = append(missing, name)
		}
	}
	return missing
}
