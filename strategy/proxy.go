package strategy

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"

	"github.com/agentsystems/model-router/model"
	"github.com/agentsystems/model-router/utils"
	"go.uber.org/zap"
)

const anthropicVersion = "2023-06-01"

// MaxRequestBytes bounds the request body read while routing a request.
var MaxRequestBytes int64 = 32 << 20

// HTTPStrategy builds an Upstream for one hosting provider.
type HTTPStrategy struct {
	Provider string
	Logger   *zap.Logger
}

// Upstream is an authenticated reverse proxy to a provider API for a single
// model connection. It rewrites the JSON body's "model" field to the
// provider-side model id before forwarding.
type Upstream struct {
	Model    string
	Provider string
	ModelID  string
	Target   *url.URL

	proxy  *httputil.ReverseProxy
	logger *zap.Logger
}

// Build resolves the credential and target URL and returns an *Upstream.
// Nothing is sent over the network until the Upstream serves a request.
func (s *HTTPStrategy) Build(name string, rec model.ConnectionRecord) (any, error) {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	apiKey, err := APIKey(rec.Auth)
	if err != nil {
		return nil, err
	}

	target, err := BaseURL(s.Provider, rec)
	if err != nil {
		return nil, err
	}

	u := &Upstream{
		Model:    name,
		Provider: s.Provider,
		ModelID:  rec.ProviderModelID(name),
		Target:   target,
		logger:   logger,
	}
	u.proxy = &httputil.ReverseProxy{Director: u.director(apiKey)}
	return u, nil
}

// ServeHTTP forwards r to the provider.
func (u *Upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := u.rewriteModel(w, r); err != nil {
		u.logger.Warn("Failed to rewrite request body", zap.String("model", u.Model), zap.Error(err))
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Error reading request body", http.StatusBadRequest)
		return
	}
	u.proxy.ServeHTTP(w, r)
}

// rewriteModel swaps the logical model name in a JSON body for the provider
// model id. Bodies that are not JSON objects are forwarded untouched.
func (u *Upstream) rewriteModel(w http.ResponseWriter, r *http.Request) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxRequestBytes))
	r.Body.Close()
	if err != nil {
		return err
	}

	var payload map[string]interface{}
	if json.Unmarshal(body, &payload) == nil {
		if _, ok := payload["model"].(string); ok {
			payload["model"] = u.ModelID
			if modified, err := json.Marshal(payload); err == nil {
				body = modified
				u.logger.Info("Routing model to provider model",
					zap.String("model", u.Model),
					zap.String("providerModel", u.ModelID),
					zap.String("provider", u.Provider))
			}
		}
	}

	r.Body = io.NopCloser(bytes.NewReader(body))
	r.ContentLength = int64(len(body))
	r.Header.Set("Content-Length", strconv.Itoa(len(body)))
	return nil
}

// director points requests at the provider and sets its auth headers.
func (u *Upstream) director(apiKey string) func(req *http.Request) {
	return func(req *http.Request) {
		originalHost := req.Host
		originalPath := req.URL.Path
		req.Host = u.Target.Host
		req.URL.Scheme = u.Target.Scheme
		req.URL.Host = u.Target.Host
		req.URL.Path = joinPath(u.Target.Path, originalPath)
		req.URL.RawPath = ""

		u.logger.Debug("Modified request URL and Host",
			zap.String("originalHost", originalHost),
			zap.String("newHost", req.Host),
			zap.String("originalPath", originalPath),
			zap.String("newPath", req.URL.Path),
		)

		req.Header.Set("X-Forwarded-Host", originalHost)
		// The caller's credential is for this gateway, never for the provider.
		req.Header.Del("Authorization")
		req.Header.Del("x-api-key")

		switch {
		case apiKey == "":
			u.logger.Debug("Forwarding without credentials", zap.String("provider", u.Provider))
		case u.Provider == model.ProviderAnthropic:
			req.Header.Set("x-api-key", apiKey)
			if req.Header.Get("anthropic-version") == "" {
				req.Header.Set("anthropic-version", anthropicVersion)
			}
			u.logger.Debug("Set x-api-key header", zap.String("provider", u.Provider), zap.String("key", utils.RedactSecret(apiKey)))
		default:
			auth := "Bearer " + apiKey
			req.Header.Set("Authorization", auth)
			u.logger.Debug("Set Authorization header", zap.String("provider", u.Provider), zap.String("Authorization", utils.RedactSecret(auth)))
		}

		u.logger.Info("Proxying request",
			zap.String("model", u.Model),
			zap.String("URL", req.URL.String()),
			zap.String("Method", req.Method),
		)
	}
}
