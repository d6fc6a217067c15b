package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/agentsystems/model-router/model"
	"github.com/agentsystems/model-router/router"
	"github.com/agentsystems/model-router/strategy"
	"github.com/agentsystems/model-router/utils"
	"go.uber.org/zap"
)

// Handler serves provider API requests, choosing the upstream from the
// "model" field of each JSON body. Every request resolves its model afresh.
type Handler struct {
	router *router.Router
	apiKey string
	logger *zap.Logger
}

// New returns a Handler. An empty apiKey disables caller authentication.
func New(rt *router.Router, apiKey string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{router: rt, apiKey: apiKey, logger: logger}
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Incoming request",
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method))

	// CORS preflight
	if r.Method == http.MethodOptions {
		handlePreflight(w, r)
		return
	}

	if !h.authorized(r) {
		h.logger.Warn("Invalid or missing API key",
			zap.String("receivedAuthHeader", utils.RedactSecret(r.Header.Get("Authorization"))))
		http.Error(w, "Invalid or missing API key", http.StatusUnauthorized)
		return
	}

	if r.Method != http.MethodPost {
		h.logger.Info("No suitable backend configured for request", zap.String("path", r.URL.Path))
		http.Error(w, "No suitable backend configured", http.StatusNotFound)
		return
	}

	h.handleModelRequest(w, r)
}

func (h *Handler) authorized(r *http.Request) bool {
	if h.apiKey == "" {
		return true
	}
	return r.Header.Get("Authorization") == "Bearer "+h.apiKey || r.Header.Get("x-api-key") == h.apiKey
}

func (h *Handler) handleModelRequest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, strategy.MaxRequestBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.Warn("Request body too large", zap.Int64("limit", tooLarge.Limit))
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Error reading request body", http.StatusInternalServerError)
		return
	}

	var req struct {
		Model string `json:"model"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Error unmarshalling request body", http.StatusBadRequest)
		return
	}
	if req.Model == "" {
		http.Error(w, "Model key missing or not a string", http.StatusBadRequest)
		return
	}
	h.logger.Info("Incoming request for model", zap.String("model", req.Model))

	obj, err := h.router.GetModel(req.Model, string(model.FrameworkHTTP))
	if err != nil {
		status := statusFor(err)
		h.logger.Warn("Unable to route model", zap.String("model", req.Model), zap.Int("status", status), zap.Error(err))
		http.Error(w, err.Error(), status)
		return
	}
	upstream, ok := obj.(http.Handler)
	if !ok {
		h.logger.Error("Strategy did not return an http.Handler", zap.String("model", req.Model))
		http.Error(w, "No suitable backend found", http.StatusBadGateway)
		return
	}

	r.Body = io.NopCloser(bytes.NewReader(body))
	r.ContentLength = int64(len(body))
	upstream.ServeHTTP(w, r)
}

// statusFor maps resolution errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, router.ErrUnknownModel), errors.Is(err, router.ErrDisabledModel):
		return http.StatusNotFound
	case errors.Is(err, router.ErrUnsupportedProvider):
		return http.StatusNotImplemented
	case errors.Is(err, router.ErrConfigNotFound):
		return http.StatusServiceUnavailable
	case errors.Is(err, strategy.ErrMissingCredential):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func handlePreflight(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin == "" {
		origin = "*"
	}
	headers := r.Header.Get("Access-Control-Request-Headers")
	if headers == "" {
		headers = strings.Join([]string{"Authorization", "Content-Type", "Accept", "x-api-key", "anthropic-version"}, ", ")
	}

	w.Header().Set("Access-Control-Allow-Origin", origin)
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", headers)
	w.Header().Set("Access-Control-Allow-Credentials", "true")
	w.Header().Set("Access-Control-Max-Age", "86400")
	w.Header().Set("Vary", "Origin, Access-Control-Request-Method, Access-Control-Request-Headers")
	w.WriteHeader(http.StatusNoContent)
}
