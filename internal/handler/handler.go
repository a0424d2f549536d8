// Package handler provides HTTP handlers for the Google Pay configuration API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"gpay-config/internal/dropin"
	"gpay-config/internal/googlepay"
	"gpay-config/internal/middleware"
	"gpay-config/internal/model"
	"gpay-config/internal/observability"
)

// NetworkRegistry is the live card-network allow-list.
type NetworkRegistry interface {
	googlepay.CardNetworks
	Snapshot() (version string, networks []string)
}

// Config holds the dependencies of a Handler.
type Config struct {
	Networks NetworkRegistry

	// DefaultMode applies to requests without a Payment-Mode header.
	DefaultMode googlepay.Mode

	// Merchant is the server-side raw configuration served by
	// GET /googlepay/configuration. May be nil.
	Merchant map[string]any

	// Metrics defaults to observability.Noop.
	Metrics observability.Recorder
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	networks    NetworkRegistry
	defaultMode googlepay.Mode
	merchant    map[string]any
	metrics     observability.Recorder
	logger      *slog.Logger
}

// New creates a Handler.
func New(cfg Config, logger *slog.Logger) *Handler {
	if cfg.Metrics == nil {
		cfg.Metrics = observability.Noop{}
	}
	if cfg.DefaultMode == "" {
		cfg.DefaultMode = googlepay.ModeTest
	}
	return &Handler{
		networks:    cfg.Networks,
		defaultMode: cfg.DefaultMode,
		merchant:    cfg.Merchant,
		metrics:     cfg.Metrics,
		logger:      logger,
	}
}

// RegisterRoutes registers all HTTP routes with the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /googlepay/configurations", h.handleParseConfiguration)
	mux.HandleFunc("GET /googlepay/configuration", h.handleMerchantConfiguration)
	mux.HandleFunc("GET /googlepay/card-networks", h.handleCardNetworks)

	// MCP transport - JSON-RPC endpoint using official MCP SDK
	mux.Handle("/mcp", h.NewMCPHandler())

	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /healthz", h.handleHealth)
}

// resolve parses raw for mode and builds the client payment method.
// Errors are always *model.APIError.
func (h *Handler) resolve(ctx context.Context, raw map[string]any, mode googlepay.Mode) (*model.ConfigurationResponse, error) {
	logger := h.logger
	if id := middleware.RequestIDFromContext(ctx); id != "" {
		logger = logger.With(slog.String("request_id", id))
	}

	resp, err := h.parse(ctx, raw, mode, logger)
	h.metrics.RecordParse(ctx, mode, err == nil)
	if err != nil {
		apiErr := model.NewConfigurationError(err)
		logger.InfoContext(ctx, "configuration rejected",
			slog.String("mode", string(mode)),
			slog.String("code", apiErr.Code),
			slog.Int("fields", len(apiErr.Details)),
		)
		return nil, apiErr
	}
	return resp, nil
}

func (h *Handler) parse(ctx context.Context, raw map[string]any, mode googlepay.Mode, logger *slog.Logger) (*model.ConfigurationResponse, error) {
	p, err := googlepay.NewParser(raw,
		googlepay.WithCardNetworks(h.networks),
		googlepay.WithLogger(logger),
		googlepay.WithRejectObserver(func(network string) {
			h.metrics.RecordRejectedNetwork(ctx, network)
		}),
	)
	if err != nil {
		return nil, err
	}

	cfg, err := p.Parse(mode)
	if err != nil {
		return nil, err
	}

	_, defaults := h.networks.Snapshot()
	pm, err := googlepay.Apply[*dropin.PaymentMethod](cfg, dropin.NewBuilder(mode, defaults))
	if err != nil {
		return nil, err
	}

	return &model.ConfigurationResponse{
		Mode:          mode,
		Configuration: cfg,
		PaymentMethod: pm,
	}, nil
}

// === Response Helpers ===

// writeJSON sends a JSON response with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// writeError sends an error response, extracting status/code from APIError if present.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		h.logger.Error("internal error", slog.String("error", err.Error()))
		apiErr = model.NewInternalError(err)
	}

	h.writeJSON(w, apiErr.StatusCode, model.ErrorResponse{Error: apiErr})
}

// MaxRequestBodySize limits JSON request bodies to 1MB.
const MaxRequestBodySize = 1 << 20

// decodeConfig reads a raw configuration object from the request body.
// Numbers are kept as json.Number so integer fields keep full precision.
func decodeConfig(r *http.Request) (map[string]any, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, MaxRequestBodySize)

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, model.NewValidationError("body", "must be a JSON object")
	}
	return raw, nil
}
