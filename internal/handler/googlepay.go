package handler

import (
	"log/slog"
	"net/http"

	"gpay-config/internal/model"
)

// handleParseConfiguration resolves a caller-supplied raw configuration.
// POST /googlepay/configurations
func (h *Handler) handleParseConfiguration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	mode, err := h.requestMode(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	raw, err := decodeConfig(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.logger.DebugContext(ctx, "parsing configuration",
		slog.String("mode", string(mode)),
		slog.Int("keys", len(raw)),
	)

	resp, err := h.resolve(ctx, raw, mode)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// handleMerchantConfiguration resolves the server-side merchant configuration.
// GET /googlepay/configuration
func (h *Handler) handleMerchantConfiguration(w http.ResponseWriter, r *http.Request) {
	if h.merchant == nil {
		h.writeError(w, model.NewNotFoundError("google pay configuration"))
		return
	}

	mode, err := h.requestMode(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp, err := h.resolve(r.Context(), h.merchant, mode)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// handleCardNetworks lists the active allow-list.
// GET /googlepay/card-networks
func (h *Handler) handleCardNetworks(w http.ResponseWriter, r *http.Request) {
	version, networks := h.networks.Snapshot()
	h.writeJSON(w, http.StatusOK, model.CardNetworksResponse{
		Version:  version,
		Networks: networks,
	})
}

// handleHealth returns a simple health check response.
// GET /health, GET /healthz
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

type healthResponse struct {
	Status string `json:"status"`
}
