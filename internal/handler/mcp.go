// MCP transport handler using the official MCP Go SDK.
// Exposes configuration parsing as an MCP tool.
package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"gpay-config/internal/googlepay"
	"gpay-config/internal/model"
)

// ParseConfigurationInput is the input schema for parse_googlepay_configuration.
type ParseConfigurationInput struct {
	Mode   string         `json:"mode,omitempty" jsonschema:"checkout mode: test or live; defaults to the server mode"`
	Config map[string]any `json:"config" jsonschema:"raw Google Pay configuration, optionally nested under the googlepay key"`
}

// NewMCPServer creates an MCP server with the configuration tools registered.
func (h *Handler) NewMCPServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "gpay-config",
			Version: "1.0.0",
		},
		&mcp.ServerOptions{
			Instructions: "Google Pay configuration service. " +
				"Use parse_googlepay_configuration to validate a raw configuration and get the client payload.",
		},
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse_googlepay_configuration",
		Description: "Validate a raw Google Pay configuration, apply defaults and return the resolved configuration and client payment method.",
	}, h.mcpParseConfiguration)

	return server
}

// NewMCPHandler returns an HTTP handler for the MCP endpoint.
// Mount this at /mcp on your mux.
func (h *Handler) NewMCPHandler() http.Handler {
	server := h.NewMCPServer()
	return mcp.NewStreamableHTTPHandler(
		func(r *http.Request) *mcp.Server { return server },
		nil,
	)
}

func (h *Handler) mcpParseConfiguration(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ParseConfigurationInput,
) (*mcp.CallToolResult, any, error) {
	mode := h.defaultMode
	if input.Mode != "" {
		mode = googlepay.ParseMode(input.Mode)
	}

	resp, err := h.resolve(ctx, input.Config, mode)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, resp, nil
}

// mcpError converts API errors to MCP-friendly errors.
func (h *Handler) mcpError(err error) error {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		if len(apiErr.Details) > 1 {
			return fmt.Errorf("%s: %s (%d fields)", apiErr.Code, apiErr.Message, len(apiErr.Details))
		}
		return fmt.Errorf("%s: %s", apiErr.Code, apiErr.Message)
	}
	// Don't leak internal error details
	h.logger.Error("mcp internal error", "error", err.Error())
	return errors.New("internal error")
}
