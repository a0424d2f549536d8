// Package model defines the API payloads and error taxonomy shared by the
// HTTP and MCP transports and the CLI client.
package model

import (
	"gpay-config/internal/dropin"
	"gpay-config/internal/googlepay"
)

// ConfigurationResponse is returned by every parse endpoint.
type ConfigurationResponse struct {
	Mode          googlepay.Mode           `json:"mode"`
	Configuration *googlepay.Configuration `json:"configuration"`
	PaymentMethod *dropin.PaymentMethod    `json:"payment_method"`
}

// CardNetworksResponse lists the active card-network allow-list.
type CardNetworksResponse struct {
	Version  string   `json:"version"`
	Networks []string `json:"networks"`
}

// ErrorResponse is the JSON envelope for error responses.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}
