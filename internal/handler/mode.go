package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dunglas/httpsfv"

	"gpay-config/internal/googlepay"
	"gpay-config/internal/model"
)

// PaymentModeHeader selects the checkout mode for a single request.
const PaymentModeHeader = "Payment-Mode"

// ParsePaymentModeHeader reads a Payment-Mode header value.
// Format: an RFC 8941 Item holding a token or string; parameters are ignored.
//
// Examples:
//   - test           → test
//   - "live"         → live
//   - sandbox;v=2    → test
func ParsePaymentModeHeader(header string) (googlepay.Mode, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("empty Payment-Mode header")
	}

	item, err := httpsfv.UnmarshalItem([]string{header})
	if err != nil {
		return "", fmt.Errorf("invalid Payment-Mode header: %w", err)
	}

	var value string
	switch v := item.Value.(type) {
	case httpsfv.Token:
		value = string(v)
	case string:
		value = v
	default:
		return "", fmt.Errorf("payment mode must be a token or string, got %T", item.Value)
	}

	mode := googlepay.ParseMode(value)
	if mode == "" {
		return "", errors.New("empty Payment-Mode value")
	}
	return mode, nil
}

// requestMode returns the Payment-Mode of r, or the handler default when absent.
func (h *Handler) requestMode(r *http.Request) (googlepay.Mode, error) {
	header := r.Header.Get(PaymentModeHeader)
	if header == "" {
		return h.defaultMode, nil
	}

	mode, err := ParsePaymentModeHeader(header)
	if err != nil {
		return "", model.NewValidationError(PaymentModeHeader, err.Error())
	}
	return mode, nil
}
