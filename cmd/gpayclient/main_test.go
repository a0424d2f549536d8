package main

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"gpay-config/internal/googlepay"
	"gpay-config/internal/model"
)

func TestReadConfigFileYAMLAndJSON(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"merchant.yaml": "googlepay:\n  allowPrepaidCards: true\n  googlePayEnvironment: 3\n",
		"merchant.json": `{"googlepay":{"allowPrepaidCards":true,"googlePayEnvironment":3}}`,
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
				t.Fatalf("write: %v", err)
			}

			raw, err := readConfigFile(path)
			if err != nil {
				t.Fatalf("readConfigFile() error: %v", err)
			}
			p, err := googlepay.NewParser(raw)
			if err != nil {
				t.Fatalf("NewParser() error: %v", err)
			}
			if env, err := p.GooglePayEnvironment(googlepay.ModeProduction); err != nil || env != 3 {
				t.Errorf("GooglePayEnvironment() = %d, %v; want 3", env, err)
			}
		})
	}
}

func TestParseLocal(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	raw := map[string]any{
		"allowPrepaidCards":             true,
		"billingAddressRequired":        true,
		"emailRequired":                 false,
		"shippingAddressRequired":       false,
		"existingPaymentMethodRequired": false,
	}

	resp, err := parseLocal(raw, googlepay.ModeProduction, logger)
	if err != nil {
		t.Fatalf("parseLocal() error: %v", err)
	}
	if resp.PaymentMethod.Environment != "PRODUCTION" {
		t.Errorf("Environment = %s, want PRODUCTION", resp.PaymentMethod.Environment)
	}

	delete(raw, "emailRequired")
	if _, err := parseLocal(raw, googlepay.ModeTest, logger); !errors.Is(err, googlepay.ErrMissingKey) {
		t.Errorf("parseLocal() error = %v, want ErrMissingKey", err)
	}
}

func TestDoRequestDecodesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Payment-Mode") != `"live"` {
			t.Errorf("Payment-Mode = %q", r.Header.Get("Payment-Mode"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"VALIDATION_ERROR","message":"invalid emailRequired: missing key"}}`))
	}))
	defer server.Close()

	quiet = true
	var out model.ConfigurationResponse
	err := doRequest(server.URL, http.MethodPost, "/googlepay/configurations", map[string]any{},
		map[string]string{"Payment-Mode": `"live"`}, &out)

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("doRequest() error = %v, want *model.APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("APIError = %+v", apiErr)
	}
}
