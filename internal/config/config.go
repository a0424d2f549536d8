// Package config handles loading and validation of service configuration.
// Supports both development (env vars or CONFIG_FILE) and production
// (Secret Manager) modes.
package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"gopkg.in/yaml.v3"

	"gpay-config/internal/googlepay"
)

// DefaultRefreshInterval is how often the card-network list is re-fetched.
const DefaultRefreshInterval = time.Hour

// Config holds all service configuration.
type Config struct {
	// Server settings
	Port        string
	Environment string // "development" or "production"
	LogLevel    string // "debug", "info", "warn", "error"

	// GCP settings (required in production)
	GCPProject string
	MerchantID string

	// PaymentMode is the default mode for requests without a Payment-Mode header.
	PaymentMode googlepay.Mode

	CardNetworks CardNetworkConfig

	// ChromeTLS fetches card-network documents with a Chrome TLS fingerprint.
	ChromeTLS bool

	// PaymentMethod is the merchant's raw Google Pay configuration. It may be
	// nil, in which case only caller-supplied configurations are served.
	PaymentMethod map[string]any
}

// CardNetworkConfig locates the card-network allow-list document.
// At most one of URL and File may be set; with neither, the built-in list is used.
type CardNetworkConfig struct {
	URL             string
	File            string
	RefreshInterval time.Duration
}

// fileConfig mirrors the CONFIG_FILE layout for both JSON and YAML.
type fileConfig struct {
	Port         string `json:"port" yaml:"port"`
	Environment  string `json:"environment" yaml:"environment"`
	LogLevel     string `json:"log_level" yaml:"log_level"`
	GCPProject   string `json:"gcp_project" yaml:"gcp_project"`
	MerchantID   string `json:"merchant_id" yaml:"merchant_id"`
	PaymentMode  string `json:"payment_mode" yaml:"payment_mode"`
	ChromeTLS    bool   `json:"chrome_tls" yaml:"chrome_tls"`
	CardNetworks struct {
		URL             string `json:"url" yaml:"url"`
		File            string `json:"file" yaml:"file"`
		RefreshInterval string `json:"refresh_interval" yaml:"refresh_interval"`
	} `json:"card_networks" yaml:"card_networks"`
	PaymentMethod map[string]any `json:"payment_method" yaml:"payment_method"`
}

// Load reads configuration from file, environment, or Secret Manager.
// Priority: CONFIG_FILE (if set), then env vars. In production a missing
// payment method is fetched from Secret Manager.
func Load(ctx context.Context) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		cfg, err = loadFromFile(configPath)
	} else {
		cfg, err = loadFromEnv()
	}
	if err != nil {
		return nil, err
	}

	if cfg.Environment == "production" && cfg.PaymentMethod == nil {
		if err := cfg.validateSecretSettings(); err != nil {
			return nil, err
		}
		if err := cfg.loadFromSecretManager(ctx); err != nil {
			return nil, fmt.Errorf("loading payment method config: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile reads all configuration from a JSON or YAML file.
// The format is chosen by extension: .yaml and .yml are YAML, anything else JSON.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	refresh, err := parseInterval(fc.CardNetworks.RefreshInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid card_networks.refresh_interval: %w", err)
	}

	return &Config{
		Port:          withDefault(fc.Port, "8080"),
		Environment:   withDefault(fc.Environment, "development"),
		LogLevel:      withDefault(fc.LogLevel, "info"),
		GCPProject:    fc.GCPProject,
		MerchantID:    fc.MerchantID,
		PaymentMode:   googlepay.ParseMode(withDefault(fc.PaymentMode, string(googlepay.ModeTest))),
		ChromeTLS:     fc.ChromeTLS,
		PaymentMethod: fc.PaymentMethod,
		CardNetworks: CardNetworkConfig{
			URL:             fc.CardNetworks.URL,
			File:            fc.CardNetworks.File,
			RefreshInterval: refresh,
		},
	}, nil
}

// loadFromEnv reads configuration from individual environment variables.
func loadFromEnv() (*Config, error) {
	refresh, err := parseInterval(os.Getenv("CARD_NETWORKS_REFRESH"))
	if err != nil {
		return nil, fmt.Errorf("invalid CARD_NETWORKS_REFRESH: %w", err)
	}

	chromeTLS := false
	if v := os.Getenv("CHROME_TLS"); v != "" {
		chromeTLS, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid CHROME_TLS: %w", err)
		}
	}

	cfg := &Config{
		Port:        envOrDefault("PORT", "8080"),
		Environment: envOrDefault("ENVIRONMENT", "development"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		GCPProject:  os.Getenv("GCP_PROJECT"),
		MerchantID:  os.Getenv("MERCHANT_ID"),
		PaymentMode: googlepay.ParseMode(envOrDefault("PAYMENT_MODE", string(googlepay.ModeTest))),
		ChromeTLS:   chromeTLS,
		CardNetworks: CardNetworkConfig{
			URL:             os.Getenv("CARD_NETWORKS_URL"),
			File:            os.Getenv("CARD_NETWORKS_FILE"),
			RefreshInterval: refresh,
		},
	}

	if raw := os.Getenv("GOOGLEPAY_CONFIG"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &cfg.PaymentMethod); err != nil {
			return nil, fmt.Errorf("parsing GOOGLEPAY_CONFIG JSON: %w", err)
		}
	}

	return cfg, nil
}

// SecretName is the Secret Manager resource holding the payment method config.
func (c *Config) SecretName() string {
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", c.GCPProject, c.MerchantID)
}

// loadFromSecretManager fetches the raw payment method config from GCP Secret Manager.
func (c *Config) loadFromSecretManager(ctx context.Context) error {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("creating secret manager client: %w", err)
	}
	defer client.Close()

	secretName := c.SecretName()
	result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: secretName,
	})
	if err != nil {
		return fmt.Errorf("accessing secret %s: %w", secretName, err)
	}

	if err := json.Unmarshal(result.Payload.Data, &c.PaymentMethod); err != nil {
		return fmt.Errorf("parsing secret JSON: %w", err)
	}
	return nil
}

func (c *Config) validateSecretSettings() error {
	if c.GCPProject == "" {
		return errors.New("GCP_PROJECT required in production environment")
	}
	if c.MerchantID == "" {
		return errors.New("MERCHANT_ID required in production environment")
	}
	return nil
}

// validate checks that the loaded configuration is usable.
func (c *Config) validate() error {
	if c.PaymentMode == "" {
		return errors.New("payment mode is required")
	}
	if c.CardNetworks.RefreshInterval <= 0 {
		return errors.New("card network refresh interval must be positive")
	}
	if c.CardNetworks.URL != "" && c.CardNetworks.File != "" {
		return errors.New("card network url and file are mutually exclusive")
	}
	if c.CardNetworks.URL != "" {
		u, err := url.Parse(c.CardNetworks.URL)
		if err != nil {
			return fmt.Errorf("invalid card network url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid card network url: unsupported scheme %q", u.Scheme)
		}
	}
	return nil
}

// parseInterval parses a duration, returning DefaultRefreshInterval for "".
func parseInterval(s string) (time.Duration, error) {
	if s == "" {
		return DefaultRefreshInterval, nil
	}
	return time.ParseDuration(s)
}

// withDefault returns val if non-empty, otherwise defaultVal.
func withDefault(val, defaultVal string) string {
	if val != "" {
		return val
	}
	return defaultVal
}

// envOrDefault returns the environment variable value or the default if not set.
func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
