// Package googlepay translates a loosely typed payment-method configuration
// into a validated Google Pay configuration.
//
// The raw configuration is a string-keyed map, optionally wrapped in a
// "googlepay" namespace key. Parser resolves the namespace once, then each
// getter reads only its own key: card networks are filtered against an
// injectable allow-list, totalPriceStatus defaults to "FINAL", and the
// environment code is derived from the ambient Mode unless the configuration
// overrides it.
package googlepay

import (
	"log/slog"
	"strings"
)

// Configuration keys.
const (
	NamespaceKey                     = "googlepay"
	MerchantAccountKey               = "merchantAccount"
	AllowedCardNetworksKey           = "allowedCardNetworks"
	AllowedAuthMethodsKey            = "allowedAuthMethods"
	TotalPriceStatusKey              = "totalPriceStatus"
	AllowPrepaidCardsKey             = "allowPrepaidCards"
	BillingAddressRequiredKey        = "billingAddressRequired"
	EmailRequiredKey                 = "emailRequired"
	ShippingAddressRequiredKey       = "shippingAddressRequired"
	ExistingPaymentMethodRequiredKey = "existingPaymentMethodRequired"
	GooglePayEnvironmentKey          = "googlePayEnvironment"
)

// DefaultTotalPriceStatus is used when totalPriceStatus is not configured.
const DefaultTotalPriceStatus = "FINAL"

// Parser reads Google Pay settings from a RawConfig.
// It holds no mutable state and is safe for concurrent use.
type Parser struct {
	config   RawConfig
	networks CardNetworks
	logger   *slog.Logger
	onReject func(network string)
}

// Option configures a Parser.
type Option func(*Parser)

// WithCardNetworks sets the allow-list used to filter allowedCardNetworks.
func WithCardNetworks(networks CardNetworks) Option {
	return func(p *Parser) {
		if networks != nil {
			p.networks = networks
		}
	}
}

// WithLogger sets the logger that receives rejected card-network warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithRejectObserver registers fn to be called for every card network
// dropped by the allow-list. fn must not block.
func WithRejectObserver(fn func(network string)) Option {
	return func(p *Parser) {
		p.onReject = fn
	}
}

// NewParser binds a parser to raw. If raw holds the "googlepay" namespace key,
// the nested map becomes the working configuration and the outer map is
// ignored from then on.
func NewParser(raw map[string]any, opts ...Option) (*Parser, error) {
	return NewParserFromConfig(NewRawConfig(raw), opts...)
}

// NewParserFromConfig is NewParser for an already wrapped RawConfig.
func NewParserFromConfig(raw RawConfig, opts ...Option) (*Parser, error) {
	config := raw
	if raw.Has(NamespaceKey) {
		nested, err := raw.Map(NamespaceKey)
		if err != nil {
			return nil, err
		}
		config = nested
	}

	p := &Parser{
		config:   config,
		networks: DefaultCardNetworks(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// AllowedCardNetworks returns the configured card networks, upper-cased and
// filtered against the allow-list. Rejected entries are logged and dropped.
// Returns nil if the key is absent or nothing survives filtering, so the SDK
// falls back to its own default set.
func (p *Parser) AllowedCardNetworks() ([]string, error) {
	if !p.config.Has(AllowedCardNetworksKey) {
		return nil, nil
	}

	list, err := p.config.Strings(AllowedCardNetworksKey)
	if err != nil {
		return nil, err
	}

	networks := make([]string, 0, len(list))
	for _, entry := range list {
		network := strings.ToUpper(entry)
		if p.networks.Contains(network) {
			networks = append(networks, network)
			continue
		}
		p.logger.Warn("skipping card network, not an allowed card network",
			slog.String("network", network),
		)
		if p.onReject != nil {
			p.onReject(network)
		}
	}

	if len(networks) == 0 {
		return nil, nil
	}
	return networks, nil
}

// AllowedAuthMethods returns the configured auth methods verbatim, or nil if
// the key is absent or the array is empty.
func (p *Parser) AllowedAuthMethods() ([]string, error) {
	if !p.config.Has(AllowedAuthMethodsKey) {
		return nil, nil
	}

	methods, err := p.config.Strings(AllowedAuthMethodsKey)
	if err != nil {
		return nil, err
	}
	if len(methods) == 0 {
		return nil, nil
	}
	return methods, nil
}

// AllowPrepaidCards reads the required allowPrepaidCards flag.
func (p *Parser) AllowPrepaidCards() (bool, error) {
	return p.config.Bool(AllowPrepaidCardsKey)
}

// BillingAddressRequired reads the required billingAddressRequired flag.
func (p *Parser) BillingAddressRequired() (bool, error) {
	return p.config.Bool(BillingAddressRequiredKey)
}

// EmailRequired reads the required emailRequired flag.
func (p *Parser) EmailRequired() (bool, error) {
	return p.config.Bool(EmailRequiredKey)
}

// ShippingAddressRequired reads the required shippingAddressRequired flag.
func (p *Parser) ShippingAddressRequired() (bool, error) {
	return p.config.Bool(ShippingAddressRequiredKey)
}

// ExistingPaymentMethodRequired reads the required existingPaymentMethodRequired flag.
func (p *Parser) ExistingPaymentMethodRequired() (bool, error) {
	return p.config.Bool(ExistingPaymentMethodRequiredKey)
}

// GooglePayEnvironment returns the explicit googlePayEnvironment code if
// configured, otherwise the code derived from mode. Unrecognized modes map to
// production.
func (p *Parser) GooglePayEnvironment(mode Mode) (int, error) {
	if p.config.Has(GooglePayEnvironmentKey) {
		return p.config.Int(GooglePayEnvironmentKey)
	}
	return EnvironmentFor(mode), nil
}

// MerchantAccount returns the configured merchant account, or nil if absent.
func (p *Parser) MerchantAccount() (*string, error) {
	return p.config.OptionalString(MerchantAccountKey)
}

// TotalPriceStatus returns the configured total price status, or "FINAL".
func (p *Parser) TotalPriceStatus() (string, error) {
	if p.config.Has(TotalPriceStatusKey) {
		return p.config.String(TotalPriceStatusKey)
	}
	return DefaultTotalPriceStatus, nil
}
