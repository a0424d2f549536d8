// Package dropin builds the Google Pay payment-method payload handed to
// client checkout SDKs. It plays the role of the SDK-side builder: the
// googlepay package drives its setters, and Build fills in SDK defaults for
// anything left unset.
package dropin

import (
	"fmt"

	"gpay-config/internal/googlepay"
)

// DefaultAuthMethods are used when the configuration leaves
// allowedAuthMethods unset.
var DefaultAuthMethods = []string{"PAN_ONLY", "CRYPTOGRAM_3DS"}

// PaymentMethod is the Google Pay client payload.
type PaymentMethod struct {
	Environment                   string                 `json:"environment"`
	MerchantInfo                  *MerchantInfo          `json:"merchantInfo,omitempty"`
	AllowedPaymentMethods         []AllowedPaymentMethod `json:"allowedPaymentMethods"`
	EmailRequired                 bool                   `json:"emailRequired"`
	ShippingAddressRequired       bool                   `json:"shippingAddressRequired"`
	ExistingPaymentMethodRequired bool                   `json:"existingPaymentMethodRequired"`
	TransactionInfo               TransactionInfo        `json:"transactionInfo"`
}

// MerchantInfo identifies the merchant account configured for Google Pay.
type MerchantInfo struct {
	MerchantAccount string `json:"merchantAccount"`
}

// AllowedPaymentMethod describes one accepted payment method type.
type AllowedPaymentMethod struct {
	Type       string         `json:"type"` // always "CARD"
	Parameters CardParameters `json:"parameters"`
}

// CardParameters constrains accepted cards.
type CardParameters struct {
	AllowedAuthMethods     []string `json:"allowedAuthMethods"`
	AllowedCardNetworks    []string `json:"allowedCardNetworks"`
	AllowPrepaidCards      bool     `json:"allowPrepaidCards"`
	BillingAddressRequired bool     `json:"billingAddressRequired"`
}

// TransactionInfo carries price status; amounts are set by the checkout flow.
type TransactionInfo struct {
	TotalPriceStatus string `json:"totalPriceStatus"`
}

// Builder implements googlepay.Builder for PaymentMethod.
// A Builder is single-use and not safe for concurrent use.
type Builder struct {
	mode            googlepay.Mode
	defaultNetworks []string

	networks    []string
	authMethods []string
	prepaid     bool
	billing     bool
	email       bool
	shipping    bool
	existing    bool
	environment int
	merchant    *string
	priceStatus string
}

// NewBuilder creates a builder for mode. defaultNetworks are used when the
// configuration leaves allowedCardNetworks unset.
func NewBuilder(mode googlepay.Mode, defaultNetworks []string) *Builder {
	return &Builder{
		mode:            mode,
		defaultNetworks: defaultNetworks,
	}
}

// Mode returns the ambient checkout mode.
func (b *Builder) Mode() googlepay.Mode {
	return b.mode
}

func (b *Builder) SetAllowedCardNetworks(networks []string) { b.networks = networks }

func (b *Builder) SetAllowedAuthMethods(methods []string) { b.authMethods = methods }

func (b *Builder) SetAllowPrepaidCards(allow bool) { b.prepaid = allow }

func (b *Builder) SetBillingAddressRequired(required bool) { b.billing = required }

func (b *Builder) SetEmailRequired(required bool) { b.email = required }

func (b *Builder) SetShippingAddressRequired(required bool) { b.shipping = required }

func (b *Builder) SetExistingPaymentMethodRequired(required bool) { b.existing = required }

func (b *Builder) SetGooglePayEnvironment(environment int) { b.environment = environment }

func (b *Builder) SetMerchantAccount(account *string) { b.merchant = account }

func (b *Builder) SetTotalPriceStatus(status string) { b.priceStatus = status }

// Build assembles the payload. Unknown environment codes are rejected.
func (b *Builder) Build() (*PaymentMethod, error) {
	env := googlepay.EnvironmentName(b.environment)
	if env == "" {
		return nil, fmt.Errorf("unsupported google pay environment %d", b.environment)
	}

	networks := b.networks
	if networks == nil {
		networks = b.defaultNetworks
	}
	authMethods := b.authMethods
	if authMethods == nil {
		authMethods = DefaultAuthMethods
	}

	pm := &PaymentMethod{
		Environment: env,
		AllowedPaymentMethods: []AllowedPaymentMethod{{
			Type: "CARD",
			Parameters: CardParameters{
				AllowedAuthMethods:     authMethods,
				AllowedCardNetworks:    networks,
				AllowPrepaidCards:      b.prepaid,
				BillingAddressRequired: b.billing,
			},
		}},
		EmailRequired:                 b.email,
		ShippingAddressRequired:       b.shipping,
		ExistingPaymentMethodRequired: b.existing,
		TransactionInfo:               TransactionInfo{TotalPriceStatus: b.priceStatus},
	}
	if b.merchant != nil {
		pm.MerchantInfo = &MerchantInfo{MerchantAccount: *b.merchant}
	}
	return pm, nil
}

// Verify Builder implements googlepay.Builder at compile time.
var _ googlepay.Builder[*PaymentMethod] = (*Builder)(nil)
