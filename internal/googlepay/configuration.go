package googlepay

import "errors"

// Configuration is the fully resolved Google Pay configuration.
// Field order follows the order in which builders receive them.
type Configuration struct {
	AllowedCardNetworks           []string `json:"allowedCardNetworks,omitempty"`
	AllowedAuthMethods            []string `json:"allowedAuthMethods,omitempty"`
	AllowPrepaidCards             bool     `json:"allowPrepaidCards"`
	BillingAddressRequired        bool     `json:"billingAddressRequired"`
	EmailRequired                 bool     `json:"emailRequired"`
	ShippingAddressRequired       bool     `json:"shippingAddressRequired"`
	ExistingPaymentMethodRequired bool     `json:"existingPaymentMethodRequired"`
	GooglePayEnvironment          int      `json:"googlePayEnvironment"`
	MerchantAccount               *string  `json:"merchantAccount"`
	TotalPriceStatus              string   `json:"totalPriceStatus"`
}

// Builder accepts a Google Pay configuration one field at a time and produces
// the SDK-specific result. Mode supplies the ambient environment.
type Builder[T any] interface {
	Mode() Mode

	SetAllowedCardNetworks(networks []string)
	SetAllowedAuthMethods(methods []string)
	SetAllowPrepaidCards(allow bool)
	SetBillingAddressRequired(required bool)
	SetEmailRequired(required bool)
	SetShippingAddressRequired(required bool)
	SetExistingPaymentMethodRequired(required bool)
	SetGooglePayEnvironment(environment int)
	SetMerchantAccount(account *string)
	SetTotalPriceStatus(status string)

	Build() (T, error)
}

// Configure reads every field from p exactly once and forwards it to b, then
// calls b.Build. The environment is derived from b.Mode(). The first read
// error is returned unchanged and Build is not called.
func Configure[T any](p *Parser, b Builder[T]) (T, error) {
	var zero T

	networks, err := p.AllowedCardNetworks()
	if err != nil {
		return zero, err
	}
	b.SetAllowedCardNetworks(networks)

	methods, err := p.AllowedAuthMethods()
	if err != nil {
		return zero, err
	}
	b.SetAllowedAuthMethods(methods)

	prepaid, err := p.AllowPrepaidCards()
	if err != nil {
		return zero, err
	}
	b.SetAllowPrepaidCards(prepaid)

	billing, err := p.BillingAddressRequired()
	if err != nil {
		return zero, err
	}
	b.SetBillingAddressRequired(billing)

	email, err := p.EmailRequired()
	if err != nil {
		return zero, err
	}
	b.SetEmailRequired(email)

	shipping, err := p.ShippingAddressRequired()
	if err != nil {
		return zero, err
	}
	b.SetShippingAddressRequired(shipping)

	existing, err := p.ExistingPaymentMethodRequired()
	if err != nil {
		return zero, err
	}
	b.SetExistingPaymentMethodRequired(existing)

	environment, err := p.GooglePayEnvironment(b.Mode())
	if err != nil {
		return zero, err
	}
	b.SetGooglePayEnvironment(environment)

	account, err := p.MerchantAccount()
	if err != nil {
		return zero, err
	}
	b.SetMerchantAccount(account)

	status, err := p.TotalPriceStatus()
	if err != nil {
		return zero, err
	}
	b.SetTotalPriceStatus(status)

	return b.Build()
}

// Apply hands an already parsed configuration to b in one step.
func Apply[T any](cfg *Configuration, b Builder[T]) (T, error) {
	b.SetAllowedCardNetworks(cfg.AllowedCardNetworks)
	b.SetAllowedAuthMethods(cfg.AllowedAuthMethods)
	b.SetAllowPrepaidCards(cfg.AllowPrepaidCards)
	b.SetBillingAddressRequired(cfg.BillingAddressRequired)
	b.SetEmailRequired(cfg.EmailRequired)
	b.SetShippingAddressRequired(cfg.ShippingAddressRequired)
	b.SetExistingPaymentMethodRequired(cfg.ExistingPaymentMethodRequired)
	b.SetGooglePayEnvironment(cfg.GooglePayEnvironment)
	b.SetMerchantAccount(cfg.MerchantAccount)
	b.SetTotalPriceStatus(cfg.TotalPriceStatus)
	return b.Build()
}

type fieldKind int

const (
	kindStrings fieldKind = iota
	kindBool
	kindInt
	kindString
)

// fieldRule is one row of the field policy: which keys must be present and
// which type each holds. Defaults live in the getters.
type fieldRule struct {
	key      string
	kind     fieldKind
	required bool
}

var fieldRules = []fieldRule{
	{AllowedCardNetworksKey, kindStrings, false},
	{AllowedAuthMethodsKey, kindStrings, false},
	{AllowPrepaidCardsKey, kindBool, true},
	{BillingAddressRequiredKey, kindBool, true},
	{EmailRequiredKey, kindBool, true},
	{ShippingAddressRequiredKey, kindBool, true},
	{ExistingPaymentMethodRequiredKey, kindBool, true},
	{GooglePayEnvironmentKey, kindInt, false},
	{MerchantAccountKey, kindString, false},
	{TotalPriceStatusKey, kindString, false},
}

// Validate checks every known key against the field policy and reports all
// problems at once. Unknown keys are ignored.
func (p *Parser) Validate() error {
	var errs []error
	for _, rule := range fieldRules {
		if !p.config.Has(rule.key) {
			if rule.required {
				errs = append(errs, missingKey(rule.key, kindName(rule.kind)))
			}
			continue
		}

		var err error
		switch rule.kind {
		case kindStrings:
			_, err = p.config.Strings(rule.key)
		case kindBool:
			_, err = p.config.Bool(rule.key)
		case kindInt:
			_, err = p.config.Int(rule.key)
		case kindString:
			_, err = p.config.String(rule.key)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Parse validates the whole configuration and resolves it for mode.
func (p *Parser) Parse(mode Mode) (*Configuration, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return Configure[*Configuration](p, &recordBuilder{mode: mode})
}

func kindName(k fieldKind) string {
	switch k {
	case kindStrings:
		return "array"
	case kindBool:
		return "boolean"
	case kindInt:
		return "integer"
	}
	return "string"
}

// recordBuilder collects fields into a Configuration.
type recordBuilder struct {
	mode Mode
	cfg  Configuration
}

func (b *recordBuilder) Mode() Mode { return b.mode }

func (b *recordBuilder) SetAllowedCardNetworks(n []string) { b.cfg.AllowedCardNetworks = n }

func (b *recordBuilder) SetAllowedAuthMethods(m []string) { b.cfg.AllowedAuthMethods = m }

func (b *recordBuilder) SetAllowPrepaidCards(v bool) { b.cfg.AllowPrepaidCards = v }

func (b *recordBuilder) SetBillingAddressRequired(v bool) { b.cfg.BillingAddressRequired = v }

func (b *recordBuilder) SetEmailRequired(v bool) { b.cfg.EmailRequired = v }

func (b *recordBuilder) SetShippingAddressRequired(v bool) { b.cfg.ShippingAddressRequired = v }

func (b *recordBuilder) SetExistingPaymentMethodRequired(v bool) {
	b.cfg.ExistingPaymentMethodRequired = v
}

func (b *recordBuilder) SetGooglePayEnvironment(v int) { b.cfg.GooglePayEnvironment = v }

func (b *recordBuilder) SetMerchantAccount(v *string) { b.cfg.MerchantAccount = v }

func (b *recordBuilder) SetTotalPriceStatus(v string) { b.cfg.TotalPriceStatus = v }

func (b *recordBuilder) Build() (*Configuration, error) {
	cfg := b.cfg
	return &cfg, nil
}

var _ Builder[*Configuration] = (*recordBuilder)(nil)
