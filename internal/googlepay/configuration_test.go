package googlepay

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

// call is one recorded builder invocation.
type call struct {
	method string
	value  any
}

// recordingBuilder records every setter call and the terminal Build.
type recordingBuilder struct {
	mode  Mode
	calls []call
}

func (b *recordingBuilder) record(method string, value any) {
	b.calls = append(b.calls, call{method, value})
}

func (b *recordingBuilder) Mode() Mode { return b.mode }

func (b *recordingBuilder) SetAllowedCardNetworks(v []string) { b.record("AllowedCardNetworks", v) }

func (b *recordingBuilder) SetAllowedAuthMethods(v []string) { b.record("AllowedAuthMethods", v) }

func (b *recordingBuilder) SetAllowPrepaidCards(v bool) { b.record("AllowPrepaidCards", v) }

func (b *recordingBuilder) SetBillingAddressRequired(v bool) {
	b.record("BillingAddressRequired", v)
}

func (b *recordingBuilder) SetEmailRequired(v bool) { b.record("EmailRequired", v) }

func (b *recordingBuilder) SetShippingAddressRequired(v bool) {
	b.record("ShippingAddressRequired", v)
}

func (b *recordingBuilder) SetExistingPaymentMethodRequired(v bool) {
	b.record("ExistingPaymentMethodRequired", v)
}

func (b *recordingBuilder) SetGooglePayEnvironment(v int) { b.record("GooglePayEnvironment", v) }

func (b *recordingBuilder) SetMerchantAccount(v *string) { b.record("MerchantAccount", v) }

func (b *recordingBuilder) SetTotalPriceStatus(v string) { b.record("TotalPriceStatus", v) }

func (b *recordingBuilder) Build() ([]call, error) {
	b.record("Build", nil)
	return b.calls, nil
}

func TestConfigureCallsEverySetterInOrder(t *testing.T) {
	raw := requiredFlags()
	raw[AllowedCardNetworksKey] = []any{"visa", "bogus", "MASTERCARD"}
	raw[AllowedAuthMethodsKey] = []any{"PAN_ONLY", "CRYPTOGRAM_3DS"}
	raw[MerchantAccountKey] = "TestMerchant"

	p := newTestParser(t, raw)
	b := &recordingBuilder{mode: ModeTest}

	calls, err := Configure[[]call](p, b)
	if err != nil {
		t.Fatalf("Configure() error: %v", err)
	}

	networks, _ := p.AllowedCardNetworks()
	methods, _ := p.AllowedAuthMethods()
	prepaid, _ := p.AllowPrepaidCards()
	billing, _ := p.BillingAddressRequired()
	email, _ := p.EmailRequired()
	shipping, _ := p.ShippingAddressRequired()
	existing, _ := p.ExistingPaymentMethodRequired()
	env, _ := p.GooglePayEnvironment(ModeTest)
	account, _ := p.MerchantAccount()
	status, _ := p.TotalPriceStatus()

	want := []call{
		{"AllowedCardNetworks", networks},
		{"AllowedAuthMethods", methods},
		{"AllowPrepaidCards", prepaid},
		{"BillingAddressRequired", billing},
		{"EmailRequired", email},
		{"ShippingAddressRequired", shipping},
		{"ExistingPaymentMethodRequired", existing},
		{"GooglePayEnvironment", env},
		{"MerchantAccount", account},
		{"TotalPriceStatus", status},
		{"Build", nil},
	}

	if !reflect.DeepEqual(calls, want) {
		t.Errorf("Configure() calls =\n%v\nwant\n%v", calls, want)
	}
	if env != EnvironmentTest {
		t.Errorf("environment from builder mode = %d, want %d", env, EnvironmentTest)
	}
}

func TestConfigureEnvironmentFromBuilderMode(t *testing.T) {
	p := newTestParser(t, requiredFlags())

	calls, err := Configure[[]call](p, &recordingBuilder{mode: ModeProduction})
	if err != nil {
		t.Fatalf("Configure() error: %v", err)
	}
	for _, c := range calls {
		if c.method == "GooglePayEnvironment" && c.value != EnvironmentProduction {
			t.Errorf("GooglePayEnvironment = %v, want %d", c.value, EnvironmentProduction)
		}
	}
}

func TestConfigureStopsOnError(t *testing.T) {
	raw := requiredFlags()
	delete(raw, EmailRequiredKey)

	b := &recordingBuilder{mode: ModeTest}
	_, err := Configure[[]call](newTestParser(t, raw), b)
	if !errors.Is(err, ErrMissingKey) {
		t.Fatalf("Configure() error = %v, want ErrMissingKey", err)
	}

	for _, c := range b.calls {
		if c.method == "Build" {
			t.Error("Build called after a read error")
		}
	}
	if len(b.calls) != 4 {
		t.Errorf("setter calls before failure = %d, want 4", len(b.calls))
	}
}

func TestParse(t *testing.T) {
	raw := requiredFlags()
	raw[AllowedCardNetworksKey] = []any{"visa", "bogus"}
	raw[AllowedAuthMethodsKey] = []any{}
	raw[TotalPriceStatusKey] = "ESTIMATED"

	cfg, err := newTestParser(t, raw).Parse(ModeTest)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	want := &Configuration{
		AllowedCardNetworks:           []string{"VISA"},
		AllowedAuthMethods:            nil,
		AllowPrepaidCards:             true,
		BillingAddressRequired:        false,
		EmailRequired:                 true,
		ShippingAddressRequired:       false,
		ExistingPaymentMethodRequired: true,
		GooglePayEnvironment:          EnvironmentTest,
		MerchantAccount:               nil,
		TotalPriceStatus:              "ESTIMATED",
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("Parse() = %+v, want %+v", cfg, want)
	}
}

func TestValidateReportsAllFieldErrors(t *testing.T) {
	raw := map[string]any{
		AllowPrepaidCardsKey:    "yes",
		GooglePayEnvironmentKey: "TEST",
		AllowedCardNetworksKey:  []any{"VISA"},
	}

	err := newTestParser(t, raw).Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	if !errors.Is(err, ErrMissingKey) || !errors.Is(err, ErrWrongType) {
		t.Errorf("Validate() error = %v, want both ErrMissingKey and ErrWrongType", err)
	}

	msg := err.Error()
	for _, key := range []string{
		AllowPrepaidCardsKey,
		BillingAddressRequiredKey,
		EmailRequiredKey,
		ShippingAddressRequiredKey,
		ExistingPaymentMethodRequiredKey,
		GooglePayEnvironmentKey,
	} {
		if !strings.Contains(msg, key) {
			t.Errorf("Validate() error missing %q: %s", key, msg)
		}
	}
	if strings.Contains(msg, AllowedCardNetworksKey) {
		t.Errorf("Validate() reported a valid key: %s", msg)
	}
}

func TestParseFailsWithoutBuilding(t *testing.T) {
	cfg, err := newTestParser(t, map[string]any{}).Parse(ModeTest)
	if err == nil {
		t.Fatal("Parse() expected error for missing required flags")
	}
	if cfg != nil {
		t.Errorf("Parse() = %+v, want nil on error", cfg)
	}
}

func TestApply(t *testing.T) {
	account := "Merchant"
	cfg := &Configuration{
		AllowedCardNetworks:  []string{"VISA"},
		AllowPrepaidCards:    true,
		GooglePayEnvironment: EnvironmentProduction,
		MerchantAccount:      &account,
		TotalPriceStatus:     "FINAL",
	}

	calls, err := Apply[[]call](cfg, &recordingBuilder{mode: ModeTest})
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if len(calls) != 11 || calls[len(calls)-1].method != "Build" {
		t.Fatalf("Apply() calls = %v, want 10 setters then Build", calls)
	}
	// Apply forwards the record as-is; the builder mode does not override it
	if calls[7].method != "GooglePayEnvironment" || calls[7].value != EnvironmentProduction {
		t.Errorf("calls[7] = %v, want GooglePayEnvironment=%d", calls[7], EnvironmentProduction)
	}
}
