package googlepay

import (
	"reflect"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"test", ModeTest},
		{" TEST ", ModeTest},
		{"sandbox", ModeTest},
		{"live", ModeProduction},
		{"Production", ModeProduction},
		{"europe", Mode("europe")},
		{"", Mode("")},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseMode(tt.in); got != tt.want {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEnvironmentFor(t *testing.T) {
	tests := []struct {
		mode Mode
		want int
	}{
		{ModeTest, EnvironmentTest},
		{Mode("TEST"), EnvironmentTest},
		{Mode(" Sandbox "), EnvironmentTest},
		{ModeProduction, EnvironmentProduction},
		{Mode("LIVE"), EnvironmentProduction},
		{Mode("europe"), EnvironmentProduction},
		{Mode(""), EnvironmentProduction},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			if got := EnvironmentFor(tt.mode); got != tt.want {
				t.Errorf("EnvironmentFor(%q) = %d, want %d", tt.mode, got, tt.want)
			}
		})
	}
}

func TestEnvironmentName(t *testing.T) {
	if got := EnvironmentName(EnvironmentTest); got != "TEST" {
		t.Errorf("EnvironmentName(test) = %q", got)
	}
	if got := EnvironmentName(EnvironmentProduction); got != "PRODUCTION" {
		t.Errorf("EnvironmentName(production) = %q", got)
	}
	if got := EnvironmentName(7); got != "" {
		t.Errorf("EnvironmentName(7) = %q, want empty", got)
	}
}

func TestNetworkSet(t *testing.T) {
	s := NewNetworkSet("visa", " Amex ", "", "VISA")

	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	if !s.Contains("VISA") || !s.Contains("AMEX") {
		t.Error("set missing upper-cased members")
	}
	if s.Contains("visa") {
		t.Error("Contains should match exactly")
	}
	if got := s.List(); !reflect.DeepEqual(got, []string{"AMEX", "VISA"}) {
		t.Errorf("List() = %v", got)
	}

	if !DefaultCardNetworks().Contains("MASTERCARD") {
		t.Error("default set missing MASTERCARD")
	}
}
