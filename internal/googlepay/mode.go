package googlepay

import "strings"

// Mode is the ambient checkout environment of the caller, independent of any
// explicit override in the configuration.
type Mode string

const (
	ModeTest       Mode = "test"
	ModeProduction Mode = "live"
)

// Google Wallet environment codes.
const (
	EnvironmentProduction = 1
	EnvironmentTest       = 3
)

// ParseMode normalizes s into a Mode. Unrecognized values are kept as-is and
// are treated as production by EnvironmentFor.
func ParseMode(s string) Mode {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "test", "sandbox":
		return ModeTest
	case "live", "production", "prod":
		return ModeProduction
	}
	return Mode(s)
}

// IsTest reports whether m is the test mode. m is normalized with ParseMode,
// so "TEST" and "sandbox" are test too.
func (m Mode) IsTest() bool {
	return ParseMode(string(m)) == ModeTest
}

// EnvironmentFor derives the Google Wallet environment code for m.
// Anything that does not normalize to ModeTest maps to production.
func EnvironmentFor(m Mode) int {
	if m.IsTest() {
		return EnvironmentTest
	}
	return EnvironmentProduction
}

// EnvironmentName returns the Google Pay API name for an environment code,
// or "" if the code is unknown.
func EnvironmentName(code int) string {
	switch code {
	case EnvironmentTest:
		return "TEST"
	case EnvironmentProduction:
		return "PRODUCTION"
	}
	return ""
}
