package googlepay

import (
	"sort"
	"strings"
)

// CardNetworks is the reference set of card-network identifiers accepted in
// allowedCardNetworks. Implementations must be safe for concurrent reads.
type CardNetworks interface {
	Contains(network string) bool
}

// NetworkSet is an immutable CardNetworks backed by a map.
type NetworkSet struct {
	members map[string]struct{}
}

// NewNetworkSet builds a set from the given identifiers. Identifiers are
// upper-cased; blanks are skipped.
func NewNetworkSet(networks ...string) NetworkSet {
	members := make(map[string]struct{}, len(networks))
	for _, n := range networks {
		n = strings.ToUpper(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		members[n] = struct{}{}
	}
	return NetworkSet{members: members}
}

// DefaultCardNetworks returns the card networks supported by the Google Pay API.
func DefaultCardNetworks() NetworkSet {
	return NewNetworkSet(
		"AMEX",
		"DISCOVER",
		"ELECTRON",
		"ELO",
		"ELO_DEBIT",
		"INTERAC",
		"JCB",
		"MAESTRO",
		"MASTERCARD",
		"VISA",
	)
}

// Contains reports whether network is a member. Matching is exact; callers
// upper-case before asking.
func (s NetworkSet) Contains(network string) bool {
	_, ok := s.members[network]
	return ok
}

// List returns the members in sorted order.
func (s NetworkSet) List() []string {
	out := make([]string, 0, len(s.members))
	for n := range s.members {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of members.
func (s NetworkSet) Len() int {
	return len(s.members)
}

// Verify NetworkSet implements CardNetworks at compile time.
var _ CardNetworks = NetworkSet{}
