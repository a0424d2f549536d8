// Package networks maintains the allow-list of card networks used to filter
// Google Pay configurations. The list is reference data: it is loaded from a
// versioned document and can be refreshed at runtime without touching the
// parser.
package networks

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"golang.org/x/mod/semver"

	"gpay-config/internal/googlepay"
)

// Document is the wire format of a card-network reference list.
//
// Example:
//
//	{"version": "v1.2.0", "networks": ["AMEX", "MASTERCARD", "VISA"]}
type Document struct {
	Version  string   `json:"version"`
	Networks []string `json:"networks"`
}

// ErrStaleVersion is returned by Update when the document is not newer than
// the current snapshot.
var ErrStaleVersion = errors.New("stale card network version")

// BuiltinVersion labels the compiled-in default list.
const BuiltinVersion = "v0.0.0"

type snapshot struct {
	version string
	set     googlepay.NetworkSet
}

// Registry is a googlepay.CardNetworks whose contents can be swapped
// atomically. Readers never block.
type Registry struct {
	current atomic.Pointer[snapshot]
}

// NewRegistry creates a registry seeded with the Google Pay default networks.
func NewRegistry() *Registry {
	r := &Registry{}
	r.current.Store(&snapshot{
		version: BuiltinVersion,
		set:     googlepay.DefaultCardNetworks(),
	})
	return r
}

// Contains implements googlepay.CardNetworks.
func (r *Registry) Contains(network string) bool {
	return r.current.Load().set.Contains(network)
}

// Snapshot returns the current version and sorted network list.
func (r *Registry) Snapshot() (string, []string) {
	s := r.current.Load()
	return s.version, s.set.List()
}

// Update replaces the allow-list with doc if doc carries a valid semver
// version strictly newer than the current one. Returns ErrStaleVersion for
// equal or older versions.
func (r *Registry) Update(doc Document) error {
	version := canonical(doc.Version)
	if !semver.IsValid(version) {
		return fmt.Errorf("invalid version %q", doc.Version)
	}

	set := googlepay.NewNetworkSet(doc.Networks...)
	if set.Len() == 0 {
		return errors.New("document lists no card networks")
	}

	for {
		cur := r.current.Load()
		if semver.Compare(version, cur.version) <= 0 {
			return fmt.Errorf("%w: %s is not newer than %s", ErrStaleVersion, version, cur.version)
		}
		if r.current.CompareAndSwap(cur, &snapshot{version: version, set: set}) {
			return nil
		}
	}
}

// canonical accepts versions with or without the leading "v".
func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// Verify Registry implements googlepay.CardNetworks at compile time.
var _ googlepay.CardNetworks = (*Registry)(nil)
