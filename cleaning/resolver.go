// Copyright 2025 The StationClean Authors
// SPDX-License-Identifier: Apache-2.0

package cleaning

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pariz/gountries"

	"github.com/fieldstations/stationclean/cleaning/utils"
)

// ErrCountryNotFound is returned when a country name matches neither the ISO
// dataset nor the alias table.
var ErrCountryNotFound = errors.New("country not found")

// ResolvedCountry is a canonical country identity.
type ResolvedCountry struct {
	Name   string // canonical common name
	Alpha2 string // ISO 3166-1 alpha-2
	Alpha3 string // ISO 3166-1 alpha-3
}

// CountryResolver maps free-text country names to their canonical identity.
// Lookup order: ISO dataset (names and alpha codes), then the alias table.
type CountryResolver struct {
	query   *gountries.Query
	aliases map[string]string // folded raw name -> canonical name
}

// NewCountryResolver builds a resolver seeded with the default alias table.
func NewCountryResolver() *CountryResolver {
	r := &CountryResolver{
		query:   gountries.New(),
		aliases: make(map[string]string, len(defaultAliases)),
	}

	for raw, canonical := range defaultAliases {
		r.AddAlias(raw, canonical)
	}

	return r
}

// AddAlias registers raw as an alias for the canonical name. Keys are
// case-insensitive and accent-folded; a later AddAlias for the same raw name
// wins.
func (r *CountryResolver) AddAlias(raw, canonical string) {
	r.aliases[utils.LowerASCIIFolding(raw)] = canonical
}

// Resolve maps a free-text country name to its canonical identity. The input
// is trimmed; matching is case-insensitive. A name that resolves through the
// alias table returns the canonical target's identity, so callers never see
// alias spellings in output.
func (r *CountryResolver) Resolve(raw string) (ResolvedCountry, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return ResolvedCountry{}, ErrCountryNotFound
	}

	if rc, ok := r.lookup(name); ok {
		return rc, nil
	}

	if canonical, ok := r.aliases[utils.LowerASCIIFolding(name)]; ok {
		if rc, ok := r.lookup(canonical); ok {
			return rc, nil
		}
	}

	return ResolvedCountry{}, fmt.Errorf("%w: %q", ErrCountryNotFound, raw)
}

func (r *CountryResolver) lookup(name string) (ResolvedCountry, bool) {
	if c, err := r.query.FindCountryByName(name); err == nil {
		return resolvedFrom(c), true
	}

	// Field sheets sometimes carry the ISO code instead of the name.
	if n := len(name); n == 2 || n == 3 {
		if c, err := r.query.FindCountryByAlpha(name); err == nil {
			return resolvedFrom(c), true
		}
	}

	return ResolvedCountry{}, false
}

func resolvedFrom(c gountries.Country) ResolvedCountry {
	return ResolvedCountry{
		Name:   c.Name.Common,
		Alpha2: c.Alpha2,
		Alpha3: c.Alpha3,
	}
}
