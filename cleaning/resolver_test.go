// Copyright 2025 The StationClean Authors
// SPDX-License-Identifier: Apache-2.0

package cleaning

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCanonicalNames(t *testing.T) {
	r := NewCountryResolver()

	tests := []struct {
		name       string
		raw        string
		wantName   string
		wantAlpha3 string
	}{
		{"exact common name", "South Africa", "South Africa", "ZAF"},
		{"lowercase", "mali", "Mali", "MLI"},
		{"surrounding whitespace", "  Ethiopia  ", "Ethiopia", "ETH"},
		{"alpha3 code", "IND", "India", "IND"},
		{"alpha2 code", "es", "Spain", "ESP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, tt.wantAlpha3, got.Alpha3)
		})
	}
}

func TestResolveAliases(t *testing.T) {
	r := NewCountryResolver()

	tests := []struct {
		name       string
		raw        string
		wantAlpha3 string
	}{
		{"america", "America", "USA"},
		{"zaire", "Zaire", "COD"},
		{"drc long form", "Democratic Republic of Congo", "COD"},
		{"bare congo is brazzaville", "Congo", "COG"},
		{"espana with accent", "España", "ESP"},
		{"espana folded", "ESPANA", "ESP"},
		{"cote divoire", "Côte d'Ivoire", "CIV"},
		{"republic of south africa", "Republic of South Africa", "ZAF"},
		{"trinidad y tobago", "Trinidad Y Tobago", "TTO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAlpha3, got.Alpha3)
			assert.NotEmpty(t, got.Name)
		})
	}
}

func TestResolveDefaultAliasesRoundTrip(t *testing.T) {
	// Every alias target must itself resolve, or the table is silently dead.
	r := NewCountryResolver()

	for raw := range defaultAliases {
		got, err := r.Resolve(raw)
		require.NoError(t, err, "alias %q", raw)
		assert.Len(t, got.Alpha3, 3, "alias %q", raw)
	}
}

func TestResolveNotFound(t *testing.T) {
	r := NewCountryResolver()

	for _, raw := range []string{"", "   ", "Atlantis", "Republic of Nowhere"} {
		_, err := r.Resolve(raw)
		assert.True(t, errors.Is(err, ErrCountryNotFound), "Resolve(%q) = %v, want ErrCountryNotFound", raw, err)
	}
}

func TestAddAlias(t *testing.T) {
	r := NewCountryResolver()

	_, err := r.Resolve("The Old Country")
	require.Error(t, err)

	r.AddAlias("The Old Country", "Ireland")

	got, err := r.Resolve("  the OLD country ")
	require.NoError(t, err)
	assert.Equal(t, "IRL", got.Alpha3)
}
