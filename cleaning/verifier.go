// Copyright 2025 The StationClean Authors
// SPDX-License-Identifier: Apache-2.0

package cleaning

import (
	"github.com/fieldstations/stationclean/spatial"
)

// ContainmentIndex answers which countries contain a point. Implemented by
// the borders package.
type ContainmentIndex interface {
	// Containing returns the ISO3 codes of the countries containing the
	// point, or an empty slice for none.
	Containing(lat, lng float64) []string
}

// Correction is a successful transform search: the index of the transform
// that placed the point inside the expected country, and the coordinates it
// produced. Transform 0 means the input was already correct.
type Correction struct {
	Transform int
	Lat       float64
	Lng       float64
}

// Verifier runs the fixed 8-transform search over entered coordinates.
//
// Field sheets get coordinates wrong in a small number of systematic ways:
// swapped axes, dropped minus signs, or both. The search enumerates every
// combination once, in a fixed order, so equal inputs always repair the same
// way.
type Verifier struct {
	index ContainmentIndex
}

// NewVerifier builds a verifier over the given containment index.
func NewVerifier(index ContainmentIndex) *Verifier {
	return &Verifier{index: index}
}

// transformCandidates returns the 8 candidate coordinate pairs in search
// order. Index 0 is the literal input; 1..3 are sign flips; 4..7 repeat the
// sign combinations with the axes swapped.
func transformCandidates(lat, lng float64) [8][2]float64 {
	return [8][2]float64{
		{lat, lng},
		{lat, -lng},
		{-lat, lng},
		{-lat, -lng},
		{lng, lat},
		{lng, -lat},
		{-lng, lat},
		{-lng, -lat},
	}
}

// Verify searches the transforms for one that places the point inside the
// country identified by code (ISO3). The first matching transform wins, so a
// correct entry always reports transform 0 regardless of what later
// transforms would match. Candidates outside the valid coordinate domain are
// skipped without consulting the index.
func (v *Verifier) Verify(lat, lng float64, code string) (Correction, bool) {
	for i, c := range transformCandidates(lat, lng) {
		if !spatial.InRange(c[0], c[1]) {
			continue
		}

		for _, got := range v.index.Containing(c[0], c[1]) {
			if got == code {
				return Correction{Transform: i, Lat: c[0], Lng: c[1]}, true
			}
		}
	}

	return Correction{}, false
}
