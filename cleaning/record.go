// Copyright 2025 The StationClean Authors
// SPDX-License-Identifier: Apache-2.0

// Package cleaning validates geographic field-station records: resolving
// free-text country names, repairing entry-order and sign mistakes in
// coordinates, and falling back to geocoding by location name.
package cleaning

import "fmt"

// Classification is the outcome code assigned to a record. Codes 0 through 7
// identify the coordinate transform that placed the record inside its
// country (0 means the coordinates were correct as entered); the remaining
// codes are the historical entry-type values used in the exported datasets.
type Classification int

const (
	// CorrectAsEntered means the entered coordinates already fall inside
	// the record's country.
	CorrectAsEntered Classification = 0
	// Geocoded means no transform matched and the coordinates were
	// recovered from the location name.
	Geocoded Classification = 8
	// Unresolvable means the record could not be validated or repaired.
	Unresolvable Classification = -1
	// MissingCoordinates means no coordinates were entered and none could
	// be recovered.
	MissingCoordinates Classification = -2
	// MissingLocationOrCountry means the record lacks the text fields the
	// pipeline needs before it can look at coordinates.
	MissingLocationOrCountry Classification = -3
)

// TransformFound returns the classification for a successful transform
// search. index must be in [0, 7].
func TransformFound(index int) Classification {
	if index < 0 || index > 7 {
		panic(fmt.Sprintf("cleaning: transform index %d out of range", index))
	}

	return Classification(index)
}

// IsResolved reports whether the record ended with authoritative coordinates.
func (c Classification) IsResolved() bool {
	return c >= CorrectAsEntered && c <= Geocoded
}

// Transform returns the transform index behind the classification, or false
// when the record was not resolved by the transform search.
func (c Classification) Transform() (int, bool) {
	if c >= 0 && c <= 7 {
		return int(c), true
	}

	return 0, false
}

func (c Classification) String() string {
	switch c {
	case CorrectAsEntered:
		return "correct as entered"
	case 1:
		return "longitude sign flipped"
	case 2:
		return "latitude sign flipped"
	case 3:
		return "both signs flipped"
	case 4:
		return "latitude and longitude swapped"
	case 5:
		return "swapped, longitude sign flipped"
	case 6:
		return "swapped, latitude sign flipped"
	case 7:
		return "swapped, both signs flipped"
	case Geocoded:
		return "geocoded from location name"
	case Unresolvable:
		return "unresolvable"
	case MissingCoordinates:
		return "missing coordinates"
	case MissingLocationOrCountry:
		return "missing location or country"
	default:
		return fmt.Sprintf("classification(%d)", int(c))
	}
}

// LocationRecord is the result of validating a single station row.
//
// Latitude and Longitude carry the values as entered (nil when none were),
// and are never modified. RecordedLat and RecordedLng carry the
// authoritative coordinates and are populated exactly when the record
// resolved; for a record that was correct as entered they equal the input.
type LocationRecord struct {
	Location       string
	Country        string
	CountryCode    string
	Latitude       *float64
	Longitude      *float64
	RecordedLat    *float64
	RecordedLng    *float64
	Address        string
	Classification Classification
}

// Resolved reports whether the record carries authoritative coordinates.
func (r *LocationRecord) Resolved() bool {
	return r.Classification.IsResolved()
}
