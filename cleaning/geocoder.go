// Copyright 2025 The StationClean Authors
// SPDX-License-Identifier: Apache-2.0

package cleaning

// Match represents a single geocoding result from any provider.
type Match struct {
	Latitude  float64
	Longitude float64
	Address   string // formatted, country last
	Provider  string
}

// Geocoder interface for different geocoding providers.
type Geocoder interface {
	Geocode(query string) ([]Match, error)
}
