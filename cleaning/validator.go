// Copyright 2025 The StationClean Authors
// SPDX-License-Identifier: Apache-2.0

package cleaning

import (
	"log"
	"strings"

	"github.com/fieldstations/stationclean/cleaning/utils"
)

// Validator assigns exactly one classification to each station row.
//
// The decision order is: text fields first, then the transform search over
// the entered coordinates, then geocoding by location name. The geocoder may
// be nil for offline runs; records that would have needed it end up
// MissingCoordinates or Unresolvable.
type Validator struct {
	resolver *CountryResolver
	verifier *Verifier
	geocoder Geocoder
}

// NewValidator builds a validator. geocoder may be nil to disable the
// geocoding fallback.
func NewValidator(resolver *CountryResolver, verifier *Verifier, geocoder Geocoder) *Validator {
	return &Validator{
		resolver: resolver,
		verifier: verifier,
		geocoder: geocoder,
	}
}

// Validate classifies one row. It always returns a record; a panic anywhere
// in per-record processing is contained here and classifies the record
// Unresolvable, so one malformed row cannot abort a batch run.
func (v *Validator) Validate(location, country string, lat, lng *float64) (rec *LocationRecord) {
	location = strings.TrimSpace(location)
	country = strings.TrimSpace(country)

	rec = &LocationRecord{
		Location:  utils.TitleWords(location),
		Country:   utils.TitleWords(country),
		Latitude:  lat,
		Longitude: lng,
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("recovered while validating %q / %q: %v", location, country, r)
			rec.Classification = Unresolvable
		}
	}()

	if location == "" || country == "" {
		rec.Classification = MissingLocationOrCountry

		return rec
	}

	// An unknown country name is an input problem, not a coordinate one.
	resolved, err := v.resolver.Resolve(country)
	if err != nil {
		rec.Classification = MissingLocationOrCountry

		return rec
	}

	rec.Country = resolved.Name
	rec.CountryCode = resolved.Alpha3

	// A (0, 0) pair means the coordinates were never entered; a single zero
	// component is a legitimate equator or meridian position.
	missing := lat == nil || lng == nil || (*lat == 0 && *lng == 0)

	if !missing {
		if c, ok := v.verifier.Verify(*lat, *lng, resolved.Alpha3); ok {
			rec.Classification = TransformFound(c.Transform)
			rec.RecordedLat = &c.Lat
			rec.RecordedLng = &c.Lng

			return rec
		}
	}

	if v.geocoder == nil {
		if missing {
			rec.Classification = MissingCoordinates
		} else {
			rec.Classification = Unresolvable
		}

		return rec
	}

	match, ok, err := v.geocode(location, resolved)
	if err != nil {
		rec.Classification = Unresolvable

		return rec
	}

	if !ok {
		if missing {
			rec.Classification = MissingCoordinates
		} else {
			rec.Classification = Unresolvable
		}

		return rec
	}

	rec.Classification = Geocoded
	rec.RecordedLat = &match.Latitude
	rec.RecordedLng = &match.Longitude
	rec.Address = match.Address

	return rec
}

// geocode tries the location qualified by country first, then the bare
// location. Only matches whose address belongs to the expected country count;
// a geocoder happily answers "Greytown" with the wrong hemisphere otherwise.
func (v *Validator) geocode(location string, want ResolvedCountry) (Match, bool, error) {
	queries := []string{
		location + " " + want.Name,
		location,
	}

	for _, q := range queries {
		matches, err := v.geocoder.Geocode(q)
		if err != nil {
			return Match{}, false, err
		}

		for _, m := range matches {
			if v.matchesCountry(m.Address, want) {
				return m, true, nil
			}
		}
	}

	return Match{}, false, nil
}

// matchesCountry checks the trailing comma segment of a formatted address
// against the expected country, with a folded substring check as fallback
// for providers that omit the country segment.
func (v *Validator) matchesCountry(address string, want ResolvedCountry) bool {
	if address == "" {
		return false
	}

	parts := strings.Split(address, ",")

	last := strings.TrimSpace(parts[len(parts)-1])
	if rc, err := v.resolver.Resolve(last); err == nil && rc.Alpha3 == want.Alpha3 {
		return true
	}

	return strings.Contains(utils.LowerASCIIFolding(address), utils.LowerASCIIFolding(want.Name))
}
