// Copyright 2025 The StationClean Authors
// SPDX-License-Identifier: Apache-2.0

package cleaning

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// GoogleMapsGeocoder uses the Google Maps Geocoding API. It needs an API key
// and is the alternative to Photon for deployments that already pay for one.
type GoogleMapsGeocoder struct {
	apiKey     string
	httpClient *http.Client
}

// NewGoogleMapsGeocoder creates a new Google Maps geocoder.
func NewGoogleMapsGeocoder(apiKey string) *GoogleMapsGeocoder {
	return &GoogleMapsGeocoder{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type googleMapsResponse struct {
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
	Status string `json:"status"` // OK, ZERO_RESULTS, etc.
}

// Geocode searches Google Maps for the query and returns its matches in
// ranking order. ZERO_RESULTS yields an empty slice and no error; the quota
// and rate-limit statuses surface as typed geocoding errors so batch runs
// can back off.
func (g *GoogleMapsGeocoder) Geocode(query string) ([]Match, error) {
	params := url.Values{}
	params.Set("address", query)
	params.Set("key", g.apiKey)

	reqURL := "https://maps.googleapis.com/maps/api/geocode/json?" + params.Encode()

	resp, err := g.httpClient.Get(reqURL)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ClassifyHTTPError(resp.StatusCode, "")
	}

	var gmResp googleMapsResponse
	if err := json.NewDecoder(resp.Body).Decode(&gmResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	switch gmResp.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, nil
	case "OVER_QUERY_LIMIT":
		return nil, &GeocodingError{Type: ErrorTypeQuotaExceeded, Message: "google maps quota exceeded"}
	case "REQUEST_DENIED":
		return nil, &GeocodingError{Type: ErrorTypeInvalidRequest, Message: "google maps request denied"}
	default:
		return nil, &GeocodingError{
			Type:    ErrorTypeUnknown,
			Message: fmt.Sprintf("google maps status: %s", gmResp.Status),
		}
	}

	matches := make([]Match, 0, len(gmResp.Results))

	for _, result := range gmResp.Results {
		matches = append(matches, Match{
			Latitude:  result.Geometry.Location.Lat,
			Longitude: result.Geometry.Location.Lng,
			Address:   result.FormattedAddress,
			Provider:  "google_maps",
		})
	}

	return matches, nil
}
