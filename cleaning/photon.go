// Copyright 2025 The StationClean Authors
// SPDX-License-Identifier: Apache-2.0

package cleaning

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultPhotonBaseURL is the public keyless Photon instance.
const DefaultPhotonBaseURL = "https://photon.komoot.io"

const photonResultLimit = 5

// PhotonGeocoder queries the Photon API (OpenStreetMap data, no API key).
type PhotonGeocoder struct {
	baseURL    string
	httpClient *http.Client
}

// NewPhotonGeocoder creates a Photon geocoder. An empty baseURL selects the
// public instance.
func NewPhotonGeocoder(baseURL string) *PhotonGeocoder {
	if baseURL == "" {
		baseURL = DefaultPhotonBaseURL
	}

	return &PhotonGeocoder{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type photonResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"` // [lng, lat]
		} `json:"geometry"`
		Properties struct {
			Name    string `json:"name"`
			City    string `json:"city"`
			State   string `json:"state"`
			Country string `json:"country"`
		} `json:"properties"`
	} `json:"features"`
}

// Geocode searches Photon for the query and returns its matches in ranking
// order. A query Photon knows nothing about yields an empty slice and no
// error.
func (g *PhotonGeocoder) Geocode(query string) ([]Match, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", fmt.Sprintf("%d", photonResultLimit))

	reqURL := g.baseURL + "/api/?" + params.Encode()

	resp, err := g.httpClient.Get(reqURL)
	if err != nil {
		if IsTimeoutError(err) {
			return nil, &GeocodingError{Type: ErrorTypeTimeout, Message: "photon request timed out", Err: err}
		}

		return nil, &GeocodingError{Type: ErrorTypeNetworkError, Message: "photon request failed", Err: err}
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ClassifyHTTPError(resp.StatusCode, "")
	}

	var photonResp photonResponse
	if err := json.NewDecoder(resp.Body).Decode(&photonResp); err != nil {
		return nil, fmt.Errorf("decoding photon response: %w", err)
	}

	matches := make([]Match, 0, len(photonResp.Features))

	for _, f := range photonResp.Features {
		if len(f.Geometry.Coordinates) < 2 {
			continue
		}

		matches = append(matches, Match{
			Latitude:  f.Geometry.Coordinates[1],
			Longitude: f.Geometry.Coordinates[0],
			Address:   formatPhotonAddress(f.Properties.Name, f.Properties.City, f.Properties.State, f.Properties.Country),
			Provider:  "photon",
		})
	}

	return matches, nil
}

// formatPhotonAddress joins the non-empty address parts, country last, the
// way the classic geocoders format display names.
func formatPhotonAddress(parts ...string) string {
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}

	return strings.Join(out, ", ")
}
