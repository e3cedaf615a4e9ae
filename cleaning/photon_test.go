// Copyright 2025 The StationClean Authors
// SPDX-License-Identifier: Apache-2.0

package cleaning

import (
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const photonFixture = `{
	"features": [
		{
			"geometry": {"coordinates": [39.15, 8.0]},
			"properties": {"name": "Kulumsa", "state": "Oromia", "country": "Ethiopia"}
		},
		{
			"geometry": {"coordinates": [38.74, 9.03]},
			"properties": {"name": "Kulumsa Street", "city": "Addis Ababa", "country": "Ethiopia"}
		}
	]
}`

func TestPhotonGeocode(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodGet, DefaultPhotonBaseURL+"/api/",
		httpmock.NewStringResponder(http.StatusOK, photonFixture))

	g := NewPhotonGeocoder("")

	matches, err := g.Geocode("Kulumsa Ethiopia")
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.InDelta(t, 8.0, matches[0].Latitude, 1e-9)
	assert.InDelta(t, 39.15, matches[0].Longitude, 1e-9)
	assert.Equal(t, "Kulumsa, Oromia, Ethiopia", matches[0].Address)
	assert.Equal(t, "photon", matches[0].Provider)

	assert.Equal(t, "Kulumsa Street, Addis Ababa, Ethiopia", matches[1].Address)
}

func TestPhotonGeocodeNoResults(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodGet, DefaultPhotonBaseURL+"/api/",
		httpmock.NewStringResponder(http.StatusOK, `{"features": []}`))

	g := NewPhotonGeocoder("")

	matches, err := g.Geocode("Nowhere At All")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestPhotonGeocodeHTTPErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantType ErrorType
	}{
		{"rate limited", http.StatusTooManyRequests, ErrorTypeRateLimit},
		{"forbidden", http.StatusForbidden, ErrorTypeQuotaExceeded},
		{"bad request", http.StatusBadRequest, ErrorTypeInvalidRequest},
		{"unavailable", http.StatusServiceUnavailable, ErrorTypeNetworkError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpmock.Activate()
			defer httpmock.DeactivateAndReset()

			httpmock.RegisterResponder(http.MethodGet, DefaultPhotonBaseURL+"/api/",
				httpmock.NewStringResponder(tt.status, ""))

			g := NewPhotonGeocoder("")

			_, err := g.Geocode("Kulumsa")
			require.Error(t, err)

			var geoErr *GeocodingError
			require.ErrorAs(t, err, &geoErr)
			assert.Equal(t, tt.wantType, geoErr.Type)
		})
	}
}

func TestPhotonGeocodeMalformedBody(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodGet, DefaultPhotonBaseURL+"/api/",
		httpmock.NewStringResponder(http.StatusOK, "not json"))

	g := NewPhotonGeocoder("")

	_, err := g.Geocode("Kulumsa")
	assert.Error(t, err)
}

func TestPhotonGeocodeCustomBaseURL(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodGet, "https://photon.example.org/api/",
		httpmock.NewStringResponder(http.StatusOK, `{"features": []}`))

	g := NewPhotonGeocoder("https://photon.example.org/")

	_, err := g.Geocode("Kulumsa")
	require.NoError(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}
