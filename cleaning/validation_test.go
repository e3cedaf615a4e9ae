// Copyright 2025 The StationClean Authors
// SPDX-License-Identifier: Apache-2.0

package cleaning

import (
	"testing"

	"github.com/fieldstations/stationclean/spatial"
)

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lon     float64
		wantErr bool
	}{
		{
			name:    "valid greytown coordinates",
			lat:     -29.0648,
			lon:     30.5957,
			wantErr: false,
		},
		{
			name:    "valid equator position",
			lat:     0.0,
			lon:     24.45,
			wantErr: false,
		},
		{
			name:    "latitude too high",
			lat:     91.0,
			lon:     -56.0,
			wantErr: true,
		},
		{
			name:    "latitude too low",
			lat:     -91.0,
			lon:     -56.0,
			wantErr: true,
		},
		{
			name:    "longitude too high",
			lat:     -34.0,
			lon:     181.0,
			wantErr: true,
		},
		{
			name:    "longitude too low",
			lat:     -34.0,
			lon:     -181.0,
			wantErr: true,
		},
		{
			name:    "edge case - pole",
			lat:     90.0,
			lon:     0.0,
			wantErr: false,
		},
		{
			name:    "edge case - antimeridian",
			lat:     0.0,
			lon:     -180.0,
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateCoordinates(tt.lat, tt.lon)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateCoordinates() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateStoredRecord(t *testing.T) {
	tests := []struct {
		name    string
		rec     *StoredRecord
		wantErr bool
	}{
		{
			name: "valid record",
			rec: &StoredRecord{
				Location: "Kulumsa",
				Country:  "Ethiopia",
				Point:    &spatial.Point{Lat: 8.0, Lng: 39.15},
				Status:   StatusVerified,
			},
			wantErr: false,
		},
		{
			name:    "nil record",
			rec:     nil,
			wantErr: true,
		},
		{
			name: "empty location",
			rec: &StoredRecord{
				Location: "",
				Country:  "Ethiopia",
				Status:   StatusPending,
			},
			wantErr: true,
		},
		{
			name: "whitespace only location",
			rec: &StoredRecord{
				Location: "   ",
				Country:  "Ethiopia",
				Status:   StatusPending,
			},
			wantErr: true,
		},
		{
			name: "location too long",
			rec: &StoredRecord{
				Location: string(make([]byte, 501)),
				Country:  "Ethiopia",
				Status:   StatusPending,
			},
			wantErr: true,
		},
		{
			name: "empty country",
			rec: &StoredRecord{
				Location: "Kulumsa",
				Country:  "",
				Status:   StatusPending,
			},
			wantErr: true,
		},
		{
			name: "invalid coordinates",
			rec: &StoredRecord{
				Location: "Kulumsa",
				Country:  "Ethiopia",
				Point:    &spatial.Point{Lat: 91.0, Lng: 39.15},
				Status:   StatusPending,
			},
			wantErr: true,
		},
		{
			name: "invalid status",
			rec: &StoredRecord{
				Location: "Kulumsa",
				Country:  "Ethiopia",
				Status:   "maybe",
			},
			wantErr: true,
		},
		{
			name: "notes too long",
			rec: &StoredRecord{
				Location: "Kulumsa",
				Country:  "Ethiopia",
				Status:   StatusPending,
				Notes:    string(make([]byte, 1001)),
			},
			wantErr: true,
		},
		{
			name: "valid record without coordinates",
			rec: &StoredRecord{
				Location: "Kulumsa",
				Country:  "Ethiopia",
				Status:   StatusPending,
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateStoredRecord(tt.rec)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateStoredRecord() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeLocation(t *testing.T) {
	tests := []struct {
		name     string
		location string
		want     string
	}{
		{
			name:     "normal location",
			location: "Kulumsa Agricultural Research Center",
			want:     "Kulumsa Agricultural Research Center",
		},
		{
			name:     "location with leading whitespace",
			location: "  Kulumsa",
			want:     "Kulumsa",
		},
		{
			name:     "location with trailing whitespace",
			location: "Kulumsa  ",
			want:     "Kulumsa",
		},
		{
			name:     "location too long gets truncated",
			location: string(make([]byte, 600)),
			want:     string(make([]byte, 500)),
		},
		{
			name:     "empty location",
			location: "",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeLocation(tt.location)
			if got != tt.want {
				t.Errorf("sanitizeLocation() = %v, want %v", got, tt.want)
			}
		})
	}
}
