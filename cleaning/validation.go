// Copyright 2025 The StationClean Authors
// SPDX-License-Identifier: Apache-2.0

package cleaning

import (
	"errors"
	"fmt"
	"strings"
)

// validStatuses are the review statuses a record can carry.
var validStatuses = map[string]bool{
	StatusVerified: true,
	StatusPending:  true,
	StatusRepeated: true,
	StatusRejected: true,
}

// validateCoordinates verifies the pair is inside the geographic domain.
func validateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90 (got: %f)", lat)
	}

	if lon < -180 || lon > 180 {
		return fmt.Errorf("longitude must be between -180 and 180 (got: %f)", lon)
	}

	return nil
}

// validateStoredRecord verifies a record is storable.
func validateStoredRecord(rec *StoredRecord) error {
	if rec == nil {
		return errors.New("record can't be nil")
	}

	if strings.TrimSpace(rec.Location) == "" {
		return errors.New("location can't be empty")
	}

	if len(rec.Location) > 500 {
		return errors.New("location too long (maximum 500 characters)")
	}

	if strings.TrimSpace(rec.Country) == "" {
		return errors.New("country can't be empty")
	}

	if rec.Point != nil {
		if err := validateCoordinates(rec.Point.Lat, rec.Point.Lng); err != nil {
			return fmt.Errorf("invalid coordinates: %w", err)
		}
	}

	if rec.Entered != nil {
		if err := validateCoordinates(rec.Entered.Lat, rec.Entered.Lng); err != nil {
			return fmt.Errorf("invalid entered coordinates: %w", err)
		}
	}

	if !validStatuses[rec.Status] {
		return fmt.Errorf("invalid status: %s", rec.Status)
	}

	if len(rec.Notes) > 1000 {
		return errors.New("notes too long (maximum 1000 characters)")
	}

	return nil
}

// sanitizeLocation trims and bounds a raw location string.
func sanitizeLocation(loc string) string {
	loc = strings.TrimSpace(loc)

	if len(loc) > 500 {
		loc = loc[:500]
	}

	return loc
}
