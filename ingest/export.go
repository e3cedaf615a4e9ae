// Copyright 2025 The StationClean Authors
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/fieldstations/stationclean/cleaning"
	"github.com/fieldstations/stationclean/spatial"
)

var exportHeader = []string{
	"id", "location", "country", "country_code",
	"latitude", "longitude", "entered_latitude", "entered_longitude",
	"address", "classification", "status",
}

// ExportCSV writes every record in the given status to a CSV file. An empty
// status exports all records.
func ExportCSV(repo cleaning.RecordRepository, status, path string) (int, error) {
	recs, err := repo.ListByStatus(status, 0, 0)
	if err != nil {
		return 0, fmt.Errorf("listing records: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write(exportHeader); err != nil {
		return 0, err
	}

	for _, rec := range recs {
		if err := w.Write(exportRow(rec)); err != nil {
			return 0, err
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return 0, err
	}

	return len(recs), f.Close()
}

func exportRow(rec *cleaning.StoredRecord) []string {
	row := []string{
		strconv.Itoa(rec.ID),
		rec.Location,
		rec.Country,
		rec.CountryCode,
		formatCoord(rec.Point, func(p *spatial.Point) float64 { return p.Lat }),
		formatCoord(rec.Point, func(p *spatial.Point) float64 { return p.Lng }),
		formatCoord(rec.Entered, func(p *spatial.Point) float64 { return p.Lat }),
		formatCoord(rec.Entered, func(p *spatial.Point) float64 { return p.Lng }),
		rec.Address,
		strconv.Itoa(int(rec.Classification)),
		rec.Status,
	}

	return row
}

func formatCoord(p *spatial.Point, get func(*spatial.Point) float64) string {
	if p == nil {
		return ""
	}

	return strconv.FormatFloat(get(p), 'f', -1, 64)
}
