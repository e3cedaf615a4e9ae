// Copyright 2025 The StationClean Authors
// SPDX-License-Identifier: Apache-2.0

// Package ingest reads raw station spreadsheets, runs them through
// validation, and exports the cleaned partitions.
package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/fieldstations/stationclean/cleaning/utils"
)

// Columns names the spreadsheet columns the ingest reads. Matching is
// case-insensitive against the header row.
type Columns struct {
	Location  string
	Country   string
	Latitude  string
	Longitude string
}

// DefaultColumns returns the column names of the historical station sheets.
func DefaultColumns() Columns {
	return Columns{
		Location:  "Location",
		Country:   "Country",
		Latitude:  "Latitude",
		Longitude: "Longitude",
	}
}

// Row is one raw station row. Latitude and Longitude are nil when the cell
// was blank.
type Row struct {
	Index     int // 1-based data row number, excluding the header
	Location  string
	Country   string
	Latitude  *float64
	Longitude *float64
}

// ReadFile reads station rows from an .xlsx or .csv file. The first sheet
// row (or CSV line) must be a header containing every configured column;
// a missing column aborts the read.
func ReadFile(path string, cols Columns) ([]Row, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		return readXLSX(path, cols)
	case ".csv":
		return readCSV(path, cols)
	default:
		return nil, fmt.Errorf("unsupported file extension %q (want .xlsx or .csv)", ext)
	}
}

func readXLSX(path string, cols Columns) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s has no sheets", path)
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}

	return parseRows(path, records, cols)
}

func readCSV(path string, cols Columns) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // Ragged rows are handled by parseRows

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return parseRows(path, records, cols)
}

type columnIndexes struct {
	location  int
	country   int
	latitude  int
	longitude int
}

func resolveColumns(header []string, cols Columns) (columnIndexes, error) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[utils.LowerASCIIFolding(h)] = i
	}

	idx := columnIndexes{}

	for _, c := range []struct {
		name string
		dest *int
	}{
		{cols.Location, &idx.location},
		{cols.Country, &idx.country},
		{cols.Latitude, &idx.latitude},
		{cols.Longitude, &idx.longitude},
	} {
		i, ok := byName[utils.LowerASCIIFolding(c.name)]
		if !ok {
			return columnIndexes{}, fmt.Errorf("missing column %q in header %v", c.name, header)
		}

		*c.dest = i
	}

	return idx, nil
}

func parseRows(path string, records [][]string, cols Columns) ([]Row, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}

	idx, err := resolveColumns(records[0], cols)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	rows := make([]Row, 0, len(records)-1)

	for i, record := range records[1:] {
		row := Row{
			Index:    i + 1,
			Location: cell(record, idx.location),
			Country:  cell(record, idx.country),
		}

		row.Latitude, err = utils.ParseFloat(cell(record, idx.latitude))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad latitude: %w", path, row.Index, err)
		}

		row.Longitude, err = utils.ParseFloat(cell(record, idx.longitude))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad longitude: %w", path, row.Index, err)
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// cell returns the column value, tolerating rows shorter than the header.
func cell(record []string, i int) string {
	if i >= len(record) {
		return ""
	}

	return record[i]
}
