// Copyright 2025 The StationClean Authors
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/fieldstations/stationclean/cleaning"
)

// Metrics counts the outcomes of a validation run.
type Metrics struct {
	Total      int
	Verified   int // correct as entered
	Corrected  int // repaired by a transform
	Geocoded   int
	Pending    int // unresolvable or missing data
	Repeated   int
	Duplicates int // rows matching an already verified station
}

// Merge accumulates another run's metrics into m.
func (m *Metrics) Merge(other *Metrics) {
	m.Total += other.Total
	m.Verified += other.Verified
	m.Corrected += other.Corrected
	m.Geocoded += other.Geocoded
	m.Pending += other.Pending
	m.Repeated += other.Repeated
	m.Duplicates += other.Duplicates
}

func (m *Metrics) String() string {
	return fmt.Sprintf("total=%d verified=%d corrected=%d geocoded=%d pending=%d repeated=%d",
		m.Total, m.Verified, m.Corrected, m.Geocoded, m.Pending, m.Repeated)
}

func (m *Metrics) count(rec *cleaning.StoredRecord) {
	m.Total++

	if rec.Status == cleaning.StatusRepeated {
		m.Repeated++
		m.Duplicates++

		return
	}

	switch {
	case rec.Classification == cleaning.CorrectAsEntered:
		m.Verified++
	case rec.Classification == cleaning.Geocoded:
		m.Geocoded++
	case rec.Classification.IsResolved():
		m.Corrected++
	default:
		m.Pending++
	}
}

// Runner validates a batch of rows and persists the results.
type Runner struct {
	validator *cleaning.Validator
	repo      cleaning.RecordRepository
	progress  bool
}

// NewRunner builds a batch runner. repo may be nil to validate without
// persisting; progress enables a terminal progress bar.
func NewRunner(validator *cleaning.Validator, repo cleaning.RecordRepository, progress bool) *Runner {
	return &Runner{
		validator: validator,
		repo:      repo,
		progress:  progress,
	}
}

// Run validates every row in order. When a repository is configured, a row
// that resolves to a station already verified there is stored as repeated
// instead, and all results are bulk inserted at the end.
func (r *Runner) Run(rows []Row) ([]*cleaning.StoredRecord, *Metrics, error) {
	var bar *progressbar.ProgressBar
	if r.progress && isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(len(rows),
			progressbar.OptionSetDescription("Validating"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	metrics := &Metrics{}
	recs := make([]*cleaning.StoredRecord, 0, len(rows))

	for _, row := range rows {
		result := r.validator.Validate(row.Location, row.Country, row.Latitude, row.Longitude)
		rec := cleaning.NewStoredRecord(result)

		if r.repo != nil && rec.Status == cleaning.StatusVerified {
			dup, err := r.isDuplicate(rec)
			if err != nil {
				return nil, nil, fmt.Errorf("checking duplicates for row %d: %w", row.Index, err)
			}

			if dup {
				rec.Status = cleaning.StatusRepeated
			}
		}

		metrics.count(rec)
		recs = append(recs, rec)

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if r.repo != nil {
		if err := r.repo.BulkInsert(recs); err != nil {
			return nil, nil, fmt.Errorf("inserting records: %w", err)
		}
	}

	return recs, metrics, nil
}

func (r *Runner) isDuplicate(rec *cleaning.StoredRecord) (bool, error) {
	existing, err := r.repo.FindByLocation(rec.Location, rec.CountryCode)
	if err != nil {
		return false, err
	}

	for _, e := range existing {
		if e.Status == cleaning.StatusVerified {
			return true, nil
		}
	}

	return false, nil
}
