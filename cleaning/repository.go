// Copyright 2025 The StationClean Authors
// SPDX-License-Identifier: Apache-2.0

package cleaning

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/uber/h3-go/v4"

	"github.com/fieldstations/stationclean/spatial"
)

// Review statuses of a stored record.
const (
	// StatusVerified: the pipeline (or a reviewer) produced authoritative
	// coordinates.
	StatusVerified = "verified"
	// StatusPending: the pipeline could not resolve the record; it waits in
	// the review queue.
	StatusPending = "pending"
	// StatusRepeated: a verified record for the same location and country
	// already existed when this one was validated.
	StatusRepeated = "repeated"
	// StatusRejected: a reviewer discarded the record.
	StatusRejected = "rejected"
)

// h3Resolutions used for coordinate-proximity queries. Res 5 cells are about
// 250 km2, res 7 about 5 km2.
const (
	h3CoarseRes = 5
	h3FineRes   = 7
)

// StoredRecord is a validated station record as persisted.
type StoredRecord struct {
	ID             int            `json:"id"`
	Location       string         `json:"location"`
	Country        string         `json:"country"`
	CountryCode    string         `json:"country_code"`
	Point          *spatial.Point `json:"point"`             // authoritative coordinates, nil when unresolved
	Entered        *spatial.Point `json:"entered,omitempty"` // coordinates as entered
	Address        string         `json:"address,omitempty"`
	Classification Classification `json:"classification"`
	Status         string         `json:"status"`
	Notes          string         `json:"notes,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	H3Res5         int64          `json:"-"`
	H3Res7         int64          `json:"-"`
}

// NewStoredRecord converts a validation result into its stored form. Resolved
// records are verified; everything else goes to the review queue.
func NewStoredRecord(rec *LocationRecord) *StoredRecord {
	s := &StoredRecord{
		Location:       rec.Location,
		Country:        rec.Country,
		CountryCode:    rec.CountryCode,
		Address:        rec.Address,
		Classification: rec.Classification,
		Status:         StatusPending,
	}

	if rec.Resolved() {
		s.Status = StatusVerified
	}

	if rec.RecordedLat != nil && rec.RecordedLng != nil {
		s.Point = &spatial.Point{Lat: *rec.RecordedLat, Lng: *rec.RecordedLng}
	}

	if rec.Latitude != nil && rec.Longitude != nil {
		s.Entered = &spatial.Point{Lat: *rec.Latitude, Lng: *rec.Longitude}
	}

	return s
}

func (s *StoredRecord) computeH3() error {
	if s.Point == nil {
		s.H3Res5 = 0
		s.H3Res7 = 0

		return nil
	}

	latLng := h3.NewLatLng(s.Point.Lat, s.Point.Lng)

	coarse, err := h3.LatLngToCell(latLng, h3CoarseRes)
	if err != nil {
		return fmt.Errorf("error converting to h3 cell at res %d: %w", h3CoarseRes, err)
	}

	fine, err := h3.LatLngToCell(latLng, h3FineRes)
	if err != nil {
		return fmt.Errorf("error converting to h3 cell at res %d: %w", h3FineRes, err)
	}

	s.H3Res5 = int64(coarse)
	s.H3Res7 = int64(fine)

	return nil
}

// RecordRepository handles persistence of validated station records.
type RecordRepository interface {
	// CreateSchema creates the stations table
	CreateSchema() error

	// Save inserts a record and assigns its ID
	Save(rec *StoredRecord) error

	// BulkInsert inserts a slice of records in one transaction
	BulkInsert(recs []*StoredRecord) error

	// Get returns one record by ID
	Get(id int) (*StoredRecord, error)

	// FindByLocation returns records whose location contains the query,
	// case-insensitively, optionally restricted to a country code
	FindByLocation(location, countryCode string) ([]*StoredRecord, error)

	// FindByCoords returns records whose authoritative point is within tol
	// degrees of the query point on both axes
	FindByCoords(lat, lng, tol float64) ([]*StoredRecord, error)

	// ListByStatus returns records in a status, newest first; an empty
	// status means all
	ListByStatus(status string, limit, offset int) ([]*StoredRecord, error)

	// CountByStatus returns the number of records per status
	CountByStatus() (map[string]int, error)

	// Accept promotes a pending record to verified with the reviewer's
	// coordinates
	Accept(id int, point *spatial.Point, notes string) error

	// Reject discards a pending record
	Reject(id int, notes string) error

	// MarkRepeated flags a record as a duplicate of an existing verified one
	MarkRepeated(id int) error

	// DB returns the underlying database connection
	DB() *sql.DB
}

type sqlRecordRepository struct {
	db *sql.DB
}

// NewRecordRepository creates a DuckDB-backed record repository.
func NewRecordRepository(db *sql.DB) RecordRepository {
	return &sqlRecordRepository{db: db}
}

// DB returns the underlying database connection for advanced queries.
func (r *sqlRecordRepository) DB() *sql.DB {
	return r.db
}

func (r *sqlRecordRepository) CreateSchema() error {
	// DuckDB needs to load the spatial extension
	_, err := r.db.Exec(`INSTALL spatial; LOAD spatial;`)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		CREATE SEQUENCE IF NOT EXISTS stations_seq START 1;

		CREATE TABLE IF NOT EXISTS stations (
			id INTEGER PRIMARY KEY DEFAULT nextval('stations_seq'),
			location VARCHAR NOT NULL,
			country VARCHAR NOT NULL,
			country_code VARCHAR,
			point POINT_2D,
			entered POINT_2D,
			address VARCHAR,
			classification INTEGER NOT NULL,
			status VARCHAR NOT NULL,
			notes TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			h3_res5 UBIGINT,
			h3_res7 UBIGINT
		);
	`)

	return err
}

func (r *sqlRecordRepository) Save(rec *StoredRecord) error {
	if err := rec.computeH3(); err != nil {
		return err
	}

	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	return r.db.QueryRow(`
		INSERT INTO stations(
			location,
			country,
			country_code,
			point,
			entered,
			address,
			classification,
			status,
			notes,
			created_at,
			updated_at,
			h3_res5,
			h3_res7
		)
		VALUES (?, ?, ?, `+pointExpr+`, `+pointExpr+`, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`, insertArgs(rec)...).Scan(&rec.ID)
}

func (r *sqlRecordRepository) BulkInsert(recs []*StoredRecord) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO stations(
			location,
			country,
			country_code,
			point,
			entered,
			address,
			classification,
			status,
			notes,
			created_at,
			updated_at,
			h3_res5,
			h3_res7
		)
		VALUES (?, ?, ?, ` + pointExpr + `, ` + pointExpr + `, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		if rErr := tx.Rollback(); rErr != nil {
			err = rErr
		}

		return err
	}
	defer stmt.Close()

	now := time.Now()

	for _, rec := range recs {
		if err = rec.computeH3(); err != nil {
			if rErr := tx.Rollback(); rErr != nil {
				err = rErr
			}

			return err
		}

		rec.CreatedAt = now
		rec.UpdatedAt = now

		if _, err = stmt.Exec(insertArgs(rec)...); err != nil {
			if rErr := tx.Rollback(); rErr != nil {
				err = rErr
			}

			return err
		}
	}

	return tx.Commit()
}

// pointExpr builds a nullable POINT_2D from an (lng, lat) pair, keeping NULL
// when either component is NULL.
const pointExpr = `CASE WHEN ? IS NULL THEN NULL ELSE ST_Point(?, ?) END`

func pointArgs(p *spatial.Point) []any {
	if p == nil {
		return []any{nil, nil, nil}
	}

	return []any{p.Lng, p.Lng, p.Lat}
}

func insertArgs(rec *StoredRecord) []any {
	args := []any{
		rec.Location,
		rec.Country,
		nullString(rec.CountryCode),
	}
	args = append(args, pointArgs(rec.Point)...)
	args = append(args, pointArgs(rec.Entered)...)
	args = append(args,
		nullString(rec.Address),
		int(rec.Classification),
		rec.Status,
		rec.Notes,
		rec.CreatedAt,
		rec.UpdatedAt,
		rec.H3Res5,
		rec.H3Res7,
	)

	return args
}

func nullString(s string) any {
	if s == "" {
		return nil
	}

	return s
}

// nullPoint scans a nullable POINT_2D column.
type nullPoint struct {
	point spatial.Point
	valid bool
}

func (n *nullPoint) Scan(value any) error {
	if value == nil {
		n.valid = false

		return nil
	}

	n.valid = true

	return n.point.Scan(value)
}

func (n *nullPoint) ptr() *spatial.Point {
	if !n.valid {
		return nil
	}

	p := n.point

	return &p
}

var baseSelect = `
	SELECT id, location, country, country_code, point, entered, address,
	       classification, status, notes, created_at, updated_at,
	       h3_res5, h3_res7
	FROM stations
`

func (r *sqlRecordRepository) list(query string, args []any) ([]*StoredRecord, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*StoredRecord

	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}

		recs = append(recs, rec)
	}

	return recs, rows.Err()
}

func scanRecord(scan func(dest ...any) error) (*StoredRecord, error) {
	rec := &StoredRecord{}

	var countryCode, address, notes sql.NullString

	var point, entered nullPoint

	var h3Res5, h3Res7 sql.NullInt64

	err := scan(
		&rec.ID,
		&rec.Location,
		&rec.Country,
		&countryCode,
		&point,
		&entered,
		&address,
		&rec.Classification,
		&rec.Status,
		&notes,
		&rec.CreatedAt,
		&rec.UpdatedAt,
		&h3Res5,
		&h3Res7,
	)
	if err != nil {
		return nil, err
	}

	rec.CountryCode = countryCode.String
	rec.Address = address.String
	rec.Notes = notes.String
	rec.Point = point.ptr()
	rec.Entered = entered.ptr()
	rec.H3Res5 = h3Res5.Int64
	rec.H3Res7 = h3Res7.Int64

	return rec, nil
}

func (r *sqlRecordRepository) Get(id int) (*StoredRecord, error) {
	return scanRecord(r.db.QueryRow(baseSelect+` WHERE id = ?`, id).Scan)
}

func (r *sqlRecordRepository) FindByLocation(location, countryCode string) ([]*StoredRecord, error) {
	query := baseSelect + ` WHERE location ILIKE ?`
	args := []any{"%" + location + "%"}

	if countryCode != "" {
		query += ` AND country_code = ?`

		args = append(args, countryCode)
	}

	query += ` ORDER BY location, id`

	return r.list(query, args)
}

func (r *sqlRecordRepository) FindByCoords(lat, lng, tol float64) ([]*StoredRecord, error) {
	// Prune by H3 neighborhood before the exact tolerance check. A res 5
	// disk of k=2 comfortably covers the default 0.1 degree tolerance.
	cell, err := h3.LatLngToCell(h3.NewLatLng(lat, lng), h3CoarseRes)
	if err != nil {
		return nil, fmt.Errorf("error converting to h3 cell at res %d: %w", h3CoarseRes, err)
	}

	disk, err := h3.GridDisk(cell, 2)
	if err != nil {
		return nil, fmt.Errorf("error computing h3 disk: %w", err)
	}

	query := baseSelect + ` WHERE h3_res5 IN (`
	args := make([]any, 0, len(disk))

	for i, c := range disk {
		if i > 0 {
			query += ", "
		}

		query += "?"

		args = append(args, int64(c))
	}

	query += `) ORDER BY id`

	candidates, err := r.list(query, args)
	if err != nil {
		return nil, err
	}

	target := &spatial.Point{Lat: lat, Lng: lng}

	recs := make([]*StoredRecord, 0, len(candidates))

	for _, rec := range candidates {
		if rec.Point != nil && rec.Point.ApproxEqual(target, tol) {
			recs = append(recs, rec)
		}
	}

	return recs, nil
}

func (r *sqlRecordRepository) ListByStatus(status string, limit, offset int) ([]*StoredRecord, error) {
	query := baseSelect

	args := []any{}

	if status != "" {
		query += ` WHERE status = ?`

		args = append(args, status)
	}

	query += ` ORDER BY updated_at DESC, id DESC`

	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`

		args = append(args, limit, offset)
	}

	return r.list(query, args)
}

func (r *sqlRecordRepository) CountByStatus() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT status, COUNT(*) FROM stations GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)

	for rows.Next() {
		var status string

		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}

		counts[status] = count
	}

	return counts, rows.Err()
}

func (r *sqlRecordRepository) Accept(id int, point *spatial.Point, notes string) error {
	rec, err := r.Get(id)
	if err != nil {
		return err
	}

	if point != nil {
		rec.Point = point
	}

	if rec.Point == nil {
		return fmt.Errorf("record %d has no coordinates to accept", id)
	}

	if err := rec.computeH3(); err != nil {
		return err
	}

	_, err = r.db.Exec(`
		UPDATE stations
		SET point = ST_Point(?, ?), status = ?, notes = ?,
		    updated_at = ?, h3_res5 = ?, h3_res7 = ?
		WHERE id = ?
	`,
		rec.Point.Lng,
		rec.Point.Lat,
		StatusVerified,
		notes,
		time.Now(),
		rec.H3Res5,
		rec.H3Res7,
		id,
	)

	return err
}

func (r *sqlRecordRepository) Reject(id int, notes string) error {
	return r.setStatus(id, StatusRejected, notes)
}

func (r *sqlRecordRepository) MarkRepeated(id int) error {
	return r.setStatus(id, StatusRepeated, "")
}

func (r *sqlRecordRepository) setStatus(id int, status, notes string) error {
	result, err := r.db.Exec(`
		UPDATE stations
		SET status = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`, status, notes, time.Now(), id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if n == 0 {
		return sql.ErrNoRows
	}

	return nil
}
