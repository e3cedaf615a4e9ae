// Copyright 2025 The StationClean Authors
// SPDX-License-Identifier: Apache-2.0

package cleaning

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fieldstations/stationclean/spatial"
)

// Server is the local review API: reviewers work through the pending queue,
// accepting records with corrected coordinates or rejecting them outright.
type Server struct {
	repo      RecordRepository
	validator *Validator
	addr      string
}

// NewServer creates a review server. An empty addr binds localhost:8080.
func NewServer(repo RecordRepository, validator *Validator, addr string) *Server {
	if addr == "" {
		addr = "localhost:8080"
	}

	return &Server{
		repo:      repo,
		validator: validator,
		addr:      addr,
	}
}

// Run serves the API until the process exits.
func (s *Server) Run() error {
	r := gin.Default()
	s.registerRoutes(r)

	return r.Run(s.addr)
}

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/api/records", s.listRecords)
	r.GET("/api/records/pending", s.getPendingQueue)
	r.GET("/api/records/search", s.searchRecords)
	r.GET("/api/records/:id", s.getRecord)
	r.POST("/api/records", s.addRecord)
	r.POST("/api/records/:id/accept", s.acceptRecord)
	r.POST("/api/records/:id/reject", s.rejectRecord)
	r.GET("/api/progress", s.getProgress)
}

func (s *Server) listRecords(ctx *gin.Context) {
	status := ctx.Query("status")
	if status != "" && !validStatuses[status] {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid status: %s", status)})

		return
	}

	page := 1
	perPage := 50

	if p := ctx.Query("page"); p != "" {
		if _, err := fmt.Sscanf(p, "%d", &page); err != nil || page < 1 {
			page = 1
		}
	}

	if pp := ctx.Query("per_page"); pp != "" {
		if _, err := fmt.Sscanf(pp, "%d", &perPage); err != nil || perPage < 1 {
			perPage = 50
		}
	}

	offset := (page - 1) * perPage

	recs, err := s.repo.ListByStatus(status, perPage, offset)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	counts, err := s.repo.CountByStatus()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	total := 0

	if status == "" {
		for _, c := range counts {
			total += c
		}
	} else {
		total = counts[status]
	}

	ctx.JSON(http.StatusOK, gin.H{
		"records":  recs,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

func (s *Server) getPendingQueue(ctx *gin.Context) {
	recs, err := s.repo.ListByStatus(StatusPending, 0, 0)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, recs)
}

func (s *Server) getRecord(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	rec, err := s.repo.Get(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "record not found"})

			return
		}

		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, rec)
}

// AddRecordRequest is a raw station row submitted for validation.
type AddRecordRequest struct {
	Location  string   `json:"location"`
	Country   string   `json:"country"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (s *Server) addRecord(ctx *gin.Context) {
	var req AddRecordRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	req.Location = sanitizeLocation(req.Location)

	result := s.validator.Validate(req.Location, req.Country, req.Latitude, req.Longitude)
	rec := NewStoredRecord(result)

	if err := validateStoredRecord(rec); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("validation failed: %v", err)})

		return
	}

	// A verified record for the same station makes this one a duplicate.
	if rec.Status == StatusVerified {
		existing, err := s.repo.FindByLocation(rec.Location, rec.CountryCode)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

			return
		}

		for _, e := range existing {
			if e.Status == StatusVerified {
				rec.Status = StatusRepeated

				break
			}
		}
	}

	if err := s.repo.Save(rec); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("error saving: %v", err)})

		return
	}

	ctx.JSON(http.StatusOK, rec)
}

// AcceptRecordRequest carries the reviewer's decision for a pending record.
type AcceptRecordRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Notes     string   `json:"notes"`
}

func (s *Server) acceptRecord(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req AcceptRecordRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	var point *spatial.Point

	if req.Latitude != nil && req.Longitude != nil {
		if err := validateCoordinates(*req.Latitude, *req.Longitude); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

			return
		}

		point = &spatial.Point{Lat: *req.Latitude, Lng: *req.Longitude}
	}

	if err := s.repo.Accept(id, point, req.Notes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "record not found"})

			return
		}

		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// RejectRecordRequest carries the reviewer's reason for discarding a record.
type RejectRecordRequest struct {
	Notes string `json:"notes"`
}

func (s *Server) rejectRecord(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req RejectRecordRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if err := s.repo.Reject(id, req.Notes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "record not found"})

			return
		}

		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// searchRecords answers ?location= (optionally with ?country=) or
// ?lat=&lng= (optionally with ?tol=, degrees, default 0.1) queries.
func (s *Server) searchRecords(ctx *gin.Context) {
	location := ctx.Query("location")
	latParam := ctx.Query("lat")
	lngParam := ctx.Query("lng")

	switch {
	case location != "":
		recs, err := s.repo.FindByLocation(location, ctx.Query("country"))
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

			return
		}

		ctx.JSON(http.StatusOK, recs)
	case latParam != "" && lngParam != "":
		lat, err := strconv.ParseFloat(latParam, 64)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid lat parameter"})

			return
		}

		lng, err := strconv.ParseFloat(lngParam, 64)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid lng parameter"})

			return
		}

		tol := 0.1

		if t := ctx.Query("tol"); t != "" {
			if tol, err = strconv.ParseFloat(t, 64); err != nil || tol < 0 {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid tol parameter"})

				return
			}
		}

		recs, err := s.repo.FindByCoords(lat, lng, tol)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

			return
		}

		ctx.JSON(http.StatusOK, recs)
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "location or lat/lng query parameters are required"})
	}
}

// ProgressResponse summarizes how far the review effort has advanced.
type ProgressResponse struct {
	Total              int            `json:"total"`
	Verified           int            `json:"verified"`
	Pending            int            `json:"pending"`
	Repeated           int            `json:"repeated"`
	Rejected           int            `json:"rejected"`
	VerifiedPercentage float64        `json:"verified_percentage"`
	ByStatus           map[string]int `json:"by_status"`
}

func (s *Server) getProgress(ctx *gin.Context) {
	counts, err := s.repo.CountByStatus()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	total := 0
	for _, c := range counts {
		total += c
	}

	pct := 0.0
	if total > 0 {
		pct = (float64(counts[StatusVerified]) / float64(total)) * 100
	}

	ctx.JSON(http.StatusOK, ProgressResponse{
		Total:              total,
		Verified:           counts[StatusVerified],
		Pending:            counts[StatusPending],
		Repeated:           counts[StatusRepeated],
		Rejected:           counts[StatusRejected],
		VerifiedPercentage: pct,
		ByStatus:           counts,
	})
}

func parseID(ctx *gin.Context) (int, bool) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})

		return 0, false
	}

	return id, true
}
