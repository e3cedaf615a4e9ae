// Copyright 2025 The StationClean Authors
// SPDX-License-Identifier: Apache-2.0

// Package borders loads a world-borders GeoJSON layer and answers
// point-in-country queries.
package borders

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/golang/geo/s2"
)

// DefaultCodeProperty is the feature property holding the ISO 3166-1
// alpha-3 code in the TM_WORLD_BORDERS dataset.
const DefaultCodeProperty = "ISO3"

// Options configures how a GeoJSON layer is interpreted.
type Options struct {
	// CodeProperty names the feature property carrying the country code.
	// Empty means DefaultCodeProperty.
	CodeProperty string
}

type country struct {
	code  string
	poly  *s2.Polygon
	bound s2.Rect
}

// Set is an in-memory index of country polygons keyed by ISO3 code.
type Set struct {
	countries []country
}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   geometry       `json:"geometry"`
}

type geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Load reads a GeoJSON FeatureCollection from path and builds the polygon set.
func Load(path string, opts *Options) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("borders: reading %s: %w", path, err)
	}

	codeProp := DefaultCodeProperty
	if opts != nil && opts.CodeProperty != "" {
		codeProp = opts.CodeProperty
	}

	set, err := FromFeatureCollection(data, codeProp)
	if err != nil {
		return nil, fmt.Errorf("borders: %s: %w", path, err)
	}

	return set, nil
}

// FromFeatureCollection builds the polygon set from raw GeoJSON. Every
// feature must carry a non-empty string property named codeProp; a feature
// without one is a malformed layer and aborts the load.
func FromFeatureCollection(data []byte, codeProp string) (*Set, error) {
	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing feature collection: %w", err)
	}

	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("expected FeatureCollection, got %q", fc.Type)
	}

	set := &Set{countries: make([]country, 0, len(fc.Features))}

	for i, f := range fc.Features {
		code, ok := f.Properties[codeProp].(string)
		if !ok || code == "" {
			return nil, fmt.Errorf("feature %d: missing country code property %q", i, codeProp)
		}

		poly, err := buildPolygon(f.Geometry)
		if err != nil {
			return nil, fmt.Errorf("feature %d (%s): %w", i, code, err)
		}

		set.countries = append(set.countries, country{
			code:  code,
			poly:  poly,
			bound: poly.RectBound(),
		})
	}

	return set, nil
}

func buildPolygon(g geometry) (*s2.Polygon, error) {
	var rings [][][]float64

	switch g.Type {
	case "Polygon":
		if err := json.Unmarshal(g.Coordinates, &rings); err != nil {
			return nil, fmt.Errorf("parsing polygon coordinates: %w", err)
		}
	case "MultiPolygon":
		var polys [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &polys); err != nil {
			return nil, fmt.Errorf("parsing multipolygon coordinates: %w", err)
		}

		for _, p := range polys {
			rings = append(rings, p...)
		}
	default:
		return nil, fmt.Errorf("unsupported geometry type %q", g.Type)
	}

	loops := make([]*s2.Loop, 0, len(rings))

	for _, ring := range rings {
		loop, err := buildLoop(ring)
		if err != nil {
			return nil, err
		}

		loops = append(loops, loop)
	}

	if len(loops) == 0 {
		return nil, fmt.Errorf("geometry has no rings")
	}

	return s2.PolygonFromLoops(loops), nil
}

func buildLoop(ring [][]float64) (*s2.Loop, error) {
	// GeoJSON rings repeat the first vertex at the end; s2 loops do not.
	if len(ring) > 1 {
		first, last := ring[0], ring[len(ring)-1]
		if len(first) >= 2 && len(last) >= 2 && first[0] == last[0] && first[1] == last[1] {
			ring = ring[:len(ring)-1]
		}
	}

	if len(ring) < 3 {
		return nil, fmt.Errorf("ring has %d vertices, need at least 3", len(ring))
	}

	points := make([]s2.Point, 0, len(ring))

	for _, coord := range ring {
		if len(coord) < 2 {
			return nil, fmt.Errorf("ring vertex has %d components, need 2", len(coord))
		}

		// GeoJSON order is [lng, lat].
		points = append(points, s2.PointFromLatLng(s2.LatLngFromDegrees(coord[1], coord[0])))
	}

	loop := s2.LoopFromPoints(points)

	// GeoJSON winding order is unreliable in the wild. A loop covering more
	// than half the sphere got the wrong orientation for its size.
	if loop.Area() > 2*math.Pi {
		loop.Invert()
	}

	return loop, nil
}

// Containing returns the ISO3 codes of every country whose polygon contains
// the point, in load order. An empty slice means open water or no-man's land.
func (s *Set) Containing(lat, lng float64) []string {
	ll := s2.LatLngFromDegrees(lat, lng)
	point := s2.PointFromLatLng(ll)

	var codes []string

	for i := range s.countries {
		c := &s.countries[i]

		// Cheap rectangle rejection before the full containment walk.
		if !c.bound.ContainsLatLng(ll) {
			continue
		}

		if c.poly.ContainsPoint(point) {
			codes = append(codes, c.code)
		}
	}

	return codes
}

// Contains reports whether the polygon registered for code contains the point.
func (s *Set) Contains(lat, lng float64, code string) bool {
	for _, c := range s.Containing(lat, lng) {
		if c == code {
			return true
		}
	}

	return false
}

// Len returns the number of loaded country polygons.
func (s *Set) Len() int {
	return len(s.countries)
}
