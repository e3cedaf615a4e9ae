// Copyright 2025 The StationClean Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/spf13/cobra"

	"github.com/fieldstations/stationclean/borders"
	"github.com/fieldstations/stationclean/cleaning"
)

const databaseFile = "stationclean.duckdb"

// pipelineOptions configures the validation pipeline shared by the validate
// and review commands.
type pipelineOptions struct {
	BordersPath  string
	CodeProperty string
	Geocoder     string // photon, google or none
	GoogleAPIKey string
	PhotonURL    string
}

var pipelineOpts pipelineOptions

func addPipelineFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&pipelineOpts.BordersPath,
		"borders",
		"data/borders.geojson",
		"GeoJSON file with the country border polygons",
	)
	cmd.PersistentFlags().StringVar(
		&pipelineOpts.CodeProperty,
		"borders-code-property",
		borders.DefaultCodeProperty,
		"Feature property holding the ISO3 country code",
	)
	cmd.PersistentFlags().StringVar(
		&pipelineOpts.Geocoder,
		"geocoder",
		"photon",
		"Geocoding provider for unresolvable coordinates: photon, google or none",
	)
	cmd.PersistentFlags().StringVar(
		&pipelineOpts.GoogleAPIKey,
		"google-api-key",
		"",
		"API key for the google geocoder",
	)
	cmd.PersistentFlags().StringVar(
		&pipelineOpts.PhotonURL,
		"photon-url",
		"",
		"Base URL of the photon instance (default: the public one)",
	)
}

var dbPath string

func addDatabaseFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&dbPath,
		"db-path",
		"db",
		"Base directory holding the station database",
	)
}

func buildGeocoder() (cleaning.Geocoder, error) {
	switch pipelineOpts.Geocoder {
	case "photon":
		return cleaning.NewPhotonGeocoder(pipelineOpts.PhotonURL), nil
	case "google":
		if pipelineOpts.GoogleAPIKey == "" {
			return nil, fmt.Errorf("the google geocoder needs --google-api-key")
		}

		return cleaning.NewGoogleMapsGeocoder(pipelineOpts.GoogleAPIKey), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown geocoder %q (want photon, google or none)", pipelineOpts.Geocoder)
	}
}

func buildValidator() (*cleaning.Validator, error) {
	set, err := borders.Load(pipelineOpts.BordersPath, &borders.Options{
		CodeProperty: pipelineOpts.CodeProperty,
	})
	if err != nil {
		return nil, fmt.Errorf("loading borders: %w", err)
	}

	geocoder, err := buildGeocoder()
	if err != nil {
		return nil, err
	}

	return cleaning.NewValidator(
		cleaning.NewCountryResolver(),
		cleaning.NewVerifier(set),
		geocoder,
	), nil
}

func openRepository(create bool) (cleaning.RecordRepository, *sql.DB, error) {
	if err := os.MkdirAll(dbPath, 0o750); err != nil {
		return nil, nil, fmt.Errorf("creating db directory: %w", err)
	}

	dbFile := filepath.Join(dbPath, databaseFile)

	if !create {
		if _, err := os.Stat(dbFile); err != nil {
			return nil, nil, fmt.Errorf("database not found at %s - run 'validate' first: %w", dbFile, err)
		}
	}

	db, err := sql.Open("duckdb", dbFile)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	repo := cleaning.NewRecordRepository(db)
	if err := repo.CreateSchema(); err != nil {
		db.Close()

		return nil, nil, fmt.Errorf("creating schema: %w", err)
	}

	return repo, db, nil
}
