// Copyright 2025 The StationClean Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fieldstations/stationclean/cleaning"
)

type queryOptions struct {
	Location  string
	Country   string
	Latitude  float64
	Longitude float64
	Tolerance float64
	Status    string
}

var queryOpts queryOptions

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query stored station records",
	Long: `Queries the station database by location text, by coordinates (with a
tolerance in degrees), or by review status, and prints the matches as JSON.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		repo, db, err := openRepository(false)
		if err != nil {
			return err
		}
		defer db.Close()

		var recs []*cleaning.StoredRecord

		byCoords := cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng")

		switch {
		case queryOpts.Location != "":
			recs, err = repo.FindByLocation(queryOpts.Location, queryOpts.Country)
		case byCoords:
			recs, err = repo.FindByCoords(queryOpts.Latitude, queryOpts.Longitude, queryOpts.Tolerance)
		case queryOpts.Status != "":
			recs, err = repo.ListByStatus(queryOpts.Status, 0, 0)
		default:
			return fmt.Errorf("need --location, --lat/--lng or --status")
		}

		if err != nil {
			return fmt.Errorf("querying: %w", err)
		}

		// Coordinate and location filters compose with an AND.
		if queryOpts.Location != "" && byCoords {
			filtered := recs[:0]

			byPoint, err := repo.FindByCoords(queryOpts.Latitude, queryOpts.Longitude, queryOpts.Tolerance)
			if err != nil {
				return fmt.Errorf("querying by coordinates: %w", err)
			}

			ids := make(map[int]bool, len(byPoint))
			for _, rec := range byPoint {
				ids[rec.ID] = true
			}

			for _, rec := range recs {
				if ids[rec.ID] {
					filtered = append(filtered, rec)
				}
			}

			recs = filtered
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(recs)
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	addDatabaseFlag(queryCmd)
	queryCmd.PersistentFlags().StringVar(
		&queryOpts.Location,
		"location",
		"",
		"Match records whose location contains this text",
	)
	queryCmd.PersistentFlags().StringVar(
		&queryOpts.Country,
		"country",
		"",
		"Restrict location matches to this ISO3 country code",
	)
	queryCmd.PersistentFlags().Float64Var(
		&queryOpts.Latitude,
		"lat",
		0,
		"Match records near this latitude",
	)
	queryCmd.PersistentFlags().Float64Var(
		&queryOpts.Longitude,
		"lng",
		0,
		"Match records near this longitude",
	)
	queryCmd.PersistentFlags().Float64Var(
		&queryOpts.Tolerance,
		"tol",
		0.1,
		"Coordinate tolerance in degrees",
	)
	queryCmd.PersistentFlags().StringVar(
		&queryOpts.Status,
		"status",
		"",
		"Match records in this review status",
	)
}
