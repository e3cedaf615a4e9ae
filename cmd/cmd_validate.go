// Copyright 2025 The StationClean Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/fieldstations/stationclean/cleaning/utils"
	"github.com/fieldstations/stationclean/ingest"
)

type validateOptions struct {
	Columns    ingest.Columns
	DryRun     bool
	NoProgress bool
}

var validateOpts = validateOptions{Columns: ingest.DefaultColumns()}

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a station spreadsheet and store the results",
	Long: `Reads station rows from an .xlsx or .csv file, validates each one
against the country borders (repairing swapped or sign-flipped coordinates,
geocoding what remains), and stores the results in the local database.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		validator, err := buildValidator()
		if err != nil {
			return err
		}

		rows, err := ingest.ReadFile(args[0], validateOpts.Columns)
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		log.Printf("Read %s rows from %s", utils.FormatInt(int64(len(rows))), args[0])

		runner := ingest.NewRunner(validator, nil, !validateOpts.NoProgress)

		if !validateOpts.DryRun {
			repo, db, err := openRepository(true)
			if err != nil {
				return err
			}
			defer db.Close()

			runner = ingest.NewRunner(validator, repo, !validateOpts.NoProgress)
		}

		_, metrics, err := runner.Run(rows)
		if err != nil {
			return fmt.Errorf("validating: %w", err)
		}

		log.Printf("Done: %s", metrics)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	addPipelineFlags(validateCmd)
	addDatabaseFlag(validateCmd)
	validateCmd.PersistentFlags().StringVar(
		&validateOpts.Columns.Location,
		"column-location",
		validateOpts.Columns.Location,
		"Header name of the location column",
	)
	validateCmd.PersistentFlags().StringVar(
		&validateOpts.Columns.Country,
		"column-country",
		validateOpts.Columns.Country,
		"Header name of the country column",
	)
	validateCmd.PersistentFlags().StringVar(
		&validateOpts.Columns.Latitude,
		"column-latitude",
		validateOpts.Columns.Latitude,
		"Header name of the latitude column",
	)
	validateCmd.PersistentFlags().StringVar(
		&validateOpts.Columns.Longitude,
		"column-longitude",
		validateOpts.Columns.Longitude,
		"Header name of the longitude column",
	)
	validateCmd.PersistentFlags().BoolVar(
		&validateOpts.DryRun,
		"dry-run",
		false,
		"Validate without persisting anything",
	)
	validateCmd.PersistentFlags().BoolVar(
		&validateOpts.NoProgress,
		"no-progress",
		false,
		"Disable the progress bar",
	)
}
