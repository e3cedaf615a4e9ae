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

type exportOptions struct {
	Status string
	Output string
}

var exportOpts exportOptions

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export station records to CSV",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		repo, db, err := openRepository(false)
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := ingest.ExportCSV(repo, exportOpts.Status, exportOpts.Output)
		if err != nil {
			return fmt.Errorf("exporting: %w", err)
		}

		log.Printf("Exported %s records to %s", utils.FormatInt(int64(n)), exportOpts.Output)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	addDatabaseFlag(exportCmd)
	exportCmd.PersistentFlags().StringVar(
		&exportOpts.Status,
		"status",
		"",
		"Review status to export (verified, pending, repeated, rejected); empty exports all",
	)
	exportCmd.PersistentFlags().StringVar(
		&exportOpts.Output,
		"output",
		"stations.csv",
		"Destination CSV file",
	)
}
