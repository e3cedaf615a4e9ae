// Copyright 2025 The StationClean Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fieldstations/stationclean/cleaning"
)

var reviewAddr string

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Run the interactive review web server (local only)",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		repo, db, err := openRepository(false)
		if err != nil {
			return err
		}
		defer db.Close()

		validator, err := buildValidator()
		if err != nil {
			return err
		}

		server := cleaning.NewServer(repo, validator, reviewAddr)

		fmt.Println("🗺️  Review server starting...")
		fmt.Printf("📍 Open http://%s in your browser\n", reviewAddr)
		fmt.Println("🔒 Local only - not exposed to internet")

		return server.Run()
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	addPipelineFlags(reviewCmd)
	addDatabaseFlag(reviewCmd)
	reviewCmd.PersistentFlags().StringVar(
		&reviewAddr,
		"addr",
		"localhost:8080",
		"Address to bind the review server to",
	)
}
