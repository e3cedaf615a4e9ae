// Copyright 2025 The StationClean Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/fieldstations/stationclean/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
