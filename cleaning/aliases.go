// Copyright 2025 The StationClean Authors
// SPDX-License-Identifier: Apache-2.0

package cleaning

// defaultAliases maps country spellings seen in historical field sheets to
// the canonical common names of the ISO dataset. Keys are folded before use,
// so accents and case here are cosmetic.
var defaultAliases = map[string]string{
	"America": "United States",

	// Congo-Kinshasa under its many post-colonial names.
	"Zaire":                                 "DR Congo",
	"East Congo":                            "DR Congo",
	"Congo-Kinshasa":                        "DR Congo",
	"Democratic Republic of Congo":          "DR Congo",
	"Democratic Republic of the Congo":      "DR Congo",
	"Congo, The Democratic Republic of the": "DR Congo",

	// A bare "Congo" in the sheets means Congo-Brazzaville.
	"Congo":             "Republic of the Congo",
	"Congo-Brazzaville": "Republic of the Congo",
	"Republic of Congo": "Republic of the Congo",

	"España": "Spain",

	"Côte d'Ivoire":               "Ivory Coast",
	"Côte d’Ivoire":               "Ivory Coast",
	"Cote dIvoire":                "Ivory Coast",
	"Republique de Côte d'Ivoire": "Ivory Coast",

	"South Africa Rep.":        "South Africa",
	"Republic of South Africa": "South Africa",

	"Trinidad Y Tobago": "Trinidad and Tobago",
}
