// Package data bundles the recipe dataset loaded by the seeder.
package data

import _ "embed"

// Recipes is the bundled recipe dataset in the seed document format.
//
//go:embed recipes.json
var Recipes []byte
