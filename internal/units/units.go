// Package units normalizes ingredient unit names and converts amounts
// between mass-equivalent units using a fixed conversion table.
package units

import "strings"

// canonical maps common abbreviations to full unit names.
var canonical = map[string]string{
	"oz":   "ounce",
	"lb":   "pound",
	"g":    "gram",
	"kg":   "kilogram",
	"ml":   "milliliter",
	"l":    "liter",
	"tbsp": "tablespoon",
	"tsp":  "teaspoon",
}

// gramsPer holds the gram equivalent of one unit. Volume units use the
// water-density approximation the nutrition API assumes.
var gramsPer = map[string]float64{
	"ounce":      28.3495,
	"pound":      453.592,
	"gram":       1,
	"kilogram":   1000,
	"milliliter": 1,
	"liter":      1000,
	"tablespoon": 15,
	"teaspoon":   5,
	"cup":        240,
}

// Normalize maps known abbreviations to their full names. Unrecognized
// units pass through lower-cased. Never fails.
func Normalize(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	if full, ok := canonical[u]; ok {
		return full
	}
	return u
}

// Convert re-expresses baseAmount of baseUnit as targetAmount of targetUnit.
// If either unit is missing from the conversion table the base amount is
// returned unchanged; callers must treat the result as best-effort.
func Convert(baseAmount float64, baseUnit string, targetAmount float64, targetUnit string) float64 {
	baseG, ok := gramsPer[Normalize(baseUnit)]
	if !ok {
		return baseAmount
	}
	targetG, ok := gramsPer[Normalize(targetUnit)]
	if !ok {
		return baseAmount
	}
	if targetG == 0 {
		return baseAmount
	}
	return baseAmount * (targetAmount * targetG) / baseG
}

// Convertible reports whether both units are covered by the conversion
// table, so callers can flag best-effort figures for display.
func Convertible(baseUnit, targetUnit string) bool {
	_, okBase := gramsPer[Normalize(baseUnit)]
	_, okTarget := gramsPer[Normalize(targetUnit)]
	return okBase && okTarget
}
