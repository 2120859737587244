package props

import "strings"

// sheetNames maps every stat name PrizePicks or Underdog uses to a single
// canonical worksheet name, so both platforms land on shared sheets.
// Worksheet names avoid "+" because the Sheets API treats it poorly in
// A1-notation ranges.
var sheetNames = map[string]string{
	"Fantasy Points": "Fantasy Points",
	"Fantasy Score":  "Fantasy Points",

	"Rush + Rec TDs": "Rush Plus Rec TDs",
	"Rush+Rec TDs":   "Rush Plus Rec TDs",

	"Rush + Rec Yds":   "Rush Plus Rec Yds",
	"Rush+Rec Yds":     "Rush Plus Rec Yds",
	"Rush + Rec Yards": "Rush Plus Rec Yds", // Underdog says "Yards"

	"Pass + Rush Yards": "Pass Plus Rush Yards",
	"Pass+Rush Yds":     "Pass Plus Rush Yards",

	"Tackles + Assists": "Tackles Plus Assists",
	"Tackles+Ast":       "Tackles Plus Assists",

	"Targets":     "Rec Targets",
	"Rec Targets": "Rec Targets",

	"Completions":      "Pass Completions",
	"Pass Completions": "Pass Completions",

	"INT":         "INTs Thrown",
	"INTs Thrown": "INTs Thrown",

	"Receiving Yards": "Receiving Yards",
	"Pass TDs":        "Pass TDs",
	"FG Made":         "FG Made",
	"Receptions":      "Receptions",
	"Pass Attempts":   "Pass Attempts",
	"Sacks":           "Sacks",
	"Rush Attempts":   "Rush Attempts",
	"Kicking Points":  "Kicking Points",
	"Pass Yards":      "Pass Yards",
	"Rush Yards":      "Rush Yards",
}

// SheetName returns the canonical worksheet name for a platform stat name.
// Unknown stats map to themselves so nothing scraped is ever dropped.
func SheetName(statName string) string {
	if canonical, ok := sheetNames[statName]; ok {
		return canonical
	}
	return statName
}

// StatTypeFromSheet reverses the worksheet-safe naming back to a stat type
// usable for result lookups, e.g. "Rush Plus Rec Yds" -> "Rush+Rec Yds".
func StatTypeFromSheet(sheetName string) string {
	return strings.ReplaceAll(sheetName, " Plus ", "+")
}

// PrizePicksStatTypes lists the NFL stat types kept from the PrizePicks
// board; the scraper drops lines for anything else.
func PrizePicksStatTypes() []string {
	return []string{
		"Pass Yards",
		"Rush Yards",
		"Pass TDs",
		"Receiving Yards",
		"FG Made",
		"Receptions",
		"Rush+Rec Yds",
		"Rush+Rec TDs",
		"Fantasy Score",
		"Pass Attempts",
		"Rec Targets",
		"Sacks",
		"Pass Completions",
		"INT",
		"Pass+Rush Yds",
		"Rush Attempts",
		"Kicking Points",
		"Tackles+Ast",
	}
}

// UnderdogStatTypes lists the Underdog Fantasy display stats kept from the
// pick'em board; the scraper drops lines for anything else.
func UnderdogStatTypes() []string {
	return []string{
		"Pass Yards",
		"Rush Yards",
		"Pass TDs",
		"Receiving Yards",
		"FG Made",
		"Receptions",
		"Rush + Rec TDs",
		"Fantasy Points",
		"Pass Attempts",
		"Targets",
		"Sacks",
		"Completions",
		"INTs Thrown",
		"Pass + Rush Yards",
		"Rush + Rec Yards",
		"Rush Attempts",
		"Kicking Points",
		"Tackles + Assists",
	}
}
