package props

import "testing"

func TestSheetNameMergesPlatformVariants(t *testing.T) {
	tests := []struct {
		stat     string
		expected string
	}{
		{"Fantasy Score", "Fantasy Points"},
		{"Fantasy Points", "Fantasy Points"},
		{"Rush+Rec Yds", "Rush Plus Rec Yds"},
		{"Rush + Rec Yards", "Rush Plus Rec Yds"},
		{"Pass+Rush Yds", "Pass Plus Rush Yards"},
		{"Pass + Rush Yards", "Pass Plus Rush Yards"},
		{"Tackles+Ast", "Tackles Plus Assists"},
		{"Tackles + Assists", "Tackles Plus Assists"},
		{"INT", "INTs Thrown"},
		{"INTs Thrown", "INTs Thrown"},
		{"Targets", "Rec Targets"},
		{"Completions", "Pass Completions"},
		{"Pass Yards", "Pass Yards"},
	}

	for _, tt := range tests {
		if got := SheetName(tt.stat); got != tt.expected {
			t.Errorf("SheetName(%q) = %q, expected %q", tt.stat, got, tt.expected)
		}
	}
}

func TestSheetNameUnknownStatPassesThrough(t *testing.T) {
	if got := SheetName("Punt Return Yards"); got != "Punt Return Yards" {
		t.Errorf("unknown stat should map to itself, got %q", got)
	}
}

func TestStatTypeFromSheet(t *testing.T) {
	tests := []struct {
		sheet    string
		expected string
	}{
		{"Rush Plus Rec Yds", "Rush+Rec Yds"},
		{"Pass Plus Rush Yards", "Pass+Rush Yards"},
		{"Tackles Plus Assists", "Tackles+Assists"},
		{"Pass Yards", "Pass Yards"},
	}

	for _, tt := range tests {
		if got := StatTypeFromSheet(tt.sheet); got != tt.expected {
			t.Errorf("StatTypeFromSheet(%q) = %q, expected %q", tt.sheet, got, tt.expected)
		}
	}
}

func TestEveryScrapedStatHasACanonicalSheet(t *testing.T) {
	for _, stat := range PrizePicksStatTypes() {
		if _, ok := sheetNames[stat]; !ok {
			t.Errorf("PrizePicks stat %q has no sheet mapping", stat)
		}
	}
	for _, stat := range UnderdogStatTypes() {
		if _, ok := sheetNames[stat]; !ok {
			t.Errorf("Underdog stat %q has no sheet mapping", stat)
		}
	}
}
