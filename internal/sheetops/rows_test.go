package sheetops

import "testing"

func sampleValues() [][]interface{} {
	return [][]interface{}{
		{"Player Name", "Position", "Team", "Opponent", "Game Time", "Line", "Payout Type", "Actual", "Over/Under"},
		{"Jalen Hurts", "QB", "PHI", "DAL", "Thu 7:20pm", "224.5", "Standard", "", ""},
		{"Dak Prescott", "QB", "DAL", "PHI", "Thu 7:20pm", "245.5", "Goblin", "261", "Over"},
		// missing opponent, must be skipped
		{"Broken Row", "RB", "KC", "", "Sun 1:00pm"},
		// short row, must be skipped
		{"Too", "Short"},
		// empty payout type defaults to Standard
		{"Saquon Barkley", "RB", "PHI", "DAL", "Thu 7:20pm", "95.5", "", "", ""},
	}
}

func TestParseGameRows(t *testing.T) {
	rows := parseGameRows(sampleValues(), "Pass Yards")

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].PlayerName != "Jalen Hurts" || rows[0].GameTime != "Thu 7:20pm" {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	for _, r := range rows {
		if r.SheetName != "Pass Yards" {
			t.Errorf("sheet name not propagated: %+v", r)
		}
	}
}

func TestParsePlayerRows(t *testing.T) {
	rows := parsePlayerRows(sampleValues(), "Rush Plus Rec Yds")

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.RowIndex != 2 {
		t.Errorf("header is row 1, first data row should be index 2, got %d", first.RowIndex)
	}
	if first.StatType != "Rush+Rec Yds" {
		t.Errorf("stat type should come from the sheet name, got %q", first.StatType)
	}

	second := rows[1]
	if second.Actual != "261" || second.OverUnder != "Over" {
		t.Errorf("completed row fields lost: %+v", second)
	}
	if second.RowIndex != 3 {
		t.Errorf("expected row index 3, got %d", second.RowIndex)
	}

	third := rows[2]
	if third.PayoutType != "Standard" {
		t.Errorf("empty payout type should default to Standard, got %q", third.PayoutType)
	}
	if third.RowIndex != 6 {
		t.Errorf("row index must track the spreadsheet row, got %d", third.RowIndex)
	}
}

func TestCellStringHandlesNilAndWhitespace(t *testing.T) {
	row := []interface{}{" PHI ", nil, 224.5}
	if got := cellString(row, 0); got != "PHI" {
		t.Errorf("expected trimmed string, got %q", got)
	}
	if got := cellString(row, 1); got != "" {
		t.Errorf("nil cell should be empty, got %q", got)
	}
	if got := cellString(row, 2); got != "224.5" {
		t.Errorf("numeric cell should stringify, got %q", got)
	}
	if got := cellString(row, 9); got != "" {
		t.Errorf("out of range cell should be empty, got %q", got)
	}
}
