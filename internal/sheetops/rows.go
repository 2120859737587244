package sheetops

import (
	"context"
	"fmt"
	"strings"

	"prop_sheets/internal/props"
	"prop_sheets/internal/sheets"

	"github.com/rs/zerolog/log"
)

// GameRow is the monitor's view of a worksheet row: just enough to know
// which game a player is in and when it starts.
type GameRow struct {
	PlayerName string
	Position   string
	Team       string
	Opponent   string
	GameTime   string
	SheetName  string
}

// PlayerRow is the results fetcher's view: the full nine columns plus the
// 1-based spreadsheet row index for writebacks.
type PlayerRow struct {
	RowIndex   int
	PlayerName string
	Position   string
	Team       string
	Opponent   string
	GameTime   string
	Line       string
	PayoutType string
	Actual     string
	OverUnder  string
	StatType   string
}

// ReadAllGameRows reads columns A:E from every worksheet in the spreadsheet.
func ReadAllGameRows(ctx context.Context, client *sheets.Client, spreadsheetID string) ([]GameRow, error) {
	titles, err := client.SheetTitles(ctx, spreadsheetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list worksheets: %w", err)
	}

	var all []GameRow
	for _, title := range titles {
		values, err := client.ReadSheet(ctx, spreadsheetID, fmt.Sprintf("'%s'!A:E", title))
		if err != nil {
			log.Error().Err(err).Str("sheet", title).Msg("Failed to read worksheet, skipping")
			continue
		}
		all = append(all, parseGameRows(values, title)...)
	}
	return all, nil
}

// parseGameRows skips the header row and rows missing any of the fields the
// monitor needs.
func parseGameRows(values [][]interface{}, sheetName string) []GameRow {
	var rows []GameRow
	for i, raw := range values {
		if i == 0 || len(raw) < 5 {
			continue
		}
		row := GameRow{
			PlayerName: cellString(raw, 0),
			Position:   cellString(raw, 1),
			Team:       cellString(raw, 2),
			Opponent:   cellString(raw, 3),
			GameTime:   cellString(raw, 4),
			SheetName:  sheetName,
		}
		if row.PlayerName == "" || row.Team == "" || row.Opponent == "" || row.GameTime == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// ReadPlayerRows reads columns A:I from one worksheet.
func ReadPlayerRows(ctx context.Context, client *sheets.Client, spreadsheetID, sheetName string) ([]PlayerRow, error) {
	values, err := client.ReadSheet(ctx, spreadsheetID, fmt.Sprintf("'%s'!A:I", sheetName))
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %q: %w", sheetName, err)
	}
	return parsePlayerRows(values, sheetName), nil
}

func parsePlayerRows(values [][]interface{}, sheetName string) []PlayerRow {
	var rows []PlayerRow
	for i, raw := range values {
		if i == 0 || len(raw) < 5 {
			continue
		}
		row := PlayerRow{
			RowIndex:   i + 1, // 1-based, header is row 1
			PlayerName: cellString(raw, 0),
			Position:   cellString(raw, 1),
			Team:       cellString(raw, 2),
			Opponent:   cellString(raw, 3),
			GameTime:   cellString(raw, 4),
			Line:       cellString(raw, 5),
			PayoutType: cellString(raw, 6),
			Actual:     cellString(raw, 7),
			OverUnder:  cellString(raw, 8),
			StatType:   props.StatTypeFromSheet(sheetName),
		}
		if row.PayoutType == "" {
			row.PayoutType = props.PayoutStandard
		}
		if row.PlayerName == "" || row.Team == "" || row.Opponent == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// cellString safely extracts a trimmed string from a row at the given index.
func cellString(row []interface{}, index int) string {
	if len(row) > index && row[index] != nil {
		return strings.TrimSpace(fmt.Sprintf("%v", row[index]))
	}
	return ""
}
