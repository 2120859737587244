// Package sheetops holds the spreadsheet layout: one worksheet per canonical
// stat type, nine fixed columns, header in row 1.
package sheetops

import (
	"context"
	"fmt"
	"sort"

	"prop_sheets/internal/props"
	"prop_sheets/internal/sheets"

	"github.com/rs/zerolog/log"
)

// Header is row 1 of every stat worksheet. Actual and Over/Under stay empty
// until the results backfill fills them in.
var Header = []interface{}{
	"Player Name",
	"Position",
	"Team",
	"Opponent",
	"Game Time",
	"Line",
	"Payout Type",
	"Actual",
	"Over/Under",
}

// UploadProjections writes projections to their stat worksheets, creating
// worksheets as needed. Each worksheet is rewritten from A1 so a re-scrape
// replaces stale lines. Returns the number of worksheets touched.
func UploadProjections(ctx context.Context, client *sheets.Client, spreadsheetID string, projections []props.Projection) (int, error) {
	bySheet := make(map[string][]props.Projection)
	for _, p := range projections {
		name := props.SheetName(p.StatType)
		bySheet[name] = append(bySheet[name], p)
	}

	names := make([]string, 0, len(bySheet))
	for name := range bySheet {
		names = append(names, name)
	}
	sort.Strings(names)

	updated := 0
	for _, name := range names {
		group := bySheet[name]
		if err := uploadSheet(ctx, client, spreadsheetID, name, group); err != nil {
			log.Error().Err(err).Str("sheet", name).Msg("Failed to upload worksheet")
			continue
		}
		log.Info().
			Str("sheet", name).
			Int("players", len(group)).
			Msg("Uploaded projections")
		updated++
	}

	if updated == 0 && len(names) > 0 {
		return 0, fmt.Errorf("all %d worksheet uploads failed", len(names))
	}
	return updated, nil
}

func uploadSheet(ctx context.Context, client *sheets.Client, spreadsheetID, sheetName string, group []props.Projection) error {
	if err := client.EnsureSheet(ctx, spreadsheetID, sheetName); err != nil {
		return err
	}

	rows := make([][]interface{}, 0, len(group)+1)
	rows = append(rows, Header)
	for _, p := range group {
		rows = append(rows, []interface{}{
			p.PlayerName,
			p.Position,
			p.Team,
			p.Opponent,
			p.GameTime,
			p.Line,
			p.PayoutType,
			"", // Actual
			"", // Over/Under
		})
	}

	range_ := fmt.Sprintf("'%s'!A1", sheetName)
	return client.UpdateRange(ctx, spreadsheetID, range_, rows)
}
