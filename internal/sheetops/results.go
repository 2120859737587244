package sheetops

import (
	"context"
	"fmt"

	"prop_sheets/internal/sheets"

	"github.com/rs/zerolog/log"
)

// ResultUpdate is a backfilled actual result for one worksheet row.
type ResultUpdate struct {
	RowIndex  int
	Actual    float64
	OverUnder string
}

// ApplyResultUpdates writes the Actual (H) and Over/Under (I) cells for a
// batch of rows in a single values.batchUpdate call.
func ApplyResultUpdates(ctx context.Context, client *sheets.Client, spreadsheetID, sheetName string, updates []ResultUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	data := make([]sheets.RangeValues, 0, len(updates)*2)
	for _, u := range updates {
		data = append(data, sheets.RangeValues{
			Range:  fmt.Sprintf("'%s'!H%d", sheetName, u.RowIndex),
			Values: [][]interface{}{{u.Actual}},
		})
		if u.OverUnder != "" {
			data = append(data, sheets.RangeValues{
				Range:  fmt.Sprintf("'%s'!I%d", sheetName, u.RowIndex),
				Values: [][]interface{}{{u.OverUnder}},
			})
		}
	}

	if err := client.BatchUpdateValues(ctx, spreadsheetID, data); err != nil {
		return fmt.Errorf("failed to write results to %q: %w", sheetName, err)
	}

	log.Info().
		Str("sheet", sheetName).
		Int("players", len(updates)).
		Msg("Wrote actual results")
	return nil
}
