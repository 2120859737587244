package results

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"prop_sheets/internal/gametime"
	"prop_sheets/internal/sheetops"
	"prop_sheets/internal/sheets"

	"github.com/rs/zerolog/log"
)

// Games run about three hours; anything past this margin is final.
const gameDuration = 4 * time.Hour

// Fetcher walks every worksheet, finds rows with an empty Actual column
// whose game has finished, and backfills results from box scores.
type Fetcher struct {
	client        *sheets.Client
	spreadsheetID string
	boxscores     *BoxscoreFetcher
	cache         map[string]boxscoreEntry
}

type boxscoreEntry struct {
	stats []PlayerStats
	err   error
}

func NewFetcher(client *sheets.Client, spreadsheetID string) (*Fetcher, error) {
	boxscores, err := NewBoxscoreFetcher()
	if err != nil {
		return nil, err
	}
	return &Fetcher{
		client:        client,
		spreadsheetID: spreadsheetID,
		boxscores:     boxscores,
		cache:         make(map[string]boxscoreEntry),
	}, nil
}

// Run backfills all worksheets and returns the number of rows updated.
func (f *Fetcher) Run(ctx context.Context) (int, error) {
	titles, err := f.client.SheetTitles(ctx, f.spreadsheetID)
	if err != nil {
		return 0, fmt.Errorf("failed to list worksheets: %w", err)
	}

	now := time.Now()
	total := 0
	for _, title := range titles {
		rows, err := sheetops.ReadPlayerRows(ctx, f.client, f.spreadsheetID, title)
		if err != nil {
			log.Error().Err(err).Str("sheet", title).Msg("Failed to read worksheet, skipping")
			continue
		}

		updates := f.buildUpdates(rows, now)
		if len(updates) == 0 {
			log.Debug().Str("sheet", title).Msg("Nothing to backfill")
			continue
		}

		if err := sheetops.ApplyResultUpdates(ctx, f.client, f.spreadsheetID, title, updates); err != nil {
			log.Error().Err(err).Str("sheet", title).Msg("Failed to write results")
			continue
		}
		total += len(updates)
	}

	log.Info().Int("rows_updated", total).Msg("Results backfill complete")
	return total, nil
}

func (f *Fetcher) buildUpdates(rows []sheetops.PlayerRow, now time.Time) []sheetops.ResultUpdate {
	var updates []sheetops.ResultUpdate
	for _, row := range rows {
		if row.Actual != "" {
			continue
		}

		line, err := strconv.ParseFloat(row.Line, 64)
		if err != nil {
			log.Debug().Str("player", row.PlayerName).Str("line", row.Line).Msg("Unparseable line, skipping")
			continue
		}

		start, err := lastOccurrence(row.GameTime, now)
		if err != nil {
			log.Debug().Str("player", row.PlayerName).Str("game_time", row.GameTime).Msg("Unparseable game time, skipping")
			continue
		}
		if now.Before(start.Add(gameDuration)) {
			log.Debug().Str("player", row.PlayerName).Time("kickoff", start).Msg("Game not finished yet, skipping")
			continue
		}

		stats, err := f.gameStats(start, row.Team, row.Opponent)
		if err != nil {
			log.Warn().
				Err(err).
				Str("team", row.Team).
				Str("opponent", row.Opponent).
				Msg("Could not fetch boxscore")
			continue
		}

		// A date-keyed URL can resolve to an earlier game the same host
		// played, so a row for a game that hasn't happened yet must not
		// pick up last week's numbers.
		if !matchupPlayed(stats, row.Team, row.Opponent) {
			log.Debug().
				Str("team", row.Team).
				Str("opponent", row.Opponent).
				Time("kickoff", start).
				Msg("Boxscore is for a different matchup, skipping")
			continue
		}

		player := matchPlayer(stats, row.PlayerName)
		if player == nil {
			log.Debug().Str("player", row.PlayerName).Msg("Player not in boxscore, skipping")
			continue
		}

		actual, ok := player.StatValue(row.StatType)
		if !ok {
			log.Debug().Str("player", row.PlayerName).Str("stat_type", row.StatType).Msg("Unsupported stat type, skipping")
			continue
		}

		overUnder := "Under"
		if actual > line {
			overUnder = "Over"
		}

		log.Info().
			Str("player", row.PlayerName).
			Str("stat_type", row.StatType).
			Float64("actual", actual).
			Float64("line", line).
			Str("result", overUnder).
			Msg("Found actual result")

		updates = append(updates, sheetops.ResultUpdate{
			RowIndex:  row.RowIndex,
			Actual:    actual,
			OverUnder: overUnder,
		})
	}
	return updates
}

// gameStats fetches a game's boxscore at most once per run, keyed by date
// and matchup. Failed lookups are cached too so one missing game doesn't
// cost a request per row.
func (f *Fetcher) gameStats(start time.Time, team, opponent string) ([]PlayerStats, error) {
	key := cacheKey(start, team, opponent)
	if entry, ok := f.cache[key]; ok {
		return entry.stats, entry.err
	}

	stats, err := f.boxscores.Fetch(start, team, opponent)
	f.cache[key] = boxscoreEntry{stats: stats, err: err}
	return stats, err
}

func cacheKey(start time.Time, team, opponent string) string {
	a, b := PFRCode(team), PFRCode(opponent)
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("%s|%s|%s", start.Format("20060102"), a, b)
}

// lastOccurrence resolves a sheet game time to its most recent past
// occurrence. Day-and-time strings name a weekly slot, so the next
// occurrence rolls back a week; time-only strings name a daily slot and
// roll back a day.
func lastOccurrence(gameTime string, now time.Time) (time.Time, error) {
	next, err := gametime.ParseAt(gameTime, now)
	if err != nil {
		return time.Time{}, err
	}
	if !next.After(now) {
		return next, nil
	}
	if gametime.HasWeekday(gameTime) {
		return next.AddDate(0, 0, -7), nil
	}
	return next.AddDate(0, 0, -1), nil
}

// matchupPlayed reports whether the boxscore includes players from both
// sides of the row's matchup.
func matchupPlayed(stats []PlayerStats, team, opponent string) bool {
	want := map[string]bool{PFRCode(team): false, PFRCode(opponent): false}
	for _, s := range stats {
		code := strings.ToUpper(strings.TrimSpace(s.Team))
		if _, ok := want[code]; ok {
			want[code] = true
		}
	}
	for _, seen := range want {
		if !seen {
			return false
		}
	}
	return true
}

// matchPlayer finds a boxscore line by name, case-insensitively. Sheet names
// come from the sportsbooks and sometimes disagree on suffixes, so a prefix
// match is tried before giving up.
func matchPlayer(stats []PlayerStats, name string) *PlayerStats {
	target := strings.ToLower(strings.TrimSpace(name))
	for i := range stats {
		if strings.ToLower(stats[i].Name) == target {
			return &stats[i]
		}
	}

	var candidates []int
	for i := range stats {
		if strings.HasPrefix(strings.ToLower(stats[i].Name), target) ||
			strings.HasPrefix(target, strings.ToLower(stats[i].Name)) {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 1 {
		return &stats[candidates[0]]
	}
	return nil
}
