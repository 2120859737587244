// Package monitor polls the spreadsheet and fires a callback for each game
// entering its pre-kickoff window, so lines get refreshed right before lock.
package monitor

import (
	"context"
	"fmt"
	"sort"
	"time"

	"prop_sheets/internal/gametime"
	"prop_sheets/internal/notifications"
	"prop_sheets/internal/retry"
	"prop_sheets/internal/sheetops"
	"prop_sheets/internal/sheets"

	"github.com/rs/zerolog/log"
)

const (
	DefaultInterval = 120 * time.Second
	DefaultWindow   = 60 * time.Minute
)

// Game is a kickoff shared by every player row that references it.
type Game struct {
	StartTime time.Time
	TimeStr   string
	Team      string
	Opponent  string
	Players   []sheetops.GameRow
}

// Key identifies a game across polling cycles. Both teams' rows carry the
// matchup from their own perspective, so the pair is ordered alphabetically.
func (g Game) Key() string {
	a, b := g.Team, g.Opponent
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("%s vs %s at %s", a, b, g.TimeStr)
}

// Info summarizes a triggered game for logging and notifications.
type Info struct {
	PlayerCount int
	StatTypes   []string
	TriggerTime time.Time
}

// TriggerFunc is called once per game when it enters the window.
type TriggerFunc func(ctx context.Context, game Game) error

type Monitor struct {
	client        *sheets.Client
	spreadsheetID string
	interval      time.Duration
	window        time.Duration
	notifier      *notifications.Client
	onTrigger     TriggerFunc
	retryConfig   retry.Config
	triggered     map[string]bool
}

func New(client *sheets.Client, spreadsheetID string, notifier *notifications.Client, onTrigger TriggerFunc, interval, window time.Duration, retryConfig retry.Config) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Monitor{
		client:        client,
		spreadsheetID: spreadsheetID,
		interval:      interval,
		window:        window,
		notifier:      notifier,
		onTrigger:     onTrigger,
		retryConfig:   retryConfig,
		triggered:     make(map[string]bool),
	}
}

// Run polls until the context is canceled. The first check happens
// immediately, not one interval in.
func (m *Monitor) Run(ctx context.Context) error {
	log.Info().
		Dur("interval", m.interval).
		Dur("window", m.window).
		Msg("Game monitor started")

	m.check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Game monitor stopped")
			return nil
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

func (m *Monitor) check(ctx context.Context) {
	rows, err := retry.WithRetry(ctx, m.retryConfig, func(ctx context.Context) ([]sheetops.GameRow, error) {
		return sheetops.ReadAllGameRows(ctx, m.client, m.spreadsheetID)
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to read game rows, will retry next cycle")
		return
	}

	now := time.Now()
	games := groupUpcoming(rows, now, m.window)

	log.Debug().
		Int("rows", len(rows)).
		Int("games_in_window", len(games)).
		Msg("Monitor check complete")

	if len(games) == 0 {
		if next, ok := nextGame(rows, now); ok {
			info := gameInfo(next, m.window)
			log.Info().
				Str("game", next.Key()).
				Time("kickoff", next.StartTime).
				Time("trigger_at", info.TriggerTime).
				Int("players", info.PlayerCount).
				Msg("Next upcoming game")
		}
	}

	for _, game := range games {
		key := game.Key()
		if m.triggered[key] {
			continue
		}
		m.triggered[key] = true

		info := gameInfo(game, m.window)
		log.Info().
			Str("game", key).
			Time("kickoff", game.StartTime).
			Int("players", info.PlayerCount).
			Strs("stat_types", info.StatTypes).
			Msg("Game entered re-scrape window")

		if m.notifier != nil {
			m.notifier.NotifyGameTrigger(ctx, game.Team, game.Opponent, game.TimeStr, info.PlayerCount)
		}

		if m.onTrigger != nil {
			if err := m.onTrigger(ctx, game); err != nil {
				log.Error().Err(err).Str("game", key).Msg("Trigger action failed")
			}
		}
	}
}

// groupUpcoming buckets rows by game and keeps the games whose kickoff is
// inside (now, now+window]. Rows with unparseable game times are dropped.
func groupUpcoming(rows []sheetops.GameRow, now time.Time, window time.Duration) []Game {
	byKey := make(map[string]*Game)
	var order []string

	for _, row := range rows {
		start, err := gametime.ParseAt(row.GameTime, now)
		if err != nil {
			log.Debug().
				Str("player", row.PlayerName).
				Str("game_time", row.GameTime).
				Msg("Skipping row with unparseable game time")
			continue
		}

		game := Game{
			StartTime: start,
			TimeStr:   row.GameTime,
			Team:      row.Team,
			Opponent:  row.Opponent,
		}
		key := game.Key()
		if existing, ok := byKey[key]; ok {
			existing.Players = append(existing.Players, row)
			continue
		}
		game.Players = []sheetops.GameRow{row}
		byKey[key] = &game
		order = append(order, key)
	}

	var upcoming []Game
	for _, key := range order {
		game := byKey[key]
		until := game.StartTime.Sub(now)
		if until > 0 && until <= window {
			upcoming = append(upcoming, *game)
		}
	}
	return upcoming
}

// nextGame returns the soonest game still ahead of now.
func nextGame(rows []sheetops.GameRow, now time.Time) (Game, bool) {
	byKey := make(map[string]*Game)
	var best *Game

	for _, row := range rows {
		start, err := gametime.ParseAt(row.GameTime, now)
		if err != nil || !start.After(now) {
			continue
		}
		game := Game{
			StartTime: start,
			TimeStr:   row.GameTime,
			Team:      row.Team,
			Opponent:  row.Opponent,
		}
		key := game.Key()
		if existing, ok := byKey[key]; ok {
			existing.Players = append(existing.Players, row)
			continue
		}
		game.Players = []sheetops.GameRow{row}
		byKey[key] = &game
		if best == nil || game.StartTime.Before(best.StartTime) {
			best = byKey[key]
		}
	}

	if best == nil {
		return Game{}, false
	}
	return *best, true
}

func gameInfo(game Game, window time.Duration) Info {
	seen := make(map[string]bool)
	var statTypes []string
	for _, row := range game.Players {
		if !seen[row.SheetName] {
			seen[row.SheetName] = true
			statTypes = append(statTypes, row.SheetName)
		}
	}
	sort.Strings(statTypes)

	return Info{
		PlayerCount: len(game.Players),
		StatTypes:   statTypes,
		TriggerTime: game.StartTime.Add(-window),
	}
}
