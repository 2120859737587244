package monitor

import (
	"testing"
	"time"

	"prop_sheets/internal/gametime"
	"prop_sheets/internal/sheetops"
)

// Wednesday afternoon; "Thu 7:20pm" is ~29 hours out, "Wed 3:00pm" is 30
// minutes out.
var wednesday = time.Date(2025, 9, 10, 14, 30, 0, 0, time.Local)

func row(player, team, opp, gameTime, sheet string) sheetops.GameRow {
	return sheetops.GameRow{
		PlayerName: player,
		Position:   "QB",
		Team:       team,
		Opponent:   opp,
		GameTime:   gameTime,
		SheetName:  sheet,
	}
}

func TestGroupUpcoming(t *testing.T) {
	rows := []sheetops.GameRow{
		row("Jalen Hurts", "PHI", "DAL", "Wed 3:00pm", "Pass Yards"),
		row("Dak Prescott", "DAL", "PHI", "Wed 3:00pm", "Pass Yards"),
		row("Saquon Barkley", "PHI", "DAL", "Wed 3:00pm", "Rush Yards"),
		// tomorrow, outside the window
		row("Josh Allen", "BUF", "MIA", "Thu 7:20pm", "Pass Yards"),
		// unparseable time
		row("Broken", "KC", "LV", "whenever", "Pass Yards"),
	}

	games := groupUpcoming(rows, wednesday, time.Hour)
	if len(games) != 1 {
		t.Fatalf("expected 1 game in window, got %d: %+v", len(games), games)
	}

	game := games[0]
	if len(game.Players) != 3 {
		t.Errorf("both sides of the matchup should group together, got %d players", len(game.Players))
	}
	if game.Key() != "DAL vs PHI at Wed 3:00pm" {
		t.Errorf("unexpected key %q", game.Key())
	}

	want, err := gametime.ParseAt("Wed 3:00pm", wednesday)
	if err != nil {
		t.Fatal(err)
	}
	if !game.StartTime.Equal(want) {
		t.Errorf("start time = %v, want %v", game.StartTime, want)
	}
}

func TestGroupUpcomingExcludesStartedGames(t *testing.T) {
	rows := []sheetops.GameRow{
		// 2:00pm already kicked off at a 2:30pm check
		row("Jalen Hurts", "PHI", "DAL", "Wed 2:00pm", "Pass Yards"),
	}

	// ParseAt rolls a same-day past time a week forward, so the game lands
	// outside the window either way.
	games := groupUpcoming(rows, wednesday, time.Hour)
	if len(games) != 0 {
		t.Fatalf("started game should not trigger, got %+v", games)
	}
}

func TestNextGamePicksSoonestKickoff(t *testing.T) {
	rows := []sheetops.GameRow{
		row("Josh Allen", "BUF", "MIA", "Thu 7:20pm", "Pass Yards"),
		row("Jalen Hurts", "PHI", "DAL", "Wed 3:00pm", "Pass Yards"),
		row("Dak Prescott", "DAL", "PHI", "Wed 3:00pm", "Pass Yards"),
		row("Broken", "KC", "LV", "whenever", "Pass Yards"),
	}

	next, ok := nextGame(rows, wednesday)
	if !ok {
		t.Fatal("expected a next game")
	}
	if next.Key() != "DAL vs PHI at Wed 3:00pm" {
		t.Errorf("unexpected next game %q", next.Key())
	}
	if len(next.Players) != 2 {
		t.Errorf("expected 2 players on the next game, got %d", len(next.Players))
	}

	if _, ok := nextGame(nil, wednesday); ok {
		t.Error("no rows should yield no next game")
	}
}

func TestGameKeyOrderIndependent(t *testing.T) {
	a := Game{Team: "PHI", Opponent: "DAL", TimeStr: "Wed 3:00pm"}
	b := Game{Team: "DAL", Opponent: "PHI", TimeStr: "Wed 3:00pm"}
	if a.Key() != b.Key() {
		t.Errorf("keys differ: %q vs %q", a.Key(), b.Key())
	}
}

func TestGameInfo(t *testing.T) {
	game := Game{
		StartTime: wednesday.Add(30 * time.Minute),
		Players: []sheetops.GameRow{
			row("Jalen Hurts", "PHI", "DAL", "Wed 3:00pm", "Pass Yards"),
			row("Saquon Barkley", "PHI", "DAL", "Wed 3:00pm", "Rush Yards"),
			row("Dak Prescott", "DAL", "PHI", "Wed 3:00pm", "Pass Yards"),
		},
	}

	info := gameInfo(game, time.Hour)
	if info.PlayerCount != 3 {
		t.Errorf("player count = %d", info.PlayerCount)
	}
	if len(info.StatTypes) != 2 || info.StatTypes[0] != "Pass Yards" || info.StatTypes[1] != "Rush Yards" {
		t.Errorf("stat types = %v", info.StatTypes)
	}
	if want := game.StartTime.Add(-time.Hour); !info.TriggerTime.Equal(want) {
		t.Errorf("trigger time = %v, want %v", info.TriggerTime, want)
	}
}
