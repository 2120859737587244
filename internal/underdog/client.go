// Package underdog fetches pick'em projections from the Underdog Fantasy
// API. The home payload is relational: over_under_lines point at appearances,
// appearances point at players and games, so building a board is a join.
package underdog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"prop_sheets/internal/gametime"
	"prop_sheets/internal/props"

	"github.com/rs/zerolog/log"
)

const defaultBaseURL = "https://api.underdogfantasy.com"

const DefaultSportID = "NFL"

// wantedStats restricts the board to the display stats the worksheets track.
var wantedStats = func() map[string]bool {
	m := make(map[string]bool)
	for _, s := range props.UnderdogStatTypes() {
		m[s] = true
	}
	return m
}()

type Client struct {
	sportID      string
	baseURL      string
	client       *http.Client
	apiCallCount int64
	apiCallMutex sync.Mutex
}

type player struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Position  string `json:"position"`
	TeamID    string `json:"team_id"`
}

type game struct {
	ID          string `json:"id"`
	SportID     string `json:"sport_id"`
	AwayTeamID  string `json:"away_team_id"`
	HomeTeamID  string `json:"home_team_id"`
	Title       string `json:"title"`
	ScheduledAt string `json:"scheduled_at"`
}

type appearance struct {
	ID       string `json:"id"`
	MatchID  string `json:"match_id"`
	PlayerID string `json:"player_id"`
}

type overUnderLine struct {
	ID        string      `json:"id"`
	StatValue json.Number `json:"stat_value"`
	Status    string      `json:"status"`
	OverUnder struct {
		AppearanceStat struct {
			AppearanceID string `json:"appearance_id"`
			DisplayStat  string `json:"display_stat"`
			Stat         string `json:"stat"`
		} `json:"appearance_stat"`
	} `json:"over_under"`
}

type appearancesResponse struct {
	Appearances    []appearance    `json:"appearances"`
	Games          []game          `json:"games"`
	Players        []player        `json:"players"`
	OverUnderLines []overUnderLine `json:"over_under_lines"`
}

func NewClient(sportID string) *Client {
	if sportID == "" {
		sportID = DefaultSportID
	}
	return &Client{
		sportID: sportID,
		baseURL: defaultBaseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// IncrementAPICall safely increments the API call counter
func (c *Client) IncrementAPICall() {
	c.apiCallMutex.Lock()
	c.apiCallCount++
	c.apiCallMutex.Unlock()
}

// GetAPICallCount returns the current API call count
func (c *Client) GetAPICallCount() int64 {
	c.apiCallMutex.Lock()
	defer c.apiCallMutex.Unlock()
	return c.apiCallCount
}

// ResetAPICallCount resets the API call counter to zero
func (c *Client) ResetAPICallCount() {
	c.apiCallMutex.Lock()
	c.apiCallCount = 0
	c.apiCallMutex.Unlock()
}

// FetchProjections returns the current pick'em board for the configured
// sport. Lines whose appearance, player, or game cannot be resolved are
// skipped with a warning.
func (c *Client) FetchProjections(ctx context.Context) ([]props.Projection, error) {
	reqURL := fmt.Sprintf("%s/beta/v5/home/pick_em_appearances", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/109.0.0.0 Safari/537.36")

	// Increment API call counter
	c.IncrementAPICall()

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result appearancesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	projections := joinProjections(&result, c.sportID)

	log.Debug().
		Int("lines", len(result.OverUnderLines)).
		Int("kept_projections", len(projections)).
		Str("sport", c.sportID).
		Msg("Fetched Underdog board")

	return projections, nil
}

// joinProjections resolves each over/under line through its appearance to a
// player and game, keeping only active lines in the requested sport.
func joinProjections(resp *appearancesResponse, sportID string) []props.Projection {
	appearances := make(map[string]appearance, len(resp.Appearances))
	for _, a := range resp.Appearances {
		appearances[a.ID] = a
	}
	players := make(map[string]player, len(resp.Players))
	for _, p := range resp.Players {
		players[p.ID] = p
	}
	games := make(map[string]game, len(resp.Games))
	for _, g := range resp.Games {
		games[g.ID] = g
	}

	var projections []props.Projection
	for _, line := range resp.OverUnderLines {
		if line.Status != "" && line.Status != "active" {
			continue
		}

		app, ok := appearances[line.OverUnder.AppearanceStat.AppearanceID]
		if !ok {
			log.Warn().
				Str("line_id", line.ID).
				Str("appearance_id", line.OverUnder.AppearanceStat.AppearanceID).
				Msg("Line references unknown appearance, skipping")
			continue
		}

		pl, ok := players[app.PlayerID]
		if !ok {
			log.Warn().
				Str("line_id", line.ID).
				Str("player_id", app.PlayerID).
				Msg("Appearance references unknown player, skipping")
			continue
		}

		g, ok := games[app.MatchID]
		if !ok || (sportID != "" && g.SportID != sportID) {
			continue
		}

		team, opponent, ok := resolveTeams(g, pl.TeamID)
		if !ok {
			log.Warn().
				Str("line_id", line.ID).
				Str("game_title", g.Title).
				Msg("Could not resolve team abbreviations, skipping")
			continue
		}

		statType := line.OverUnder.AppearanceStat.DisplayStat
		if statType == "" {
			statType = line.OverUnder.AppearanceStat.Stat
		}
		if statType == "" || line.StatValue == "" {
			continue
		}
		if !wantedStats[statType] {
			continue
		}

		gameTime := g.ScheduledAt
		if t, err := time.Parse(time.RFC3339, g.ScheduledAt); err == nil {
			gameTime = gametime.Format(t.Local())
		}

		projections = append(projections, props.Projection{
			PlayerName: strings.TrimSpace(pl.FirstName + " " + pl.LastName),
			Position:   pl.Position,
			Team:       team,
			Opponent:   opponent,
			GameTime:   gameTime,
			Line:       line.StatValue.String(),
			StatType:   statType,
			PayoutType: props.PayoutStandard,
			Platform:   props.PlatformUnderdog,
		})
	}
	return projections
}

// resolveTeams extracts team abbreviations from the game title, which is
// always "AWAY @ HOME", and picks sides from the player's team ID.
func resolveTeams(g game, playerTeamID string) (team, opponent string, ok bool) {
	parts := strings.Split(g.Title, "@")
	if len(parts) != 2 {
		return "", "", false
	}
	away := strings.TrimSpace(parts[0])
	home := strings.TrimSpace(parts[1])
	if away == "" || home == "" {
		return "", "", false
	}

	if playerTeamID == g.HomeTeamID {
		return home, away, true
	}
	return away, home, true
}
