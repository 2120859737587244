// Package prizepicks fetches player projections from the PrizePicks
// projections API. The API speaks JSON:API: projections come back in data[]
// with player records side-loaded in included[].
package prizepicks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"prop_sheets/internal/gametime"
	"prop_sheets/internal/props"

	"github.com/rs/zerolog/log"
)

const defaultBaseURL = "https://api.prizepicks.com"

// NFL league ID in the PrizePicks API.
const DefaultLeagueID = "9"

// wantedStats restricts the board to the stat types the worksheets track.
var wantedStats = func() map[string]bool {
	m := make(map[string]bool)
	for _, s := range props.PrizePicksStatTypes() {
		m[s] = true
	}
	return m
}()

type Client struct {
	leagueID     string
	baseURL      string
	client       *http.Client
	playerCache  sync.Map
	apiCallCount int64
	apiCallMutex sync.Mutex
}

type Player struct {
	ID       string
	Name     string
	Position string
	Team     string
}

type projectionAttributes struct {
	Description string      `json:"description"`
	LineScore   json.Number `json:"line_score"`
	StatType    string      `json:"stat_type"`
	StartTime   string      `json:"start_time"`
	OddsType    string      `json:"odds_type"`
}

type projectionResource struct {
	ID            string               `json:"id"`
	Type          string               `json:"type"`
	Attributes    projectionAttributes `json:"attributes"`
	Relationships struct {
		NewPlayer struct {
			Data struct {
				ID string `json:"id"`
			} `json:"data"`
		} `json:"new_player"`
	} `json:"relationships"`
}

type includedResource struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Attributes struct {
		Name     string `json:"name"`
		Position string `json:"position"`
		Team     string `json:"team"`
	} `json:"attributes"`
}

type projectionsResponse struct {
	Data     []projectionResource `json:"data"`
	Included []includedResource   `json:"included"`
}

type cachedPlayer struct {
	player    *Player
	timestamp time.Time
}

func NewClient(leagueID string) *Client {
	if leagueID == "" {
		leagueID = DefaultLeagueID
	}
	return &Client{
		leagueID: leagueID,
		baseURL:  defaultBaseURL,
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

// FetchProjections returns the current board for the configured league. When
// a player/stat pair carries both a standard line and a goblin or demon
// alternate, only the standard line is kept.
func (c *Client) FetchProjections(ctx context.Context) ([]props.Projection, error) {
	query := url.Values{}
	query.Set("league_id", c.leagueID)
	query.Set("per_page", "250")
	query.Set("single_stat", "true")

	reqURL := fmt.Sprintf("%s/projections?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	setBrowserHeaders(req)

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

	var result projectionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	players := indexPlayers(result.Included)
	for id, p := range players {
		c.playerCache.Store(id, cachedPlayer{player: p, timestamp: time.Now()})
	}

	projections := selectProjections(result.Data, players)

	log.Debug().
		Int("raw_projections", len(result.Data)).
		Int("kept_projections", len(projections)).
		Int("players", len(players)).
		Msg("Fetched PrizePicks board")

	return projections, nil
}

// GetPlayer looks up a player by ID, preferring the cache populated by the
// last board fetch. Cache entries are valid for 1 hour.
func (c *Client) GetPlayer(ctx context.Context, playerID string) (*Player, error) {
	if cached, ok := c.playerCache.Load(playerID); ok {
		entry := cached.(cachedPlayer)
		if time.Since(entry.timestamp) < time.Hour {
			return entry.player, nil
		}
	}

	reqURL := fmt.Sprintf("%s/players/%s", c.baseURL, playerID)
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	setBrowserHeaders(req)

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

	var result struct {
		Data includedResource `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	player := &Player{
		ID:       result.Data.ID,
		Name:     result.Data.Attributes.Name,
		Position: result.Data.Attributes.Position,
		Team:     result.Data.Attributes.Team,
	}
	c.playerCache.Store(playerID, cachedPlayer{player: player, timestamp: time.Now()})

	return player, nil
}

// The API rejects requests without browser-looking headers.
func setBrowserHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/109.0.0.0 Safari/537.36")
	req.Header.Set("Origin", "https://app.prizepicks.com")
	req.Header.Set("Referer", "https://app.prizepicks.com/")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
}

func indexPlayers(included []includedResource) map[string]*Player {
	players := make(map[string]*Player)
	for _, res := range included {
		if res.Type != "new_player" {
			continue
		}
		players[res.ID] = &Player{
			ID:       res.ID,
			Name:     res.Attributes.Name,
			Position: res.Attributes.Position,
			Team:     res.Attributes.Team,
		}
	}
	return players
}

func payoutType(oddsType string) string {
	switch oddsType {
	case "goblin":
		return props.PayoutGoblin
	case "demon":
		return props.PayoutDemon
	default:
		return props.PayoutStandard
	}
}

// selectProjections converts raw resources to projections, keeping at most
// one line per player/stat pair with standard lines winning over goblin and
// demon alternates.
func selectProjections(data []projectionResource, players map[string]*Player) []props.Projection {
	type slot struct {
		index  int
		payout string
	}
	chosen := make(map[string]slot)
	var projections []props.Projection

	for _, res := range data {
		playerID := res.Relationships.NewPlayer.Data.ID
		player, ok := players[playerID]
		if !ok {
			log.Warn().
				Str("projection_id", res.ID).
				Str("player_id", playerID).
				Msg("Projection references unknown player, skipping")
			continue
		}
		if res.Attributes.StatType == "" || res.Attributes.LineScore == "" {
			continue
		}
		if !wantedStats[res.Attributes.StatType] {
			continue
		}

		gameTime := res.Attributes.StartTime
		if t, err := time.Parse(time.RFC3339, res.Attributes.StartTime); err == nil {
			gameTime = gametime.Format(t.Local())
		}

		p := props.Projection{
			PlayerName: player.Name,
			Position:   player.Position,
			Team:       player.Team,
			Opponent:   res.Attributes.Description,
			GameTime:   gameTime,
			Line:       res.Attributes.LineScore.String(),
			StatType:   res.Attributes.StatType,
			PayoutType: payoutType(res.Attributes.OddsType),
			Platform:   props.PlatformPrizePicks,
		}

		key := playerID + "|" + res.Attributes.StatType
		if prev, ok := chosen[key]; ok {
			// Standard lines replace alternates; otherwise first wins.
			if prev.payout != props.PayoutStandard && p.PayoutType == props.PayoutStandard {
				projections[prev.index] = p
				chosen[key] = slot{index: prev.index, payout: p.PayoutType}
			}
			continue
		}
		chosen[key] = slot{index: len(projections), payout: p.PayoutType}
		projections = append(projections, p)
	}

	return projections
}
