package results

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"
	"github.com/rs/zerolog/log"
)

const pfrBaseURL = "https://www.pro-football-reference.com"

// teamToPFR maps sportsbook team abbreviations to pro-football-reference
// codes where they differ.
var teamToPFR = map[string]string{
	"GB":  "GNB",
	"JAC": "JAX",
	"KC":  "KAN",
	"LV":  "LVR",
	"NE":  "NWE",
	"NO":  "NOR",
	"SF":  "SFO",
	"TB":  "TAM",
}

// PFRCode converts a sportsbook team abbreviation to the code used in
// pro-football-reference boxscore URLs.
func PFRCode(team string) string {
	team = strings.ToUpper(strings.TrimSpace(team))
	if code, ok := teamToPFR[team]; ok {
		return code
	}
	return team
}

// BoxscoreFetcher downloads and parses game box scores.
type BoxscoreFetcher struct {
	collector *colly.Collector
	baseURL   string
}

func NewBoxscoreFetcher() (*BoxscoreFetcher, error) {
	c := colly.NewCollector(
		colly.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
	)
	c.SetRequestTimeout(30 * time.Second)

	err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		RandomDelay: 3 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set limit rule: %v", err)
	}

	return &BoxscoreFetcher{collector: c, baseURL: pfrBaseURL}, nil
}

// Fetch downloads the box score for a game, trying each team as the home
// side since the worksheets don't record who hosted.
func (f *BoxscoreFetcher) Fetch(gameDate time.Time, teamA, teamB string) ([]PlayerStats, error) {
	var lastErr error
	for _, home := range []string{teamA, teamB} {
		url := f.boxscoreURL(gameDate, home)
		stats, err := f.fetchURL(url)
		if err == nil && len(stats) > 0 {
			return stats, nil
		}
		if err != nil {
			lastErr = err
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no stats found for %s/%s on %s", teamA, teamB, gameDate.Format("2006-01-02"))
	}
	return nil, lastErr
}

func (f *BoxscoreFetcher) boxscoreURL(gameDate time.Time, homeTeam string) string {
	return fmt.Sprintf("%s/boxscores/%s0%s.htm",
		f.baseURL,
		gameDate.Format("20060102"),
		strings.ToLower(PFRCode(homeTeam)))
}

func (f *BoxscoreFetcher) fetchURL(url string) ([]PlayerStats, error) {
	var body []byte
	var fetchErr error

	// Clone per fetch: colly clones share limits but not callbacks, so each
	// page gets a fresh response buffer.
	c := f.collector.Clone()
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		if r.StatusCode == 429 {
			log.Warn().Str("url", url).Msg("Rate limited, retrying after delay")
			time.Sleep(4 * time.Second)
			if retryErr := r.Request.Retry(); retryErr == nil {
				return
			}
		}
		fetchErr = fmt.Errorf("fetch %s: %w", url, err)
	})

	visitErr := c.Visit(url)
	c.Wait()

	// A retried 429 leaves Visit's original error behind but fills the
	// buffer, so the body wins.
	if len(body) == 0 {
		if fetchErr != nil {
			return nil, fetchErr
		}
		if visitErr != nil {
			return nil, fmt.Errorf("visit %s: %w", url, visitErr)
		}
		return nil, fmt.Errorf("empty response from %s", url)
	}

	return parseBoxscore(body)
}

// parseBoxscore extracts every player line from a boxscore page. The stat
// tables are shipped inside HTML comments, so comment markers are stripped
// before parsing.
func parseBoxscore(body []byte) ([]PlayerStats, error) {
	uncommented := bytes.ReplaceAll(body, []byte("<!--"), nil)
	uncommented = bytes.ReplaceAll(uncommented, []byte("-->"), nil)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(uncommented))
	if err != nil {
		return nil, fmt.Errorf("parse boxscore: %w", err)
	}

	byName := make(map[string]*PlayerStats)
	lookup := func(name, team string) *PlayerStats {
		if s, ok := byName[name]; ok {
			return s
		}
		s := &PlayerStats{Name: name, Team: team}
		byName[name] = s
		return s
	}

	doc.Find("table#player_offense tbody tr").Each(func(_ int, row *goquery.Selection) {
		name := rowName(row)
		if name == "" {
			return
		}
		s := lookup(name, cellText(row, "team"))
		s.PassCmp = cellFloat(row, "pass_cmp")
		s.PassAtt = cellFloat(row, "pass_att")
		s.PassYds = cellFloat(row, "pass_yds")
		s.PassTDs = cellFloat(row, "pass_td")
		s.PassINT = cellFloat(row, "pass_int")
		s.RushAtt = cellFloat(row, "rush_att")
		s.RushYds = cellFloat(row, "rush_yds")
		s.RushTDs = cellFloat(row, "rush_td")
		s.Targets = cellFloat(row, "targets")
		s.Receptions = cellFloat(row, "rec")
		s.RecYds = cellFloat(row, "rec_yds")
		s.RecTDs = cellFloat(row, "rec_td")
	})

	doc.Find("table#kicking tbody tr").Each(func(_ int, row *goquery.Selection) {
		name := rowName(row)
		if name == "" {
			return
		}
		s := lookup(name, cellText(row, "team"))
		s.FGMade = cellFloat(row, "fgm")
		s.XPMade = cellFloat(row, "xpm")
	})

	doc.Find("table#player_defense tbody tr").Each(func(_ int, row *goquery.Selection) {
		name := rowName(row)
		if name == "" {
			return
		}
		s := lookup(name, cellText(row, "team"))
		s.Sacks = cellFloat(row, "sacks")
		s.SoloTackles = cellFloat(row, "tackles_solo")
		s.AssistTackles = cellFloat(row, "tackles_assists")
	})

	stats := make([]PlayerStats, 0, len(byName))
	for _, s := range byName {
		stats = append(stats, *s)
	}
	return stats, nil
}

func rowName(row *goquery.Selection) string {
	cell := row.Find(`[data-stat="player"]`).First()
	name := strings.TrimSpace(cell.Text())
	if name == "" || name == "Player" {
		return ""
	}
	return name
}

func cellText(row *goquery.Selection, stat string) string {
	return strings.TrimSpace(row.Find(fmt.Sprintf(`[data-stat=%q]`, stat)).First().Text())
}

func cellFloat(row *goquery.Selection, stat string) float64 {
	v, err := strconv.ParseFloat(cellText(row, stat), 64)
	if err != nil {
		return 0
	}
	return v
}
