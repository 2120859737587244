// Package analyzer reports over/under accuracy from completed worksheet rows.
package analyzer

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"prop_sheets/internal/sheetops"
	"prop_sheets/internal/sheets"

	"github.com/montanaflynn/stats"
	"github.com/rs/zerolog/log"
)

// Record is one completed bet: a line, its actual result, and the side the
// result landed on.
type Record struct {
	PlayerName string
	Position   string
	Team       string
	StatType   string
	PayoutType string
	Line       float64
	Actual     float64
	Over       bool
}

// Tally counts how often a grouping went over.
type Tally struct {
	Name  string
	Over  int
	Under int
}

func (t Tally) Total() int { return t.Over + t.Under }

func (t Tally) OverPct() float64 {
	if t.Total() == 0 {
		return 0
	}
	return float64(t.Over) / float64(t.Total()) * 100
}

// Report is the full accuracy breakdown for one or more worksheets.
type Report struct {
	TotalBets int
	TotalOver int

	ByStatType []Tally
	ByPosition []Tally
	ByTeam     []Tally
	ByLineSize []Tally
	// Players with at least minPlayerBets completed bets, most-over first.
	ByPlayer []Tally

	MeanMargin   float64
	MedianMargin float64
}

func (r *Report) OverPct() float64 {
	if r.TotalBets == 0 {
		return 0
	}
	return float64(r.TotalOver) / float64(r.TotalBets) * 100
}

const minPlayerBets = 3

// LoadRecords reads one worksheet (or all of them when sheetName is empty)
// and keeps only rows with a filled Actual and Over/Under.
func LoadRecords(ctx context.Context, client *sheets.Client, spreadsheetID, sheetName string) ([]Record, error) {
	var titles []string
	if sheetName != "" {
		titles = []string{sheetName}
	} else {
		var err error
		titles, err = client.SheetTitles(ctx, spreadsheetID)
		if err != nil {
			return nil, fmt.Errorf("failed to list worksheets: %w", err)
		}
	}

	var records []Record
	for _, title := range titles {
		rows, err := sheetops.ReadPlayerRows(ctx, client, spreadsheetID, title)
		if err != nil {
			log.Error().Err(err).Str("sheet", title).Msg("Failed to read worksheet, skipping")
			continue
		}
		records = append(records, recordsFromRows(rows)...)
	}

	log.Debug().Int("records", len(records)).Msg("Loaded completed bets")
	return records, nil
}

func recordsFromRows(rows []sheetops.PlayerRow) []Record {
	var records []Record
	for _, row := range rows {
		side := strings.ToLower(strings.TrimSpace(row.OverUnder))
		if row.Actual == "" || (side != "over" && side != "under") {
			continue
		}
		line, err := strconv.ParseFloat(row.Line, 64)
		if err != nil {
			continue
		}
		actual, err := strconv.ParseFloat(row.Actual, 64)
		if err != nil {
			continue
		}
		records = append(records, Record{
			PlayerName: row.PlayerName,
			Position:   row.Position,
			Team:       row.Team,
			StatType:   row.StatType,
			PayoutType: row.PayoutType,
			Line:       line,
			Actual:     actual,
			Over:       side == "over",
		})
	}
	return records
}

// Analyze builds the accuracy report from completed bets.
func Analyze(records []Record) *Report {
	report := &Report{}

	statType := make(map[string]*Tally)
	position := make(map[string]*Tally)
	team := make(map[string]*Tally)
	lineSize := make(map[string]*Tally)
	player := make(map[string]*Tally)

	var margins []float64
	for _, rec := range records {
		report.TotalBets++
		if rec.Over {
			report.TotalOver++
		}
		margins = append(margins, rec.Actual-rec.Line)

		count(statType, rec.StatType, rec.Over)
		count(position, rec.Position, rec.Over)
		count(team, rec.Team, rec.Over)
		count(lineSize, lineBucket(rec.Line), rec.Over)
		count(player, rec.PlayerName, rec.Over)
	}

	report.ByStatType = sortedTallies(statType, 0)
	report.ByPosition = sortedTallies(position, 0)
	report.ByTeam = sortedTallies(team, 0)
	report.ByLineSize = sortedTallies(lineSize, 0)
	report.ByPlayer = sortedTallies(player, minPlayerBets)

	if len(margins) > 0 {
		// stats errors only on empty input
		report.MeanMargin, _ = stats.Mean(margins)
		report.MedianMargin, _ = stats.Median(margins)
	}

	return report
}

func count(m map[string]*Tally, key string, over bool) {
	if key == "" {
		key = "Unknown"
	}
	t, ok := m[key]
	if !ok {
		t = &Tally{Name: key}
		m[key] = t
	}
	if over {
		t.Over++
	} else {
		t.Under++
	}
}

// lineBucket groups lines by magnitude so 0.5 TD props don't average against
// 250-yard passing props.
func lineBucket(line float64) string {
	switch {
	case line < 5:
		return "< 5"
	case line < 25:
		return "5 - 25"
	case line < 100:
		return "25 - 100"
	case line < 250:
		return "100 - 250"
	default:
		return "250+"
	}
}

func sortedTallies(m map[string]*Tally, minTotal int) []Tally {
	tallies := make([]Tally, 0, len(m))
	for _, t := range m {
		if t.Total() >= minTotal {
			tallies = append(tallies, *t)
		}
	}
	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].Total() != tallies[j].Total() {
			return tallies[i].Total() > tallies[j].Total()
		}
		return tallies[i].Name < tallies[j].Name
	})
	return tallies
}

// Print writes the report in the menu's plain-text format.
func (r *Report) Print(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "OVER/UNDER RESULTS SUMMARY")
	fmt.Fprintln(w, strings.Repeat("=", 60))

	if r.TotalBets == 0 {
		fmt.Fprintln(w, "No completed bets to analyze")
		return
	}

	fmt.Fprintf(w, "Total bets: %d\n", r.TotalBets)
	fmt.Fprintf(w, "Over:  %d (%.1f%%)\n", r.TotalOver, r.OverPct())
	fmt.Fprintf(w, "Under: %d (%.1f%%)\n", r.TotalBets-r.TotalOver, 100-r.OverPct())
	fmt.Fprintf(w, "Mean margin vs line:   %+.2f\n", r.MeanMargin)
	fmt.Fprintf(w, "Median margin vs line: %+.2f\n", r.MedianMargin)

	printSection(w, "By stat type", r.ByStatType)
	printSection(w, "By position", r.ByPosition)
	printSection(w, "By line size", r.ByLineSize)
	printSection(w, "By team", r.ByTeam)
	printSection(w, fmt.Sprintf("By player (min %d bets)", minPlayerBets), r.ByPlayer)
}

func printSection(w io.Writer, title string, tallies []Tally) {
	if len(tallies) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
	for _, t := range tallies {
		fmt.Fprintf(w, "  %-24s %3d bets  over %.1f%%\n", t.Name, t.Total(), t.OverPct())
	}
}
