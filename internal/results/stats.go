// Package results backfills actual player stats into the projection
// worksheets from pro-football-reference box scores.
package results

// PlayerStats is one player's line from a box score, passing/rushing/
// receiving plus kicking and defense.
type PlayerStats struct {
	Name string
	Team string

	PassCmp float64
	PassAtt float64
	PassYds float64
	PassTDs float64
	PassINT float64

	RushAtt float64
	RushYds float64
	RushTDs float64

	Targets    float64
	Receptions float64
	RecYds     float64
	RecTDs     float64

	FGMade float64
	XPMade float64

	Sacks         float64
	SoloTackles   float64
	AssistTackles float64
}

// StatValue resolves a stat type to its value for this line. Combined stats
// are summed from their parts and fantasy points use full-PPR scoring.
func (s *PlayerStats) StatValue(statType string) (float64, bool) {
	switch statType {
	case "Pass Yards":
		return s.PassYds, true
	case "Pass TDs":
		return s.PassTDs, true
	case "Pass Attempts":
		return s.PassAtt, true
	case "Pass Completions":
		return s.PassCmp, true
	case "INTs Thrown":
		return s.PassINT, true
	case "Rush Yards":
		return s.RushYds, true
	case "Rush Attempts":
		return s.RushAtt, true
	case "Receiving Yards":
		return s.RecYds, true
	case "Receptions":
		return s.Receptions, true
	case "Rec Targets":
		return s.Targets, true
	case "Rush+Rec Yds":
		return s.RushYds + s.RecYds, true
	case "Rush+Rec TDs":
		return s.RushTDs + s.RecTDs, true
	case "Pass+Rush Yards":
		return s.PassYds + s.RushYds, true
	case "FG Made":
		return s.FGMade, true
	case "Kicking Points":
		return s.FGMade*3 + s.XPMade, true
	case "Sacks":
		return s.Sacks, true
	case "Tackles+Assists":
		return s.SoloTackles + s.AssistTackles, true
	case "Fantasy Points":
		return s.fantasyPoints(), true
	}
	return 0, false
}

func (s *PlayerStats) fantasyPoints() float64 {
	return s.PassYds/25 +
		s.PassTDs*4 -
		s.PassINT*2 +
		s.RushYds/10 +
		s.RushTDs*6 +
		s.RecYds/10 +
		s.RecTDs*6 +
		s.Receptions
}
