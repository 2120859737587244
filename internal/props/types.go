package props

// Platform identifies which site a projection was scraped from.
type Platform string

const (
	PlatformPrizePicks Platform = "PrizePicks"
	PlatformUnderdog   Platform = "Underdog"
)

// Payout types as they appear in the Payout Type column.
const (
	PayoutStandard = "Standard"
	PayoutGoblin   = "Goblin"
	PayoutDemon    = "Demon"
)

// Projection is one player prop line as written to a stat-type worksheet.
type Projection struct {
	PlayerName string
	Position   string
	Team       string
	Opponent   string
	GameTime   string // sheet format, e.g. "Thu 7:20pm"
	Line       string
	StatType   string // platform's stat name, e.g. "Rush+Rec Yds"
	PayoutType string
	Platform   Platform
}
