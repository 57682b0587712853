package standings

// RankingEntry is one derived table row. It is never persisted.
type RankingEntry struct {
	TeamID         string
	TeamName       string
	Position       int
	Points         int
	Played         int
	Won            int
	Draw           int
	Lost           int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
}

// TopScorer pairs a player with its team name and display goals.
type TopScorer struct {
	PlayerID   string
	PlayerName string
	TeamID     string
	TeamName   string
	Goals      int
}

const (
	PointsWin  = 3
	PointsDraw = 1
	PointsLoss = 0
)
