package match

import (
	"fmt"
	"strings"
	"time"
)

// Match is a played result between two teams of the same tournament.
type Match struct {
	ID           string
	TournamentID string
	HomeTeamID   string
	AwayTeamID   string
	HomeGoals    int
	AwayGoals    int
	PlayedAt     *time.Time
}

func (m Match) Validate() error {
	if strings.TrimSpace(m.TournamentID) == "" {
		return fmt.Errorf("match tournament id is required")
	}
	if strings.TrimSpace(m.HomeTeamID) == "" || strings.TrimSpace(m.AwayTeamID) == "" {
		return fmt.Errorf("match home and away teams are required")
	}
	if m.HomeTeamID == m.AwayTeamID {
		return fmt.Errorf("match home and away teams must differ")
	}
	if m.HomeGoals < 0 || m.AwayGoals < 0 {
		return fmt.Errorf("match goals must be non-negative")
	}

	return nil
}

// Involves reports whether teamID played in the match.
func (m Match) Involves(teamID string) bool {
	return m.HomeTeamID == teamID || m.AwayTeamID == teamID
}
