package team

import (
	"fmt"
	"strings"
)

// Team is a squad registered into one tournament.
type Team struct {
	ID           string
	TournamentID string
	Name         string
}

// Validate checks the fields a caller must supply; ID is assigned by the store on create.
func (t Team) Validate() error {
	if strings.TrimSpace(t.TournamentID) == "" {
		return fmt.Errorf("team tournament id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}

// IDs returns the ids of teams in input order.
func IDs(teams []Team) []string {
	out := make([]string, 0, len(teams))
	for _, t := range teams {
		out = append(out, t.ID)
	}
	return out
}
