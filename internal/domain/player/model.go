package player

import (
	"fmt"
	"strings"
)

// Player is a registered member of a team with a scorer count.
type Player struct {
	ID     string
	TeamID string
	Name   string
	// Goals is nil for legacy rows that never had a tally.
	Goals *int
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.TeamID) == "" {
		return fmt.Errorf("player team id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	if p.Goals != nil && *p.Goals < 0 {
		return fmt.Errorf("player goals must be non-negative")
	}

	return nil
}

// DisplayGoals clamps absent or negative tallies to zero.
func (p Player) DisplayGoals() int {
	if p.Goals == nil || *p.Goals < 0 {
		return 0
	}
	return *p.Goals
}

// CleanNames trims names and drops the blank ones, keeping order.
func CleanNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func IntPtr(v int) *int {
	return &v
}
