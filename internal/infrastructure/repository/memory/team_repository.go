package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/riskibarqy/club-tournaments/internal/domain/team"
)

type TeamRepository struct {
	db *Database
}

func (r *TeamRepository) ListByTournament(_ context.Context, tournamentID string) ([]team.Team, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]team.Team, 0)
	for _, t := range r.db.teams {
		if t.TournamentID == tournamentID {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b team.Team) int {
		if c := compareNames(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *TeamRepository) Create(_ context.Context, t team.Team) (team.Team, error) {
	t.Name = strings.TrimSpace(t.Name)
	if err := t.Validate(); err != nil {
		return team.Team{}, err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.tournaments[t.TournamentID]; !ok {
		return team.Team{}, fmt.Errorf("insert team: tournament %s: %w", t.TournamentID, ErrForeignKeyViolation)
	}
	if t.ID == "" {
		newID, err := r.db.teamIDs.NewID()
		if err != nil {
			return team.Team{}, fmt.Errorf("generate team id: %w", err)
		}
		t.ID = newID
	}
	if _, exists := r.db.teams[t.ID]; exists {
		return team.Team{}, fmt.Errorf("insert team: duplicate id %s", t.ID)
	}
	r.db.teams[t.ID] = t
	return t, nil
}

// Delete cascades to players and matches unless strict foreign keys are on,
// in which case it refuses while either still references the team.
func (r *TeamRepository) Delete(_ context.Context, teamID string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.teams[teamID]; !ok {
		return false, nil
	}

	for playerID, p := range r.db.players {
		if p.TeamID != teamID {
			continue
		}
		if r.db.strictForeignKeys {
			return false, fmt.Errorf("delete team %s: players reference it: %w", teamID, ErrForeignKeyViolation)
		}
		delete(r.db.players, playerID)
	}
	for matchID, m := range r.db.matches {
		if !m.Involves(teamID) {
			continue
		}
		if r.db.strictForeignKeys {
			return false, fmt.Errorf("delete team %s: matches reference it: %w", teamID, ErrForeignKeyViolation)
		}
		delete(r.db.matches, matchID)
	}

	delete(r.db.teams, teamID)
	return true, nil
}
