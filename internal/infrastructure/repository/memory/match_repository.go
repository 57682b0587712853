package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/riskibarqy/club-tournaments/internal/domain/match"
)

type MatchRepository struct {
	db *Database
}

func (r *MatchRepository) ListByTournament(_ context.Context, tournamentID string) ([]match.Match, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, m := range r.db.matches {
		if m.TournamentID == tournamentID {
			out = append(out, m)
		}
	}
	slices.SortFunc(out, func(a, b match.Match) int {
		if c := compareTimesNullsLast(a.PlayedAt, b.PlayedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *MatchRepository) Create(_ context.Context, m match.Match) (match.Match, error) {
	if err := m.Validate(); err != nil {
		return match.Match{}, err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, teamID := range []string{m.HomeTeamID, m.AwayTeamID} {
		t, ok := r.db.teams[teamID]
		if !ok || t.TournamentID != m.TournamentID {
			return match.Match{}, fmt.Errorf("insert match: team %s: %w", teamID, ErrForeignKeyViolation)
		}
	}
	if m.ID == "" {
		newID, err := r.db.matchIDs.NewID()
		if err != nil {
			return match.Match{}, fmt.Errorf("generate match id: %w", err)
		}
		m.ID = newID
	}
	r.db.matches[m.ID] = m
	return m, nil
}

func (r *MatchRepository) DeleteByTeam(_ context.Context, teamID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for matchID, m := range r.db.matches {
		if m.Involves(teamID) {
			delete(r.db.matches, matchID)
		}
	}
	return nil
}
