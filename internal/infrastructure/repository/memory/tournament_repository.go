package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/riskibarqy/club-tournaments/internal/domain/tournament"
)

type TournamentRepository struct {
	db *Database
}

func (r *TournamentRepository) List(_ context.Context) ([]tournament.Tournament, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]tournament.Tournament, 0, len(r.db.tournaments))
	for _, t := range r.db.tournaments {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b tournament.Tournament) int {
		switch {
		case a.Date == nil && b.Date != nil:
			return 1
		case a.Date != nil && b.Date == nil:
			return -1
		case a.Date != nil && b.Date != nil:
			if c := b.Date.Compare(*a.Date); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *TournamentRepository) GetByID(_ context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	t, ok := r.db.tournaments[tournamentID]
	if !ok {
		return tournament.Tournament{}, false, nil
	}
	return t, true, nil
}

func (r *TournamentRepository) UpdateStructure(_ context.Context, tournamentID, structure string) (tournament.Tournament, bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	t, ok := r.db.tournaments[tournamentID]
	if !ok {
		return tournament.Tournament{}, false, nil
	}
	t.Structure = structure
	r.db.tournaments[tournamentID] = t
	return t, true, nil
}
