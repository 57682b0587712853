package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/riskibarqy/club-tournaments/internal/domain/player"
)

type PlayerRepository struct {
	db *Database
}

func (r *PlayerRepository) ListByTeams(_ context.Context, teamIDs []string) ([]player.Player, error) {
	if len(teamIDs) == 0 {
		return []player.Player{}, nil
	}
	wanted := make(map[string]struct{}, len(teamIDs))
	for _, teamID := range teamIDs {
		wanted[teamID] = struct{}{}
	}

	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]player.Player, 0)
	for _, p := range r.db.players {
		if _, ok := wanted[p.TeamID]; ok {
			out = append(out, clonePlayer(p))
		}
	}
	slices.SortFunc(out, func(a, b player.Player) int {
		if c := compareNames(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *PlayerRepository) CreateBatch(_ context.Context, teamID string, names []string) ([]player.Player, error) {
	names = player.CleanNames(names)
	if len(names) == 0 {
		return []player.Player{}, nil
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.teams[teamID]; !ok {
		return nil, fmt.Errorf("insert players: team %s: %w", teamID, ErrForeignKeyViolation)
	}

	out := make([]player.Player, 0, len(names))
	for _, name := range names {
		newID, err := r.db.playerIDs.NewID()
		if err != nil {
			return nil, fmt.Errorf("generate player id: %w", err)
		}
		out = append(out, player.Player{ID: newID, TeamID: teamID, Name: name, Goals: player.IntPtr(0)})
	}
	for _, p := range out {
		r.db.players[p.ID] = clonePlayer(p)
	}
	return out, nil
}

func (r *PlayerRepository) UpdateName(_ context.Context, playerID, name string) (player.Player, bool, error) {
	return r.update(playerID, func(p *player.Player) { p.Name = name })
}

func (r *PlayerRepository) UpdateGoals(_ context.Context, playerID string, goals int) (player.Player, bool, error) {
	if goals < 0 {
		return player.Player{}, false, fmt.Errorf("update player goals: %d is negative", goals)
	}
	return r.update(playerID, func(p *player.Player) { p.Goals = player.IntPtr(goals) })
}

func (r *PlayerRepository) update(playerID string, apply func(p *player.Player)) (player.Player, bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.players[playerID]
	if !ok {
		return player.Player{}, false, nil
	}
	apply(&p)
	r.db.players[playerID] = p
	return clonePlayer(p), true, nil
}

func (r *PlayerRepository) Delete(_ context.Context, playerID string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.players[playerID]; !ok {
		return false, nil
	}
	delete(r.db.players, playerID)
	return true, nil
}

func (r *PlayerRepository) DeleteByTeam(_ context.Context, teamID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for playerID, p := range r.db.players {
		if p.TeamID == teamID {
			delete(r.db.players, playerID)
		}
	}
	return nil
}
