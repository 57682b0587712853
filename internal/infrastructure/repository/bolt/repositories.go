package bolt

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/asdine/storm/q"
	"github.com/riskibarqy/club-tournaments/internal/domain/match"
	"github.com/riskibarqy/club-tournaments/internal/domain/player"
	"github.com/riskibarqy/club-tournaments/internal/domain/team"
	"github.com/riskibarqy/club-tournaments/internal/domain/tournament"
)

type TournamentRepository struct {
	db *Database
}

func (r *TournamentRepository) List(_ context.Context) ([]tournament.Tournament, error) {
	var records []tournamentRecord
	if err := r.db.db.All(&records); err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}

	out := make([]tournament.Tournament, 0, len(records))
	for _, rec := range records {
		out = append(out, tournamentFromRecord(rec))
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
	var rec tournamentRecord
	if err := r.db.db.One("ID", tournamentID, &rec); err != nil {
		if isNotFound(err) {
			return tournament.Tournament{}, false, nil
		}
		return tournament.Tournament{}, false, fmt.Errorf("get tournament by id: %w", err)
	}
	return tournamentFromRecord(rec), true, nil
}

func (r *TournamentRepository) UpdateStructure(_ context.Context, tournamentID, structure string) (tournament.Tournament, bool, error) {
	tx, err := r.db.db.Begin(true)
	if err != nil {
		return tournament.Tournament{}, false, fmt.Errorf("begin update tournament structure tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var rec tournamentRecord
	if err := tx.One("ID", tournamentID, &rec); err != nil {
		if isNotFound(err) {
			return tournament.Tournament{}, false, nil
		}
		return tournament.Tournament{}, false, fmt.Errorf("get tournament for structure update: %w", err)
	}
	rec.Structure = structure
	if err := tx.Save(&rec); err != nil {
		return tournament.Tournament{}, false, fmt.Errorf("update tournament structure: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return tournament.Tournament{}, false, fmt.Errorf("commit update tournament structure tx: %w", err)
	}
	return tournamentFromRecord(rec), true, nil
}

type TeamRepository struct {
	db *Database
}

func (r *TeamRepository) ListByTournament(_ context.Context, tournamentID string) ([]team.Team, error) {
	var records []teamRecord
	if err := r.db.db.Find("TournamentID", tournamentID, &records); err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("select teams by tournament: %w", err)
	}

	out := make([]team.Team, 0, len(records))
	for _, rec := range records {
		out = append(out, teamFromRecord(rec))
	}
	slices.SortFunc(out, func(a, b team.Team) int {
		if c := compareNames(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *TeamRepository) Create(_ context.Context, item team.Team) (team.Team, error) {
	item.Name = strings.TrimSpace(item.Name)
	if err := item.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("validate team: %w", err)
	}

	tx, err := r.db.db.Begin(true)
	if err != nil {
		return team.Team{}, fmt.Errorf("begin create team tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var owner tournamentRecord
	if err := tx.One("ID", item.TournamentID, &owner); err != nil {
		if isNotFound(err) {
			return team.Team{}, fmt.Errorf("create team: unknown tournament %s", item.TournamentID)
		}
		return team.Team{}, fmt.Errorf("get tournament for team: %w", err)
	}

	item.ID, err = r.db.teamIDs.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate team id: %w", err)
	}
	rec := teamToRecord(item)
	if err := tx.Save(&rec); err != nil {
		return team.Team{}, fmt.Errorf("create team: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return team.Team{}, fmt.Errorf("commit create team tx: %w", err)
	}
	return item, nil
}

// Delete removes the team together with its players. Matches are left to the caller.
func (r *TeamRepository) Delete(_ context.Context, teamID string) (bool, error) {
	tx, err := r.db.db.Begin(true)
	if err != nil {
		return false, fmt.Errorf("begin delete team tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var rec teamRecord
	if err := tx.One("ID", teamID, &rec); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("get team for delete: %w", err)
	}
	if err := tx.Select(q.Eq("TeamID", teamID)).Delete(new(playerRecord)); err != nil && !isNotFound(err) {
		return false, fmt.Errorf("delete team players: %w", err)
	}
	if err := tx.DeleteStruct(&rec); err != nil {
		return false, fmt.Errorf("delete team: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete team tx: %w", err)
	}
	return true, nil
}

type PlayerRepository struct {
	db *Database
}

func (r *PlayerRepository) ListByTeams(_ context.Context, teamIDs []string) ([]player.Player, error) {
	if len(teamIDs) == 0 {
		return []player.Player{}, nil
	}

	var records []playerRecord
	if err := r.db.db.Select(q.In("TeamID", teamIDs)).Find(&records); err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("select players by teams: %w", err)
	}

	out := make([]player.Player, 0, len(records))
	for _, rec := range records {
		out = append(out, playerFromRecord(rec))
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

	tx, err := r.db.db.Begin(true)
	if err != nil {
		return nil, fmt.Errorf("begin create players tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var owner teamRecord
	if err := tx.One("ID", teamID, &owner); err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("create players: unknown team %s", teamID)
		}
		return nil, fmt.Errorf("get team for players: %w", err)
	}

	out := make([]player.Player, 0, len(names))
	for _, name := range names {
		playerID, err := r.db.playerIDs.NewID()
		if err != nil {
			return nil, fmt.Errorf("generate player id: %w", err)
		}
		rec := playerRecord{ID: playerID, TeamID: teamID, Name: name, Goals: player.IntPtr(0)}
		if err := tx.Save(&rec); err != nil {
			return nil, fmt.Errorf("create player %q: %w", name, err)
		}
		out = append(out, playerFromRecord(rec))
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create players tx: %w", err)
	}
	return out, nil
}

func (r *PlayerRepository) UpdateName(_ context.Context, playerID, name string) (player.Player, bool, error) {
	return r.update(playerID, "update player name", func(rec *playerRecord) {
		rec.Name = name
	})
}

func (r *PlayerRepository) UpdateGoals(_ context.Context, playerID string, goals int) (player.Player, bool, error) {
	if goals < 0 {
		return player.Player{}, false, fmt.Errorf("update player goals: goals must be non-negative")
	}
	return r.update(playerID, "update player goals", func(rec *playerRecord) {
		rec.Goals = player.IntPtr(goals)
	})
}

func (r *PlayerRepository) update(playerID, op string, apply func(*playerRecord)) (player.Player, bool, error) {
	tx, err := r.db.db.Begin(true)
	if err != nil {
		return player.Player{}, false, fmt.Errorf("begin %s tx: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var rec playerRecord
	if err := tx.One("ID", playerID, &rec); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("%s: %w", op, err)
	}
	apply(&rec)
	if err := tx.Save(&rec); err != nil {
		return player.Player{}, false, fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return player.Player{}, false, fmt.Errorf("commit %s tx: %w", op, err)
	}
	return playerFromRecord(rec), true, nil
}

func (r *PlayerRepository) Delete(_ context.Context, playerID string) (bool, error) {
	err := r.db.db.DeleteStruct(&playerRecord{ID: playerID})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("delete player: %w", err)
	}
	return true, nil
}

func (r *PlayerRepository) DeleteByTeam(_ context.Context, teamID string) error {
	if err := r.db.db.Select(q.Eq("TeamID", teamID)).Delete(new(playerRecord)); err != nil && !isNotFound(err) {
		return fmt.Errorf("delete players by team: %w", err)
	}
	return nil
}

type MatchRepository struct {
	db *Database
}

func (r *MatchRepository) ListByTournament(_ context.Context, tournamentID string) ([]match.Match, error) {
	var records []matchRecord
	if err := r.db.db.Find("TournamentID", tournamentID, &records); err != nil && !isNotFound(err) {
		return nil, fmt.Errorf("select matches by tournament: %w", err)
	}

	out := make([]match.Match, 0, len(records))
	for _, rec := range records {
		out = append(out, matchFromRecord(rec))
	}
	slices.SortFunc(out, func(a, b match.Match) int {
		switch {
		case a.PlayedAt == nil && b.PlayedAt != nil:
			return 1
		case a.PlayedAt != nil && b.PlayedAt == nil:
			return -1
		case a.PlayedAt != nil && b.PlayedAt != nil:
			if c := a.PlayedAt.Compare(*b.PlayedAt); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *MatchRepository) Create(_ context.Context, m match.Match) (match.Match, error) {
	if err := m.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("validate match: %w", err)
	}

	tx, err := r.db.db.Begin(true)
	if err != nil {
		return match.Match{}, fmt.Errorf("begin create match tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, teamID := range []string{m.HomeTeamID, m.AwayTeamID} {
		var owner teamRecord
		if err := tx.One("ID", teamID, &owner); err != nil {
			if isNotFound(err) {
				return match.Match{}, fmt.Errorf("create match: unknown team %s", teamID)
			}
			return match.Match{}, fmt.Errorf("get team for match: %w", err)
		}
	}

	m.ID, err = r.db.matchIDs.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate match id: %w", err)
	}
	rec := matchToRecord(m)
	if err := tx.Save(&rec); err != nil {
		return match.Match{}, fmt.Errorf("create match: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return match.Match{}, fmt.Errorf("commit create match tx: %w", err)
	}
	return m, nil
}

func (r *MatchRepository) DeleteByTeam(_ context.Context, teamID string) error {
	err := r.db.db.Select(q.Or(
		q.Eq("HomeTeamID", teamID),
		q.Eq("AwayTeamID", teamID),
	)).Delete(new(matchRecord))
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("delete matches by team: %w", err)
	}
	return nil
}
