package cache

import (
	"context"
	"slices"
	"strings"

	"github.com/riskibarqy/club-tournaments/internal/domain/match"
	"github.com/riskibarqy/club-tournaments/internal/domain/player"
	"github.com/riskibarqy/club-tournaments/internal/domain/team"
	"github.com/riskibarqy/club-tournaments/internal/domain/tournament"
	basecache "github.com/riskibarqy/club-tournaments/internal/platform/cache"
)

const (
	tournamentPrefix = "tournament:"
	teamPrefix       = "team:"
	playerPrefix     = "player:"
	matchPrefix      = "match:"

	tournamentListKey = tournamentPrefix + "list"
)

// TournamentRepository caches reads of next. Like every repository here, writes
// invalidate whether or not they succeed.
type TournamentRepository struct {
	next  tournament.Repository
	cache *basecache.Store
}

func NewTournamentRepository(next tournament.Repository, cache *basecache.Store) *TournamentRepository {
	return &TournamentRepository{next: next, cache: cache}
}

func (r *TournamentRepository) List(ctx context.Context) ([]tournament.Tournament, error) {
	v, err := r.cache.GetOrLoad(ctx, tournamentListKey, func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return slices.Clone(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]tournament.Tournament)
	return slices.Clone(items), nil
}

type tournamentLookup struct {
	item   tournament.Tournament
	exists bool
}

func (r *TournamentRepository) GetByID(ctx context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, tournamentPrefix+"id:"+tournamentID, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, tournamentID)
		if err != nil {
			return nil, err
		}
		return tournamentLookup{item: item, exists: exists}, nil
	})
	if err != nil {
		return tournament.Tournament{}, false, err
	}

	lookup, _ := v.(tournamentLookup)
	return lookup.item, lookup.exists, nil
}

func (r *TournamentRepository) UpdateStructure(ctx context.Context, tournamentID, structure string) (tournament.Tournament, bool, error) {
	item, ok, err := r.next.UpdateStructure(ctx, tournamentID, structure)
	r.cache.Delete(ctx, tournamentListKey)
	r.cache.Delete(ctx, tournamentPrefix+"id:"+tournamentID)
	return item, ok, err
}

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) ListByTournament(ctx context.Context, tournamentID string) ([]team.Team, error) {
	v, err := r.cache.GetOrLoad(ctx, teamListKey(tournamentID), func(ctx context.Context) (any, error) {
		items, err := r.next.ListByTournament(ctx, tournamentID)
		if err != nil {
			return nil, err
		}
		return slices.Clone(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return slices.Clone(items), nil
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) (team.Team, error) {
	created, err := r.next.Create(ctx, item)
	r.cache.Delete(ctx, teamListKey(item.TournamentID))
	return created, err
}

// Delete drops every team, player and match entry since backends cascade differently.
func (r *TeamRepository) Delete(ctx context.Context, teamID string) (bool, error) {
	ok, err := r.next.Delete(ctx, teamID)
	r.cache.DeletePrefix(ctx, teamPrefix)
	r.cache.DeletePrefix(ctx, playerPrefix)
	r.cache.DeletePrefix(ctx, matchPrefix)
	return ok, err
}

func teamListKey(tournamentID string) string {
	return teamPrefix + "list:tournament:" + tournamentID
}

type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) ListByTeams(ctx context.Context, teamIDs []string) ([]player.Player, error) {
	v, err := r.cache.GetOrLoad(ctx, playerListKey(teamIDs), func(ctx context.Context) (any, error) {
		items, err := r.next.ListByTeams(ctx, teamIDs)
		if err != nil {
			return nil, err
		}
		return clonePlayers(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return clonePlayers(items), nil
}

func (r *PlayerRepository) CreateBatch(ctx context.Context, teamID string, names []string) ([]player.Player, error) {
	items, err := r.next.CreateBatch(ctx, teamID, names)
	r.cache.DeletePrefix(ctx, playerPrefix)
	return items, err
}

func (r *PlayerRepository) UpdateName(ctx context.Context, playerID, name string) (player.Player, bool, error) {
	item, ok, err := r.next.UpdateName(ctx, playerID, name)
	r.cache.DeletePrefix(ctx, playerPrefix)
	return item, ok, err
}

func (r *PlayerRepository) UpdateGoals(ctx context.Context, playerID string, goals int) (player.Player, bool, error) {
	item, ok, err := r.next.UpdateGoals(ctx, playerID, goals)
	r.cache.DeletePrefix(ctx, playerPrefix)
	return item, ok, err
}

func (r *PlayerRepository) Delete(ctx context.Context, playerID string) (bool, error) {
	ok, err := r.next.Delete(ctx, playerID)
	r.cache.DeletePrefix(ctx, playerPrefix)
	return ok, err
}

func (r *PlayerRepository) DeleteByTeam(ctx context.Context, teamID string) error {
	err := r.next.DeleteByTeam(ctx, teamID)
	r.cache.DeletePrefix(ctx, playerPrefix)
	return err
}

// playerListKey is independent of the order of teamIDs.
func playerListKey(teamIDs []string) string {
	ids := slices.Clone(teamIDs)
	slices.Sort(ids)
	return playerPrefix + "list:teams:" + strings.Join(ids, ",")
}

func clonePlayers(items []player.Player) []player.Player {
	out := make([]player.Player, len(items))
	for i, p := range items {
		if p.Goals != nil {
			p.Goals = player.IntPtr(*p.Goals)
		}
		out[i] = p
	}
	return out
}

type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) ListByTournament(ctx context.Context, tournamentID string) ([]match.Match, error) {
	v, err := r.cache.GetOrLoad(ctx, matchListKey(tournamentID), func(ctx context.Context) (any, error) {
		items, err := r.next.ListByTournament(ctx, tournamentID)
		if err != nil {
			return nil, err
		}
		return slices.Clone(items), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Match)
	return slices.Clone(items), nil
}

func (r *MatchRepository) Create(ctx context.Context, m match.Match) (match.Match, error) {
	created, err := r.next.Create(ctx, m)
	r.cache.Delete(ctx, matchListKey(m.TournamentID))
	return created, err
}

func (r *MatchRepository) DeleteByTeam(ctx context.Context, teamID string) error {
	err := r.next.DeleteByTeam(ctx, teamID)
	r.cache.DeletePrefix(ctx, matchPrefix)
	return err
}

func matchListKey(tournamentID string) string {
	return matchPrefix + "list:tournament:" + tournamentID
}
