package memory

import (
	"cmp"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/club-tournaments/internal/domain/match"
	"github.com/riskibarqy/club-tournaments/internal/domain/player"
	"github.com/riskibarqy/club-tournaments/internal/domain/team"
	"github.com/riskibarqy/club-tournaments/internal/domain/tournament"
	"github.com/riskibarqy/club-tournaments/internal/platform/id"
)

// ErrForeignKeyViolation is returned in strict mode when a write would orphan rows.
var ErrForeignKeyViolation = errors.New("violates foreign key constraint")

// Database is an in-process store shared by the memory repositories.
type Database struct {
	mu          sync.RWMutex
	tournaments map[string]tournament.Tournament
	teams       map[string]team.Team
	players     map[string]player.Player
	matches     map[string]match.Match

	strictForeignKeys bool
	teamIDs           id.Generator
	playerIDs         id.Generator
	matchIDs          id.Generator
}

type Option func(*Database)

// WithStrictForeignKeys makes team deletes fail while players or matches still reference
// the team instead of cascading.
func WithStrictForeignKeys(strict bool) Option {
	return func(db *Database) {
		db.strictForeignKeys = strict
	}
}

func NewDatabase(seed Seed, opts ...Option) *Database {
	db := &Database{
		tournaments: make(map[string]tournament.Tournament, len(seed.Tournaments)),
		teams:       make(map[string]team.Team, len(seed.Teams)),
		players:     make(map[string]player.Player, len(seed.Players)),
		matches:     make(map[string]match.Match, len(seed.Matches)),
		teamIDs:     id.NewXIDGenerator("team_"),
		playerIDs:   id.NewXIDGenerator("player_"),
		matchIDs:    id.NewXIDGenerator("match_"),
	}
	for _, opt := range opts {
		opt(db)
	}

	for _, t := range seed.Tournaments {
		db.tournaments[t.ID] = t
	}
	for _, t := range seed.Teams {
		db.teams[t.ID] = t
	}
	for _, p := range seed.Players {
		db.players[p.ID] = clonePlayer(p)
	}
	for _, m := range seed.Matches {
		db.matches[m.ID] = m
	}
	return db
}

func (db *Database) Tournaments() *TournamentRepository {
	return &TournamentRepository{db: db}
}

func (db *Database) Teams() *TeamRepository {
	return &TeamRepository{db: db}
}

func (db *Database) Players() *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (db *Database) Matches() *MatchRepository {
	return &MatchRepository{db: db}
}

func clonePlayer(p player.Player) player.Player {
	if p.Goals != nil {
		p.Goals = player.IntPtr(*p.Goals)
	}
	return p
}

func compareNames(a, b string) int {
	return cmp.Compare(strings.ToLower(a), strings.ToLower(b))
}

// compareTimesNullsLast orders nil times after every set time.
func compareTimesNullsLast(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Compare(*b)
	}
}
