package bolt

import (
	"cmp"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asdine/storm"
	"github.com/riskibarqy/club-tournaments/internal/domain/match"
	"github.com/riskibarqy/club-tournaments/internal/domain/player"
	"github.com/riskibarqy/club-tournaments/internal/domain/team"
	"github.com/riskibarqy/club-tournaments/internal/domain/tournament"
	"github.com/riskibarqy/club-tournaments/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/club-tournaments/internal/platform/id"
	bbolt "go.etcd.io/bbolt"
)

const defaultOpenTimeout = 2 * time.Second

// Database is a file-backed store kept in a single bbolt file through storm.
type Database struct {
	db        *storm.DB
	teamIDs   id.Generator
	playerIDs id.Generator
	matchIDs  id.Generator
}

// Open opens or creates the database file at path.
func Open(path string) (*Database, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("bolt path is required")
	}

	db, err := storm.Open(path, storm.BoltOptions(0o600, &bbolt.Options{Timeout: defaultOpenTimeout}))
	if err != nil {
		return nil, fmt.Errorf("open bolt store %s: %w", path, err)
	}
	for _, record := range []any{&tournamentRecord{}, &teamRecord{}, &playerRecord{}, &matchRecord{}} {
		if err := db.Init(record); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init bolt bucket: %w", err)
		}
	}

	return &Database{
		db:        db,
		teamIDs:   id.NewXIDGenerator("team_"),
		playerIDs: id.NewXIDGenerator("player_"),
		matchIDs:  id.NewXIDGenerator("match_"),
	}, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) Tournaments() *TournamentRepository {
	return &TournamentRepository{db: d}
}

func (d *Database) Teams() *TeamRepository {
	return &TeamRepository{db: d}
}

func (d *Database) Players() *PlayerRepository {
	return &PlayerRepository{db: d}
}

func (d *Database) Matches() *MatchRepository {
	return &MatchRepository{db: d}
}

// BootstrapSeed writes seed when the store holds no tournament yet.
func (d *Database) BootstrapSeed(seed memory.Seed) error {
	var existing []tournamentRecord
	if err := d.db.All(&existing, storm.Limit(1)); err != nil && !isNotFound(err) {
		return fmt.Errorf("count tournaments for bootstrap seed: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	tx, err := d.db.Begin(true)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, t := range seed.Tournaments {
		rec := tournamentToRecord(t)
		if err := tx.Save(&rec); err != nil {
			return fmt.Errorf("seed tournament %s: %w", t.ID, err)
		}
	}
	for _, t := range seed.Teams {
		rec := teamToRecord(t)
		if err := tx.Save(&rec); err != nil {
			return fmt.Errorf("seed team %s: %w", t.ID, err)
		}
	}
	for _, p := range seed.Players {
		rec := playerToRecord(p)
		if err := tx.Save(&rec); err != nil {
			return fmt.Errorf("seed player %s: %w", p.ID, err)
		}
	}
	for _, m := range seed.Matches {
		rec := matchToRecord(m)
		if err := tx.Save(&rec); err != nil {
			return fmt.Errorf("seed match %s: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}

type tournamentRecord struct {
	ID        string `storm:"id"`
	Title     string
	Date      *time.Time
	Structure string
}

type teamRecord struct {
	ID           string `storm:"id"`
	TournamentID string `storm:"index"`
	Name         string
}

type playerRecord struct {
	ID     string `storm:"id"`
	TeamID string `storm:"index"`
	Name   string
	Goals  *int
}

type matchRecord struct {
	ID           string `storm:"id"`
	TournamentID string `storm:"index"`
	HomeTeamID   string `storm:"index"`
	AwayTeamID   string `storm:"index"`
	HomeGoals    int
	AwayGoals    int
	PlayedAt     *time.Time
}

func isNotFound(err error) bool {
	return errors.Is(err, storm.ErrNotFound)
}

func compareNames(a, b string) int {
	return cmp.Compare(strings.ToLower(a), strings.ToLower(b))
}

func tournamentToRecord(t tournament.Tournament) tournamentRecord {
	return tournamentRecord{ID: t.ID, Title: t.Title, Date: t.Date, Structure: t.Structure}
}

func tournamentFromRecord(r tournamentRecord) tournament.Tournament {
	return tournament.Tournament{ID: r.ID, Title: r.Title, Date: r.Date, Structure: r.Structure}
}

func teamToRecord(t team.Team) teamRecord {
	return teamRecord{ID: t.ID, TournamentID: t.TournamentID, Name: t.Name}
}

func teamFromRecord(r teamRecord) team.Team {
	return team.Team{ID: r.ID, TournamentID: r.TournamentID, Name: r.Name}
}

func playerToRecord(p player.Player) playerRecord {
	rec := playerRecord{ID: p.ID, TeamID: p.TeamID, Name: p.Name}
	if p.Goals != nil {
		rec.Goals = player.IntPtr(*p.Goals)
	}
	return rec
}

func playerFromRecord(r playerRecord) player.Player {
	return player.Player{ID: r.ID, TeamID: r.TeamID, Name: r.Name, Goals: r.Goals}
}

func matchToRecord(m match.Match) matchRecord {
	return matchRecord{
		ID:           m.ID,
		TournamentID: m.TournamentID,
		HomeTeamID:   m.HomeTeamID,
		AwayTeamID:   m.AwayTeamID,
		HomeGoals:    m.HomeGoals,
		AwayGoals:    m.AwayGoals,
		PlayedAt:     m.PlayedAt,
	}
}

func matchFromRecord(r matchRecord) match.Match {
	return match.Match{
		ID:           r.ID,
		TournamentID: r.TournamentID,
		HomeTeamID:   r.HomeTeamID,
		AwayTeamID:   r.AwayTeamID,
		HomeGoals:    r.HomeGoals,
		AwayGoals:    r.AwayGoals,
		PlayedAt:     r.PlayedAt,
	}
}
