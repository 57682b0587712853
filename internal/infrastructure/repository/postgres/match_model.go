package postgres

import (
	"database/sql"
	"time"
)

type matchTableModel struct {
	ID           int64        `db:"id"`
	PublicID     string       `db:"public_id"`
	TournamentID string       `db:"tournament_public_id"`
	HomeTeamID   string       `db:"home_team_public_id"`
	AwayTeamID   string       `db:"away_team_public_id"`
	HomeGoals    int          `db:"home_goals"`
	AwayGoals    int          `db:"away_goals"`
	PlayedAt     sql.NullTime `db:"played_at"`
	CreatedAt    time.Time    `db:"created_at"`
}

type matchInsertModel struct {
	PublicID     string       `db:"public_id"`
	TournamentID string       `db:"tournament_public_id"`
	HomeTeamID   string       `db:"home_team_public_id"`
	AwayTeamID   string       `db:"away_team_public_id"`
	HomeGoals    int          `db:"home_goals"`
	AwayGoals    int          `db:"away_goals"`
	PlayedAt     sql.NullTime `db:"played_at"`
}
