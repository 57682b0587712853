package postgres

import "time"

type teamTableModel struct {
	ID           int64     `db:"id"`
	PublicID     string    `db:"public_id"`
	TournamentID string    `db:"tournament_public_id"`
	Name         string    `db:"name"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type teamInsertModel struct {
	PublicID     string `db:"public_id"`
	TournamentID string `db:"tournament_public_id"`
	Name         string `db:"name"`
}
