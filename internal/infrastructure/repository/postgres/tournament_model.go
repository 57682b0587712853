package postgres

import (
	"database/sql"
	"time"
)

type tournamentTableModel struct {
	ID        int64        `db:"id"`
	PublicID  string       `db:"public_id"`
	Title     string       `db:"title"`
	Date      sql.NullTime `db:"tournament_date"`
	Structure string       `db:"structure"`
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt time.Time    `db:"updated_at"`
}
