package postgres

import (
	"database/sql"
	"time"
)

type playerTableModel struct {
	ID        int64         `db:"id"`
	PublicID  string        `db:"public_id"`
	TeamID    string        `db:"team_public_id"`
	Name      string        `db:"name"`
	Goals     sql.NullInt64 `db:"goals"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
}

type playerInsertModel struct {
	PublicID string `db:"public_id"`
	TeamID   string `db:"team_public_id"`
	Name     string `db:"name"`
	Goals    int    `db:"goals"`
}
