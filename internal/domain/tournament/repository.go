package tournament

import "context"

// Repository describes tournament persistence needs from use cases.
type Repository interface {
	// List returns tournaments newest first (by date, undated last).
	List(ctx context.Context) ([]Tournament, error)
	GetByID(ctx context.Context, tournamentID string) (Tournament, bool, error)
	UpdateStructure(ctx context.Context, tournamentID, structure string) (Tournament, bool, error)
}
