package usecase

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/riskibarqy/club-tournaments/internal/domain/player"
	"github.com/riskibarqy/club-tournaments/internal/domain/team"
	"github.com/riskibarqy/club-tournaments/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type RegistrationInput struct {
	TournamentID string
	TeamName     string
	Players      []string
	Secret       string
}

type RegistrationResult struct {
	Team    team.Team
	Players []player.Player
}

// RegistrationService lets the public add a team behind a shared secret.
// The secret keeps casual spam out; it is not an access control.
type RegistrationService struct {
	store  Store
	secret string
	logger *logging.Logger
}

func NewRegistrationService(store Store, secret string, logger *logging.Logger) *RegistrationService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RegistrationService{
		store:  store,
		secret: secret,
		logger: logger,
	}
}

// ValidateTeamName is the first registration step, run before the secret is asked for.
func (s *RegistrationService) ValidateTeamName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", validationError("team_name", msgMissingTeamName)
	}
	return trimmed, nil
}

func (s *RegistrationService) CheckSecret(secret string) error {
	if secret == "" {
		return validationError("secret", msgMissingSecret)
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.secret)) != 1 {
		return &Error{Kind: ErrUnauthorized, Field: "secret", Message: msgWrongSecret}
	}
	return nil
}

// Register creates the team and its players. A player insert failure leaves the team in place.
func (s *RegistrationService) Register(ctx context.Context, in RegistrationInput) (RegistrationResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RegistrationService.Register", attribute.String("tournament.id", in.TournamentID))
	defer span.End()

	teamName, err := s.ValidateTeamName(in.TeamName)
	if err != nil {
		return RegistrationResult{}, err
	}
	if err := s.CheckSecret(in.Secret); err != nil {
		return RegistrationResult{}, err
	}

	tournamentID := strings.TrimSpace(in.TournamentID)
	if tournamentID == "" {
		return RegistrationResult{}, validationError("tournament_id", msgNoTournament)
	}
	_, exists, err := s.store.Tournaments.GetByID(ctx, tournamentID)
	if err != nil {
		return RegistrationResult{}, storeError(err)
	}
	if !exists {
		return RegistrationResult{}, &Error{Kind: ErrNotFound, Field: "tournament_id", Message: msgTournamentAbsent}
	}

	created, err := s.store.Teams.Create(ctx, team.Team{TournamentID: tournamentID, Name: teamName})
	if err != nil {
		s.logger.WarnContext(ctx, "register team failed", "tournament_id", tournamentID, "error", err)
		return RegistrationResult{}, storeError(err)
	}
	if created.ID == "" {
		return RegistrationResult{}, &Error{Kind: ErrNoRowsAffected, Message: msgRegistrationFail}
	}

	result := RegistrationResult{Team: created}
	if names := player.CleanNames(in.Players); len(names) > 0 {
		players, err := s.store.Players.CreateBatch(ctx, created.ID, names)
		if err != nil {
			s.logger.WarnContext(ctx, "register players failed", "team_id", created.ID, "error", err)
			return result, storeError(err)
		}
		result.Players = players
	}

	s.logger.InfoContext(ctx, "team registered",
		"tournament_id", tournamentID,
		"team_id", created.ID,
		"players", len(result.Players),
	)
	return result, nil
}
