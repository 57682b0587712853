package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/club-tournaments/internal/platform/logging"
	"github.com/riskibarqy/club-tournaments/internal/usecase"
)

const maxRequestBodyBytes = 64 << 10

type Handler struct {
	tournaments   *usecase.TournamentService
	registrations *usecase.RegistrationService
	sessions      *usecase.SessionRegistry
	logger        *logging.Logger
	validator     *validator.Validate
}

func NewHandler(
	tournaments *usecase.TournamentService,
	registrations *usecase.RegistrationService,
	sessions *usecase.SessionRegistry,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		tournaments:   tournaments,
		registrations: registrations,
		sessions:      sessions,
		logger:        logger,
		validator:     validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTournaments")
	defer span.End()

	items, err := h.tournaments.ListTournaments(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list tournaments failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tournamentsToDTO(items))
}

func (h *Handler) GetTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTournament")
	defer span.End()

	tournamentID := strings.TrimSpace(r.PathValue("tournamentID"))
	model, err := h.tournaments.LoadTournament(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "load tournament failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, readModelToDTO(ctx, model))
}

func (h *Handler) ListStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStandings")
	defer span.End()

	tournamentID := strings.TrimSpace(r.PathValue("tournamentID"))
	model, err := h.tournaments.LoadTournament(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "list standings failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rankingToDTO(model.Ranking))
}

func (h *Handler) ListTopScorers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTopScorers")
	defer span.End()

	tournamentID := strings.TrimSpace(r.PathValue("tournamentID"))
	model, err := h.tournaments.LoadTournament(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "list top scorers failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, topScorersToDTO(model.TopScorers))
}

func (h *Handler) RegisterTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RegisterTeam")
	defer span.End()

	tournamentID := strings.TrimSpace(r.PathValue("tournamentID"))
	var req registrationRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	if _, err := h.tournaments.GetTournament(ctx, tournamentID); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.registrations.Register(ctx, usecase.RegistrationInput{
		TournamentID: tournamentID,
		TeamName:     req.TeamName,
		Players:      req.Players,
		Secret:       req.Secret,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "register team failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, registrationResultDTO{
		Team: teamToDTO(result.Team, result.Players),
	})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Me")
	defer span.End()

	session, ok := sessionFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: session is missing from request context", usecase.ErrUnauthorized))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(session))
}

// decodeRequest reads a JSON body into out and validates it. An empty body decodes to the zero value.
func (h *Handler) decodeRequest(ctx context.Context, w http.ResponseWriter, r *http.Request, out any) error {
	if r.ContentLength != 0 {
		decoder := sonic.ConfigDefault.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
		}
	}
	return h.validateRequest(ctx, out)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
