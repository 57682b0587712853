package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/riskibarqy/club-tournaments/internal/usecase"
)

type workflowAction func(ctx context.Context, wf *usecase.Workflow) error

// runWorkflow applies fn to the session's workflow and answers with the resulting snapshot.
func (h *Handler) runWorkflow(ctx context.Context, w http.ResponseWriter, r *http.Request, action string, fn workflowAction) {
	sessionID := strings.TrimSpace(r.PathValue("sessionID"))
	wf, err := h.sessions.Get(ctx, sessionID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := fn(ctx, wf); err != nil {
		h.logger.WarnContext(ctx, "workflow action failed", "action", action, "session_id", sessionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(ctx, sessionID, wf.Snapshot()))
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateSession")
	defer span.End()

	sessionID, wf, err := h.sessions.Create(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "create workflow session failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, snapshotToDTO(ctx, sessionID, wf.Snapshot()))
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSession")
	defer span.End()

	h.runWorkflow(ctx, w, r, "get", func(context.Context, *usecase.Workflow) error {
		return nil
	})
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteSession")
	defer span.End()

	sessionID := strings.TrimSpace(r.PathValue("sessionID"))
	if err := h.sessions.Delete(ctx, sessionID); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"sessionId": sessionID, "status": "closed"})
}

func (h *Handler) SelectTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SelectTournament")
	defer span.End()

	h.runWorkflow(ctx, w, r, "select_tournament", func(ctx context.Context, wf *usecase.Workflow) error {
		var req selectTournamentRequest
		if err := h.decodeRequest(ctx, w, r, &req); err != nil {
			return err
		}
		return wf.SelectTournament(ctx, req.TournamentID)
	})
}

func (h *Handler) OpenAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.OpenAdmin")
	defer span.End()

	h.runWorkflow(ctx, w, r, "open_admin", func(ctx context.Context, wf *usecase.Workflow) error {
		var req selectTournamentRequest
		if err := h.decodeRequest(ctx, w, r, &req); err != nil {
			return err
		}
		return wf.OpenAdmin(ctx, req.TournamentID)
	})
}

func (h *Handler) CloseAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CloseAdmin")
	defer span.End()

	h.runWorkflow(ctx, w, r, "close_admin", func(ctx context.Context, wf *usecase.Workflow) error {
		return wf.CloseAdmin(ctx)
	})
}

func (h *Handler) ToggleTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ToggleTeam")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	h.runWorkflow(ctx, w, r, "toggle_team", func(_ context.Context, wf *usecase.Workflow) error {
		return wf.ToggleTeam(teamID)
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Login")
	defer span.End()

	h.runWorkflow(ctx, w, r, "login", func(ctx context.Context, wf *usecase.Workflow) error {
		var req loginRequest
		if err := h.decodeRequest(ctx, w, r, &req); err != nil {
			return err
		}
		return wf.Authenticate(ctx, req.Email, req.Password)
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Logout")
	defer span.End()

	h.runWorkflow(ctx, w, r, "logout", func(ctx context.Context, wf *usecase.Workflow) error {
		return wf.Logout(ctx)
	})
}

func (h *Handler) SetStructureDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetStructureDraft")
	defer span.End()

	h.runWorkflow(ctx, w, r, "structure_draft", func(ctx context.Context, wf *usecase.Workflow) error {
		var req structureDraftRequest
		if err := h.decodeRequest(ctx, w, r, &req); err != nil {
			return err
		}
		wf.SetStructureDraft(req.Structure)
		return nil
	})
}

func (h *Handler) SetPlayerDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetPlayerDraft")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	h.runWorkflow(ctx, w, r, "player_draft", func(ctx context.Context, wf *usecase.Workflow) error {
		var req playerDraftRequest
		if err := h.decodeRequest(ctx, w, r, &req); err != nil {
			return err
		}
		applyPlayerDraft(wf, playerID, req)
		return nil
	})
}

func (h *Handler) RenamePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RenamePlayer")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	h.runWorkflow(ctx, w, r, "rename_player", func(ctx context.Context, wf *usecase.Workflow) error {
		var req playerDraftRequest
		if err := h.decodeRequest(ctx, w, r, &req); err != nil {
			return err
		}
		applyPlayerDraft(wf, playerID, playerDraftRequest{Name: req.Name})
		return wf.RenamePlayer(ctx, playerID)
	})
}

func (h *Handler) UpdatePlayerGoals(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePlayerGoals")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	h.runWorkflow(ctx, w, r, "update_player_goals", func(ctx context.Context, wf *usecase.Workflow) error {
		var req playerDraftRequest
		if err := h.decodeRequest(ctx, w, r, &req); err != nil {
			return err
		}
		applyPlayerDraft(wf, playerID, playerDraftRequest{Goals: req.Goals})
		return wf.UpdatePlayerGoals(ctx, playerID)
	})
}

func (h *Handler) UpdateStructure(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateStructure")
	defer span.End()

	h.runWorkflow(ctx, w, r, "update_structure", func(ctx context.Context, wf *usecase.Workflow) error {
		var req structureCommitRequest
		if err := h.decodeRequest(ctx, w, r, &req); err != nil {
			return err
		}
		if req.Structure != nil {
			wf.SetStructureDraft(*req.Structure)
		}
		return wf.UpdateStructure(ctx)
	})
}

func (h *Handler) AddMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddMatch")
	defer span.End()

	h.runWorkflow(ctx, w, r, "add_match", func(ctx context.Context, wf *usecase.Workflow) error {
		var req addMatchRequest
		if err := h.decodeRequest(ctx, w, r, &req); err != nil {
			return err
		}
		return wf.AddMatch(ctx, usecase.MatchForm{
			HomeTeamID: req.HomeTeamID,
			AwayTeamID: req.AwayTeamID,
			HomeGoals:  req.HomeGoals,
			AwayGoals:  req.AwayGoals,
		})
	})
}

func (h *Handler) RequestDeletion(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RequestDeletion")
	defer span.End()

	h.runWorkflow(ctx, w, r, "request_deletion", func(ctx context.Context, wf *usecase.Workflow) error {
		var req deletionRequest
		if err := h.decodeRequest(ctx, w, r, &req); err != nil {
			return err
		}
		if usecase.PendingDeleteKind(req.Kind) == usecase.PendingDeletePlayer {
			return wf.RequestDeletePlayer(req.TeamID, req.PlayerID)
		}
		return wf.RequestDeleteTeam(req.TeamID)
	})
}

func (h *Handler) ConfirmDeletion(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ConfirmDeletion")
	defer span.End()

	h.runWorkflow(ctx, w, r, "confirm_deletion", func(ctx context.Context, wf *usecase.Workflow) error {
		return wf.ConfirmDelete(ctx)
	})
}

func (h *Handler) CancelDeletion(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelDeletion")
	defer span.End()

	h.runWorkflow(ctx, w, r, "cancel_deletion", func(_ context.Context, wf *usecase.Workflow) error {
		wf.CancelDelete()
		return nil
	})
}

func (h *Handler) BeginRegistration(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BeginRegistration")
	defer span.End()

	h.runWorkflow(ctx, w, r, "begin_registration", func(ctx context.Context, wf *usecase.Workflow) error {
		var req beginRegistrationRequest
		if err := h.decodeRequest(ctx, w, r, &req); err != nil {
			return err
		}
		return wf.BeginRegistration(req.TeamName, req.Players)
	})
}

func (h *Handler) SubmitRegistration(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitRegistration")
	defer span.End()

	h.runWorkflow(ctx, w, r, "submit_registration", func(ctx context.Context, wf *usecase.Workflow) error {
		var req submitRegistrationRequest
		if err := h.decodeRequest(ctx, w, r, &req); err != nil {
			return err
		}
		return wf.SubmitRegistration(ctx, req.Secret)
	})
}

func (h *Handler) CancelRegistration(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelRegistration")
	defer span.End()

	h.runWorkflow(ctx, w, r, "cancel_registration", func(_ context.Context, wf *usecase.Workflow) error {
		wf.CancelRegistration()
		return nil
	})
}

func applyPlayerDraft(wf *usecase.Workflow, playerID string, req playerDraftRequest) {
	if req.Name != nil {
		wf.SetPlayerNameDraft(playerID, *req.Name)
	}
	if req.Goals != nil {
		wf.SetPlayerGoalsDraft(playerID, *req.Goals)
	}
}
