package httpapi

import "net/http"

const sessionPath = "/v1/sessions/{sessionID}"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicTournamentRoutes(mux *http.ServeMux, handler *Handler, limiter RateLimiter) {
	mux.HandleFunc("GET /v1/tournaments", handler.ListTournaments)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}", handler.GetTournament)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/standings", handler.ListStandings)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/topscorers", handler.ListTopScorers)
	mux.Handle("POST /v1/tournaments/{tournamentID}/registrations", RateLimit(limiter, http.HandlerFunc(handler.RegisterTeam)))
}

func registerWorkflowSessionRoutes(mux *http.ServeMux, handler *Handler, limiter RateLimiter) {
	mux.HandleFunc("POST /v1/sessions", handler.CreateSession)
	mux.HandleFunc("GET "+sessionPath, handler.GetSession)
	mux.HandleFunc("DELETE "+sessionPath, handler.DeleteSession)

	mux.HandleFunc("POST "+sessionPath+"/select", handler.SelectTournament)
	mux.HandleFunc("POST "+sessionPath+"/admin/open", handler.OpenAdmin)
	mux.HandleFunc("POST "+sessionPath+"/admin/close", handler.CloseAdmin)
	mux.HandleFunc("POST "+sessionPath+"/teams/{teamID}/toggle", handler.ToggleTeam)

	mux.HandleFunc("POST "+sessionPath+"/login", handler.Login)
	mux.HandleFunc("POST "+sessionPath+"/logout", handler.Logout)

	mux.HandleFunc("PUT "+sessionPath+"/drafts/structure", handler.SetStructureDraft)
	mux.HandleFunc("PUT "+sessionPath+"/drafts/players/{playerID}", handler.SetPlayerDraft)
	mux.HandleFunc("POST "+sessionPath+"/players/{playerID}/rename", handler.RenamePlayer)
	mux.HandleFunc("POST "+sessionPath+"/players/{playerID}/goals", handler.UpdatePlayerGoals)
	mux.HandleFunc("POST "+sessionPath+"/structure", handler.UpdateStructure)
	mux.HandleFunc("POST "+sessionPath+"/matches", handler.AddMatch)

	mux.HandleFunc("POST "+sessionPath+"/deletions", handler.RequestDeletion)
	mux.HandleFunc("POST "+sessionPath+"/deletions/confirm", handler.ConfirmDeletion)
	mux.HandleFunc("DELETE "+sessionPath+"/deletions", handler.CancelDeletion)

	mux.HandleFunc("POST "+sessionPath+"/registration", handler.BeginRegistration)
	mux.Handle("POST "+sessionPath+"/registration/submit", RateLimit(limiter, http.HandlerFunc(handler.SubmitRegistration)))
	mux.HandleFunc("DELETE "+sessionPath+"/registration", handler.CancelRegistration)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	if verifier == nil {
		return
	}
	mux.Handle("GET /v1/auth/me", RequireAuth(verifier, http.HandlerFunc(handler.Me)))
}
