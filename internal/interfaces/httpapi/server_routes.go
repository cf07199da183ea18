package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/matches/{matchID}/result", handler.GetMatchResult)
	mux.HandleFunc("POST /v1/results/batch", handler.GetMultipleResults)

	mux.HandleFunc("POST /v1/predictions", handler.SubmitPrediction)
	mux.HandleFunc("GET /v1/users/{userID}/predictions", handler.ListUserPredictions)
	mux.HandleFunc("GET /v1/users/{userID}/predictions/{matchID}", handler.GetPrediction)

	mux.HandleFunc("GET /v1/leagues/{leagueID}/leaderboard", handler.GetLeagueLeaderboard)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/leaderboard/users/{userID}", handler.GetUserPosition)

	mux.HandleFunc("GET /v1/users/{userID}/statistics", handler.GetUserStatistics)
	mux.HandleFunc("GET /v1/users/{userID}/achievements", handler.GetUserAchievements)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/update-results", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunUpdateRecentResultsJob)))
	mux.Handle("POST /v1/internal/jobs/process-result", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunProcessMatchResultJob)))
	mux.Handle("POST /v1/internal/jobs/recalculate-leaderboard", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRecalculateLeaderboardJob)))
	mux.Handle("POST /v1/internal/jobs/sync-schedule", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncScheduleJob)))
}
