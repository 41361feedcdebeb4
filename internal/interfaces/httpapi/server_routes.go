package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/competitions", handler.ListCompetitions)
	mux.HandleFunc("GET /v1/competitions/{competitionID}", handler.GetCompetition)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/participants", handler.ListParticipants)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/standings", handler.ListStandings)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedCompetitionRoutes(mux, handler, verifier)
	registerAuthorizedEntryRoutes(mux, handler, verifier)
	registerAuthorizedNotificationRoutes(mux, handler, verifier)
	registerAuthorizedTokenRoutes(mux, handler, verifier)
	registerAuthorizedChatRoutes(mux, handler, verifier)
	registerAuthorizedAdminRoutes(mux, handler, verifier)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/start-pending", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunStartPendingJob)))
	mux.Handle("POST /v1/internal/jobs/finalize-expired", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunFinalizeExpiredJob)))
	mux.Handle("POST /v1/internal/jobs/daily-reminders", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunDailyRemindersJob)))
	mux.Handle("POST /v1/internal/jobs/drain-notifications", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunDrainNotificationsJob)))
}

func registerAuthorizedCompetitionRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/competitions", RequireAuth(verifier, http.HandlerFunc(handler.CreateCompetition)))
	mux.Handle("GET /v1/competitions/me", RequireAuth(verifier, http.HandlerFunc(handler.ListMyCompetitions)))
	mux.Handle("POST /v1/competitions/{competitionID}/join", RequireAuth(verifier, http.HandlerFunc(handler.JoinCompetition)))
	mux.Handle("POST /v1/competitions/{competitionID}/leave", RequireAuth(verifier, http.HandlerFunc(handler.LeaveCompetition)))
}

func registerAuthorizedEntryRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/entries", RequireAuth(verifier, http.HandlerFunc(handler.LogEntry)))
	mux.Handle("GET /v1/entries", RequireAuth(verifier, http.HandlerFunc(handler.ListMyEntries)))
}

func registerAuthorizedNotificationRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/notifications", RequireAuth(verifier, http.HandlerFunc(handler.ListMyNotifications)))
	mux.Handle("GET /v1/notifications/unread-count", RequireAuth(verifier, http.HandlerFunc(handler.GetUnreadNotificationCount)))
	mux.Handle("POST /v1/notifications/read", RequireAuth(verifier, http.HandlerFunc(handler.MarkNotificationsRead)))
}

func registerAuthorizedTokenRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/tokens", RequireAuth(verifier, http.HandlerFunc(handler.IssueToken)))
	mux.Handle("GET /v1/tokens", RequireAuth(verifier, http.HandlerFunc(handler.ListMyTokens)))
	mux.Handle("DELETE /v1/tokens/{tokenID}", RequireAuth(verifier, http.HandlerFunc(handler.RevokeToken)))
}

func registerAuthorizedChatRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/competitions/{competitionID}/messages", RequireAuth(verifier, http.HandlerFunc(handler.ListChatMessages)))
	mux.Handle("POST /v1/competitions/{competitionID}/messages", RequireAuth(verifier, http.HandlerFunc(handler.PostChatMessage)))
	mux.Handle("GET /v1/competitions/{competitionID}/messages/unread-count", RequireAuth(verifier, http.HandlerFunc(handler.GetUnreadChatCount)))
	mux.Handle("POST /v1/competitions/{competitionID}/messages/read", RequireAuth(verifier, http.HandlerFunc(handler.MarkChatRead)))
}

func registerAuthorizedAdminRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/admin/jobs/{jobName}/runs", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.ListJobRuns))))
	mux.Handle("PATCH /v1/admin/competitions/{competitionID}", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.UpdateCompetition))))
	mux.Handle("POST /v1/admin/competitions/{competitionID}/finalize", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.ForceFinalizeCompetition))))
	mux.Handle("DELETE /v1/admin/competitions/{competitionID}/participants/{userID}", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.DeactivateParticipant))))
}
