package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/fitclash/fitclash/internal/usecase"
)

type createCompetitionRequest struct {
	Name         string     `json:"name" validate:"required,max=100"`
	Type         string     `json:"type" validate:"required"`
	ActivityType string     `json:"activity_type" validate:"omitempty,max=50"`
	DurationDays int        `json:"duration_days" validate:"required,min=1,max=365"`
	StartDate    *time.Time `json:"start_date"`
}

func (h *Handler) CreateCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateCompetition")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req createCompetitionRequest
	if err := decodeRequestBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.competitionService.CreateCompetition(ctx, usecase.CreateCompetitionInput{
		Name:         req.Name,
		Type:         req.Type,
		ActivityType: req.ActivityType,
		DurationDays: req.DurationDays,
		StartDate:    req.StartDate,
		CreatedBy:    principal.UserID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create competition failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, competitionToDTO(item))
}

func (h *Handler) GetCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCompetition")
	defer span.End()

	competitionID := strings.TrimSpace(r.PathValue("competitionID"))
	item, err := h.competitionService.GetCompetition(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "get competition failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, competitionToDTO(item))
}

func (h *Handler) ListCompetitions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCompetitions")
	defer span.End()

	items, err := h.competitionService.ListCompetitions(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list competitions failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]competitionDTO, 0, len(items))
	for _, item := range items {
		out = append(out, competitionToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListMyCompetitions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyCompetitions")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.competitionService.ListUserCompetitions(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list user competitions failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]competitionDTO, 0, len(items))
	for _, item := range items {
		out = append(out, competitionToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListParticipants")
	defer span.End()

	competitionID := strings.TrimSpace(r.PathValue("competitionID"))
	items, err := h.competitionService.ListParticipants(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "list participants failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]participantDTO, 0, len(items))
	for _, item := range items {
		out = append(out, participantToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) JoinCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinCompetition")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	competitionID := strings.TrimSpace(r.PathValue("competitionID"))
	item, err := h.competitionService.Join(ctx, competitionID, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "join competition failed",
			"competition_id", competitionID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, participantToDTO(item))
}

func (h *Handler) LeaveCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LeaveCompetition")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	competitionID := strings.TrimSpace(r.PathValue("competitionID"))
	if err := h.competitionService.Leave(ctx, competitionID, principal.UserID); err != nil {
		h.logger.WarnContext(ctx, "leave competition failed",
			"competition_id", competitionID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "left"})
}
