package httpapi

import (
	"net/http"
	"strings"

	"github.com/fitclash/fitclash/internal/usecase"
)

type updateCompetitionRequest struct {
	Name         *string `json:"name" validate:"omitempty,max=100"`
	ActivityType *string `json:"activity_type" validate:"omitempty,max=50"`
	DurationDays *int    `json:"duration_days" validate:"omitempty,min=1,max=365"`
}

func (h *Handler) UpdateCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateCompetition")
	defer span.End()

	var req updateCompetitionRequest
	if err := decodeRequestBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	competitionID := strings.TrimSpace(r.PathValue("competitionID"))
	item, err := h.competitionService.UpdateCompetition(ctx, usecase.UpdateCompetitionInput{
		CompetitionID: competitionID,
		Name:          req.Name,
		ActivityType:  req.ActivityType,
		DurationDays:  req.DurationDays,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update competition failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, competitionToDTO(item))
}

func (h *Handler) ForceFinalizeCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ForceFinalizeCompetition")
	defer span.End()

	if h.lifecycleService == nil {
		writeError(ctx, w, usecase.ErrDependencyUnavailable)
		return
	}

	competitionID := strings.TrimSpace(r.PathValue("competitionID"))
	result, err := h.lifecycleService.ForceFinalize(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "force finalize failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) DeactivateParticipant(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeactivateParticipant")
	defer span.End()

	competitionID := strings.TrimSpace(r.PathValue("competitionID"))
	userID := strings.TrimSpace(r.PathValue("userID"))
	if err := h.competitionService.Leave(ctx, competitionID, userID); err != nil {
		h.logger.WarnContext(ctx, "deactivate participant failed",
			"competition_id", competitionID, "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deactivated"})
}
