package httpapi

import (
	"net/http"
	"time"

	"github.com/fitclash/fitclash/internal/usecase"
)

const defaultEntryPageSize = 50

type logEntryRequest struct {
	Kind       string     `json:"kind" validate:"omitempty,max=30"`
	Activity   string     `json:"activity" validate:"omitempty,max=50"`
	Value      float64    `json:"value" validate:"required,gt=0"`
	RecordedAt *time.Time `json:"recorded_at"`
}

type logEntryResponse struct {
	Entry               entryDTO `json:"entry"`
	UpdatedCompetitions []string `json:"updated_competitions"`
	StandingsStale      bool     `json:"standings_stale,omitempty"`
}

func (h *Handler) LogEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LogEntry")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req logEntryRequest
	if err := decodeRequestBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.entryService.LogEntry(ctx, usecase.LogEntryInput{
		UserID:     principal.UserID,
		Kind:       req.Kind,
		Activity:   req.Activity,
		Value:      req.Value,
		RecordedAt: req.RecordedAt,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "log entry failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	updated := result.UpdatedCompetitions
	if updated == nil {
		updated = []string{}
	}

	writeSuccess(ctx, w, http.StatusCreated, logEntryResponse{
		Entry:               entryToDTO(result.Entry),
		UpdatedCompetitions: updated,
		StandingsStale:      result.StandingsRecalcError,
	})
}

func (h *Handler) ListMyEntries(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyEntries")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	limit, err := parseLimitQuery(r, defaultEntryPageSize)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	kind := r.URL.Query().Get("kind")
	items, err := h.entryService.ListEntries(ctx, principal.UserID, kind, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list entries failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]entryDTO, 0, len(items))
	for _, item := range items {
		out = append(out, entryToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}
