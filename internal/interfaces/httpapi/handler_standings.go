package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) ListStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStandings")
	defer span.End()

	competitionID := strings.TrimSpace(r.PathValue("competitionID"))
	rows, err := h.standingsService.ListStandings(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "list standings failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]standingsRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, standingsRowToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}
