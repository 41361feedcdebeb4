package httpapi

import (
	"net/http"
	"strings"
)

const defaultChatPageSize = 50

type postChatMessageRequest struct {
	Body string `json:"body" validate:"required,max=2000"`
}

func (h *Handler) PostChatMessage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PostChatMessage")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req postChatMessageRequest
	if err := decodeRequestBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	competitionID := strings.TrimSpace(r.PathValue("competitionID"))
	msg, err := h.chatService.PostMessage(ctx, competitionID, principal.UserID, req.Body)
	if err != nil {
		h.logger.WarnContext(ctx, "post chat message failed",
			"competition_id", competitionID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, chatMessageToDTO(msg))
}

func (h *Handler) ListChatMessages(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListChatMessages")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	limit, err := parseLimitQuery(r, defaultChatPageSize)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	competitionID := strings.TrimSpace(r.PathValue("competitionID"))
	items, err := h.chatService.ListMessages(ctx, competitionID, principal.UserID, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list chat messages failed",
			"competition_id", competitionID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]chatMessageDTO, 0, len(items))
	for _, item := range items {
		out = append(out, chatMessageToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetUnreadChatCount(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetUnreadChatCount")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	competitionID := strings.TrimSpace(r.PathValue("competitionID"))
	count, err := h.chatService.UnreadCount(ctx, competitionID, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "unread chat count failed",
			"competition_id", competitionID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"unread": count})
}

func (h *Handler) MarkChatRead(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MarkChatRead")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	competitionID := strings.TrimSpace(r.PathValue("competitionID"))
	if err := h.chatService.MarkBoardRead(ctx, competitionID, principal.UserID); err != nil {
		h.logger.WarnContext(ctx, "mark chat read failed",
			"competition_id", competitionID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "read"})
}
