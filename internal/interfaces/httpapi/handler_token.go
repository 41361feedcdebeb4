package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fitclash/fitclash/internal/domain/user"
	"github.com/fitclash/fitclash/internal/usecase"
)

type issueTokenRequest struct {
	Label    string `json:"label" validate:"omitempty,max=100"`
	TTLHours int    `json:"ttl_hours" validate:"omitempty,min=1,max=87600"`
	// UserID lets admins mint tokens for other accounts. Everyone else gets
	// a token for themselves.
	UserID string `json:"user_id" validate:"omitempty,max=100"`
}

type issueTokenResponse struct {
	Token  tokenDTO `json:"token"`
	Secret string   `json:"secret"`
}

func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IssueToken")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req issueTokenRequest
	if err := decodeRequestBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	targetUserID := principal.UserID
	if requested := strings.TrimSpace(req.UserID); requested != "" && requested != principal.UserID {
		if !principal.HasRole(user.RoleAdmin) {
			writeError(ctx, w, fmt.Errorf("%w: only admins can issue tokens for other users", usecase.ErrUnauthorized))
			return
		}
		targetUserID = requested
	}

	issued, err := h.tokenService.IssueToken(ctx, usecase.IssueTokenInput{
		UserID: targetUserID,
		Label:  req.Label,
		TTL:    time.Duration(req.TTLHours) * time.Hour,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "issue token failed", "user_id", targetUserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, issueTokenResponse{
		Token:  tokenToDTO(issued.Token),
		Secret: issued.Secret,
	})
}

func (h *Handler) ListMyTokens(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyTokens")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.tokenService.ListTokens(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list tokens failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]tokenDTO, 0, len(items))
	for _, item := range items {
		out = append(out, tokenToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) RevokeToken(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RevokeToken")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	tokenID := strings.TrimSpace(r.PathValue("tokenID"))
	if err := h.tokenService.RevokeToken(ctx, principal.UserID, tokenID); err != nil {
		h.logger.WarnContext(ctx, "revoke token failed",
			"user_id", principal.UserID, "token_id", tokenID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "revoked"})
}
