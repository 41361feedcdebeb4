package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/fitclash/fitclash/internal/domain/apitoken"
	"github.com/fitclash/fitclash/internal/domain/chat"
	"github.com/fitclash/fitclash/internal/domain/competition"
	"github.com/fitclash/fitclash/internal/domain/entry"
	"github.com/fitclash/fitclash/internal/domain/jobrun"
	"github.com/fitclash/fitclash/internal/domain/notification"
	"github.com/fitclash/fitclash/internal/domain/participant"
	"github.com/fitclash/fitclash/internal/domain/standings"
	"github.com/fitclash/fitclash/internal/domain/user"
	"github.com/fitclash/fitclash/internal/usecase"
)

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func decodeRequestBody(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func requirePrincipal(ctx context.Context) (user.Principal, error) {
	principal, ok := principalFromContext(ctx)
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: authentication required", usecase.ErrUnauthorized)
	}
	return principal, nil
}

func parseLimitQuery(r *http.Request, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return fallback, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("%w: limit must be a non-negative integer", usecase.ErrInvalidInput)
	}
	return limit, nil
}

type competitionDTO struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	Status       string     `json:"status"`
	ActivityType string     `json:"activity_type,omitempty"`
	DurationDays int        `json:"duration_days"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	CreatedBy    string     `json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
}

func competitionToDTO(item competition.Competition) competitionDTO {
	return competitionDTO{
		ID:           item.ID,
		Name:         item.Name,
		Type:         string(item.Type),
		Status:       string(item.Status),
		ActivityType: item.ActivityType,
		DurationDays: item.DurationDays,
		StartDate:    item.StartDate,
		EndDate:      item.EndDate,
		CreatedBy:    item.CreatedBy,
		CreatedAt:    item.CreatedAt,
	}
}

type participantDTO struct {
	ID            string    `json:"id"`
	CompetitionID string    `json:"competition_id"`
	UserID        string    `json:"user_id"`
	StartingValue *float64  `json:"starting_value,omitempty"`
	CurrentValue  *float64  `json:"current_value,omitempty"`
	Rank          int       `json:"rank"`
	IsActive      bool      `json:"is_active"`
	JoinedAt      time.Time `json:"joined_at"`
}

func participantToDTO(item participant.Participant) participantDTO {
	return participantDTO{
		ID:            item.ID,
		CompetitionID: item.CompetitionID,
		UserID:        item.UserID,
		StartingValue: item.StartingValue,
		CurrentValue:  item.CurrentValue,
		Rank:          item.Rank,
		IsActive:      item.IsActive,
		JoinedAt:      item.JoinedAt,
	}
}

type standingsRowDTO struct {
	CompetitionID string    `json:"competition_id"`
	ParticipantID string    `json:"participant_id"`
	UserID        string    `json:"user_id"`
	Rank          int       `json:"rank"`
	ChangePercent float64   `json:"change_percent"`
	CalculatedAt  time.Time `json:"calculated_at"`
}

func standingsRowToDTO(item standings.Row) standingsRowDTO {
	return standingsRowDTO{
		CompetitionID: item.CompetitionID,
		ParticipantID: item.ParticipantID,
		UserID:        item.UserID,
		Rank:          item.Rank,
		ChangePercent: item.ChangePercent,
		CalculatedAt:  item.CalculatedAt,
	}
}

type entryDTO struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Kind       string    `json:"kind"`
	Activity   string    `json:"activity,omitempty"`
	Value      float64   `json:"value"`
	RecordedAt time.Time `json:"recorded_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func entryToDTO(item entry.Entry) entryDTO {
	return entryDTO{
		ID:         item.ID,
		UserID:     item.UserID,
		Kind:       string(item.Kind),
		Activity:   item.Activity,
		Value:      item.Value,
		RecordedAt: item.RecordedAt,
		CreatedAt:  item.CreatedAt,
	}
}

type notificationDTO struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func notificationToDTO(item notification.Notification) notificationDTO {
	return notificationDTO{
		ID:        item.ID,
		Kind:      string(item.Kind),
		Title:     item.Title,
		Body:      item.Body,
		IsRead:    item.IsRead,
		CreatedAt: item.CreatedAt,
	}
}

type tokenDTO struct {
	ID         string     `json:"id"`
	Label      string     `json:"label,omitempty"`
	IsActive   bool       `json:"is_active"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func tokenToDTO(item apitoken.Token) tokenDTO {
	return tokenDTO{
		ID:         item.ID,
		Label:      item.Label,
		IsActive:   item.IsActive,
		ExpiresAt:  item.ExpiresAt,
		LastUsedAt: item.LastUsedAt,
		CreatedAt:  item.CreatedAt,
	}
}

type chatMessageDTO struct {
	ID            string    `json:"id"`
	CompetitionID string    `json:"competition_id"`
	UserID        string    `json:"user_id"`
	Body          string    `json:"body"`
	CreatedAt     time.Time `json:"created_at"`
}

func chatMessageToDTO(item chat.Message) chatMessageDTO {
	return chatMessageDTO{
		ID:            item.ID,
		CompetitionID: item.CompetitionID,
		UserID:        item.UserID,
		Body:          item.Body,
		CreatedAt:     item.CreatedAt,
	}
}

type jobRunDTO struct {
	ID         string    `json:"id"`
	JobName    string    `json:"job_name"`
	Status     string    `json:"status"`
	Processed  int       `json:"processed"`
	Succeeded  int       `json:"succeeded"`
	Failed     int       `json:"failed"`
	Skipped    int       `json:"skipped"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

func jobRunToDTO(item jobrun.Run) jobRunDTO {
	return jobRunDTO{
		ID:         item.ID,
		JobName:    item.JobName,
		Status:     string(item.Status),
		Processed:  item.Processed,
		Succeeded:  item.Succeeded,
		Failed:     item.Failed,
		Skipped:    item.Skipped,
		Error:      item.Error,
		StartedAt:  item.StartedAt,
		FinishedAt: item.FinishedAt,
	}
}
