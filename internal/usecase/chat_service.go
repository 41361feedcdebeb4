package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fitclash/fitclash/internal/domain/chat"
	"github.com/fitclash/fitclash/internal/domain/competition"
	"github.com/fitclash/fitclash/internal/domain/notification"
	"github.com/fitclash/fitclash/internal/domain/participant"
	"github.com/fitclash/fitclash/internal/platform/id"
	"github.com/fitclash/fitclash/internal/platform/logging"
)

const (
	maxChatMessageLength     = 2000
	defaultChatListLimit     = 50
	maxChatListLimit         = 200
	chatNotificationBodyChar = 120
)

type ChatService struct {
	chatRepo         chat.Repository
	participantRepo  participant.Repository
	competitionRepo  competition.Repository
	notificationRepo notification.Repository
	idGen            id.Generator
	logger           *logging.Logger
	now              func() time.Time
}

func NewChatService(
	chatRepo chat.Repository,
	participantRepo participant.Repository,
	competitionRepo competition.Repository,
	notificationRepo notification.Repository,
	idGen id.Generator,
	logger *logging.Logger,
) *ChatService {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &ChatService{
		chatRepo:         chatRepo,
		participantRepo:  participantRepo,
		competitionRepo:  competitionRepo,
		notificationRepo: notificationRepo,
		idGen:            idGen,
		logger:           logger,
		now:              time.Now,
	}
}

// PostMessage appends a line to the competition board and queues a push
// notification for the other active participants. Notification failures are
// logged, not surfaced; the message itself is already stored.
func (s *ChatService) PostMessage(ctx context.Context, competitionID, userID, body string) (chat.Message, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChatService.PostMessage")
	defer span.End()

	body = strings.TrimSpace(body)
	if body == "" {
		return chat.Message{}, fmt.Errorf("%w: message body is required", ErrInvalidInput)
	}
	if len(body) > maxChatMessageLength {
		return chat.Message{}, fmt.Errorf("%w: message exceeds %d characters", ErrInvalidInput, maxChatMessageLength)
	}

	comp, member, err := s.requireMembership(ctx, competitionID, userID)
	if err != nil {
		return chat.Message{}, err
	}

	nowTime := s.now().UTC()
	newID, err := s.idGen.NewID()
	if err != nil {
		return chat.Message{}, fmt.Errorf("generate message id: %w", err)
	}

	item := chat.Message{
		ID:            newID,
		CompetitionID: comp.ID,
		UserID:        member.UserID,
		Body:          body,
		CreatedAt:     nowTime,
	}
	if err := s.chatRepo.Create(ctx, item); err != nil {
		return chat.Message{}, fmt.Errorf("create chat message: %w", err)
	}

	// The poster has read their own message.
	if err := s.chatRepo.UpsertReadMark(ctx, comp.ID, member.UserID, nowTime); err != nil {
		s.logger.WarnContext(ctx, "upsert read mark failed",
			"competition_id", comp.ID, "user_id", member.UserID, "error", err)
	}

	s.notifyOthers(ctx, comp, member.UserID, body, nowTime)
	return item, nil
}

func (s *ChatService) ListMessages(ctx context.Context, competitionID, userID string, limit int) ([]chat.Message, error) {
	comp, _, err := s.requireMembership(ctx, competitionID, userID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultChatListLimit
	}
	if limit > maxChatListLimit {
		limit = maxChatListLimit
	}

	items, err := s.chatRepo.ListByCompetition(ctx, comp.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}

	return items, nil
}

func (s *ChatService) UnreadCount(ctx context.Context, competitionID, userID string) (int, error) {
	comp, member, err := s.requireMembership(ctx, competitionID, userID)
	if err != nil {
		return 0, err
	}

	count, err := s.chatRepo.CountUnread(ctx, comp.ID, member.UserID)
	if err != nil {
		return 0, fmt.Errorf("count unread chat messages: %w", err)
	}

	return count, nil
}

func (s *ChatService) MarkBoardRead(ctx context.Context, competitionID, userID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChatService.MarkBoardRead")
	defer span.End()

	comp, member, err := s.requireMembership(ctx, competitionID, userID)
	if err != nil {
		return err
	}

	if err := s.chatRepo.UpsertReadMark(ctx, comp.ID, member.UserID, s.now().UTC()); err != nil {
		return fmt.Errorf("upsert read mark: %w", err)
	}

	return nil
}

func (s *ChatService) requireMembership(ctx context.Context, competitionID, userID string) (competition.Competition, participant.Participant, error) {
	competitionID = strings.TrimSpace(competitionID)
	userID = strings.TrimSpace(userID)
	if competitionID == "" || userID == "" {
		return competition.Competition{}, participant.Participant{},
			fmt.Errorf("%w: competition id and user id are required", ErrInvalidInput)
	}

	comp, exists, err := s.competitionRepo.GetByID(ctx, competitionID)
	if err != nil {
		return competition.Competition{}, participant.Participant{}, fmt.Errorf("get competition: %w", err)
	}
	if !exists {
		return competition.Competition{}, participant.Participant{},
			fmt.Errorf("%w: competition=%s", ErrNotFound, competitionID)
	}

	member, exists, err := s.participantRepo.GetByCompetitionAndUser(ctx, comp.ID, userID)
	if err != nil {
		return competition.Competition{}, participant.Participant{}, fmt.Errorf("get participant: %w", err)
	}
	if !exists || !member.IsActive {
		return competition.Competition{}, participant.Participant{},
			fmt.Errorf("%w: user is not a participant of competition %s", ErrUnauthorized, comp.ID)
	}

	return comp, member, nil
}

func (s *ChatService) notifyOthers(ctx context.Context, comp competition.Competition, senderUserID, body string, nowTime time.Time) {
	participants, err := s.participantRepo.ListActiveByCompetition(ctx, comp.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "list participants for chat notification failed",
			"competition_id", comp.ID, "error", err)
		return
	}

	preview := body
	if runes := []rune(preview); len(runes) > chatNotificationBodyChar {
		preview = string(runes[:chatNotificationBodyChar]) + "…"
	}

	for _, member := range participants {
		if member.UserID == senderUserID {
			continue
		}

		newID, err := s.idGen.NewID()
		if err != nil {
			s.logger.WarnContext(ctx, "generate chat notification id failed", "error", err)
			continue
		}
		queuedAt := nowTime
		if err := s.notificationRepo.Create(ctx, notification.Notification{
			ID:           newID,
			UserID:       member.UserID,
			Kind:         notification.KindChatMessage,
			Title:        fmt.Sprintf("New message in %s", comp.Name),
			Body:         preview,
			PushQueuedAt: &queuedAt,
			CreatedAt:    nowTime,
		}); err != nil {
			s.logger.WarnContext(ctx, "create chat notification failed",
				"competition_id", comp.ID, "user_id", member.UserID, "error", err)
		}
	}
}
