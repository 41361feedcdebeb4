package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/fitclash/fitclash/internal/domain/notification"
	"github.com/fitclash/fitclash/internal/platform/logging"
)

const (
	defaultNotificationListLimit = 50
	maxNotificationListLimit     = 200
)

// PushSender delivers one notification to a user's devices through an
// external push provider.
type PushSender interface {
	SendPush(ctx context.Context, userID, title, body string) error
}

type noopPushSender struct{}

func (noopPushSender) SendPush(_ context.Context, _, _, _ string) error { return nil }

// NewNoopPushSender returns a sender that accepts everything without
// delivering, so local environments can drain the queue.
func NewNoopPushSender() PushSender {
	return noopPushSender{}
}

type DrainConfig struct {
	BatchSize int
	Workers   int
}

type NotificationService struct {
	notificationRepo notification.Repository
	pushSender       PushSender
	cfg              DrainConfig
	logger           *logging.Logger
	now              func() time.Time
}

func NewNotificationService(
	notificationRepo notification.Repository,
	pushSender PushSender,
	cfg DrainConfig,
	logger *logging.Logger,
) *NotificationService {
	if pushSender == nil {
		pushSender = NewNoopPushSender()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}

	return &NotificationService{
		notificationRepo: notificationRepo,
		pushSender:       pushSender,
		cfg:              cfg,
		logger:           logger,
		now:              time.Now,
	}
}

func (s *NotificationService) ListNotifications(ctx context.Context, userID string, limit int) ([]notification.Notification, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultNotificationListLimit
	}
	if limit > maxNotificationListLimit {
		limit = maxNotificationListLimit
	}

	items, err := s.notificationRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return items, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	count, err := s.notificationRepo.CountUnreadByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}

	return count, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID string, notificationIDs []string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	ids := make([]string, 0, len(notificationIDs))
	for _, raw := range notificationIDs {
		item := strings.TrimSpace(raw)
		if item == "" {
			continue
		}
		ids = append(ids, item)
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one notification id is required", ErrInvalidInput)
	}

	if err := s.notificationRepo.MarkRead(ctx, userID, ids); err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}

	return nil
}

type DrainResult struct {
	Processed  int   `json:"processed"`
	Sent       int   `json:"sent"`
	Failed     int   `json:"failed"`
	DurationMs int64 `json:"duration_ms"`
}

// DrainQueue pushes one batch of queued notifications through the configured
// provider. Each notification is marked sent or failed individually, so a
// provider outage mid-batch never re-sends what already went out.
func (s *NotificationService) DrainQueue(ctx context.Context) (DrainResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.DrainQueue")
	defer span.End()

	start := s.now()

	queued, err := s.notificationRepo.ListQueuedForPush(ctx, s.cfg.BatchSize)
	if err != nil {
		return DrainResult{}, fmt.Errorf("list queued notifications: %w", err)
	}

	result := DrainResult{Processed: len(queued)}
	if len(queued) == 0 {
		result.DurationMs = time.Since(start).Milliseconds()
		return result, nil
	}

	var sent, failed atomic.Int32

	workerPool, err := ants.NewPool(s.cfg.Workers)
	if err != nil {
		return DrainResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var workers sync.WaitGroup
	for _, item := range queued {
		item := item
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			sentAt := s.now().UTC()
			if err := s.pushSender.SendPush(ctx, item.UserID, item.Title, item.Body); err != nil {
				failed.Add(1)
				s.logger.WarnContext(ctx, "push delivery failed",
					"notification_id", item.ID,
					"user_id", item.UserID,
					"error", err,
				)
				if markErr := s.notificationRepo.MarkPushFailed(ctx, item.ID, sentAt); markErr != nil {
					s.logger.ErrorContext(ctx, "mark push failed errored",
						"notification_id", item.ID, "error", markErr)
				}
				return
			}

			sent.Add(1)
			if markErr := s.notificationRepo.MarkPushSent(ctx, item.ID, sentAt); markErr != nil {
				s.logger.ErrorContext(ctx, "mark push sent errored",
					"notification_id", item.ID, "error", markErr)
			}
		}); err != nil {
			workers.Done()
			return DrainResult{}, fmt.Errorf("submit push task: %w", err)
		}
	}
	workers.Wait()

	result.Sent = int(sent.Load())
	result.Failed = int(failed.Load())
	result.DurationMs = time.Since(start).Milliseconds()
	return result, nil
}
