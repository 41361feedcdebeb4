package notification

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, item Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]Notification, error)
	CountUnreadByUser(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID string, notificationIDs []string) error
	// ListQueuedForPush returns unread notifications queued for push delivery
	// that have not been sent or failed yet, oldest first, bounded by limit.
	ListQueuedForPush(ctx context.Context, limit int) ([]Notification, error)
	MarkPushSent(ctx context.Context, notificationID string, at time.Time) error
	MarkPushFailed(ctx context.Context, notificationID string, at time.Time) error
}
