package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fitclash/fitclash/internal/domain/notification"
	qb "github.com/fitclash/fitclash/internal/platform/querybuilder"
)

type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, item notification.Notification) error {
	model := notificationInsertModel{
		PublicID:     item.ID,
		UserID:       item.UserID,
		Kind:         string(item.Kind),
		Title:        item.Title,
		Body:         item.Body,
		IsRead:       item.IsRead,
		PushQueuedAt: item.PushQueuedAt,
	}

	query, args, err := qb.InsertModel("notifications", model, "")
	if err != nil {
		return fmt.Errorf("build insert notification query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	return nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]notification.Notification, error) {
	query, args, err := qb.Select("*").From("notifications").
		Where(
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("created_at DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list notifications query: %w", err)
	}

	var rows []notificationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select notifications: %w", err)
	}

	out := make([]notification.Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *NotificationRepository) CountUnreadByUser(ctx context.Context, userID string) (int, error) {
	query, args, err := qb.Select("COUNT(1)").From("notifications").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("is_read", false),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count unread notifications query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}

	return count, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID string, notificationIDs []string) error {
	if len(notificationIDs) == 0 {
		return nil
	}

	ids := make([]any, 0, len(notificationIDs))
	for _, id := range notificationIDs {
		ids = append(ids, id)
	}

	query, args, err := qb.Update("notifications").
		Set("is_read", true).
		Where(
			qb.Eq("user_id", userID),
			qb.In("public_id", ids),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark notifications read query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}

	return nil
}

func (r *NotificationRepository) ListQueuedForPush(ctx context.Context, limit int) ([]notification.Notification, error) {
	query, args, err := qb.Select("*").From("notifications").
		Where(
			qb.Expr("push_queued_at IS NOT NULL"),
			qb.IsNull("push_sent_at"),
			qb.IsNull("push_failed_at"),
			qb.IsNull("deleted_at"),
		).
		OrderBy("push_queued_at ASC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list queued notifications query: %w", err)
	}

	var rows []notificationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select queued notifications: %w", err)
	}

	out := make([]notification.Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *NotificationRepository) MarkPushSent(ctx context.Context, notificationID string, at time.Time) error {
	return r.markPushOutcome(ctx, notificationID, "push_sent_at", at)
}

func (r *NotificationRepository) MarkPushFailed(ctx context.Context, notificationID string, at time.Time) error {
	return r.markPushOutcome(ctx, notificationID, "push_failed_at", at)
}

func (r *NotificationRepository) markPushOutcome(ctx context.Context, notificationID, column string, at time.Time) error {
	query, args, err := qb.Update("notifications").
		Set(column, at).
		Where(
			qb.Eq("public_id", notificationID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark push outcome query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark push outcome: %w", err)
	}

	return nil
}
