package postgres

import (
	"time"

	"github.com/fitclash/fitclash/internal/domain/notification"
)

type notificationTableModel struct {
	ID           int64      `db:"id"`
	PublicID     string     `db:"public_id"`
	UserID       string     `db:"user_id"`
	Kind         string     `db:"kind"`
	Title        string     `db:"title"`
	Body         string     `db:"body"`
	IsRead       bool       `db:"is_read"`
	PushQueuedAt *time.Time `db:"push_queued_at"`
	PushSentAt   *time.Time `db:"push_sent_at"`
	PushFailedAt *time.Time `db:"push_failed_at"`
	CreatedAt    time.Time  `db:"created_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

type notificationInsertModel struct {
	PublicID     string     `db:"public_id"`
	UserID       string     `db:"user_id"`
	Kind         string     `db:"kind"`
	Title        string     `db:"title"`
	Body         string     `db:"body"`
	IsRead       bool       `db:"is_read"`
	PushQueuedAt *time.Time `db:"push_queued_at"`
}

func (m notificationTableModel) toDomain() notification.Notification {
	return notification.Notification{
		ID:           m.PublicID,
		UserID:       m.UserID,
		Kind:         notification.Kind(m.Kind),
		Title:        m.Title,
		Body:         m.Body,
		IsRead:       m.IsRead,
		PushQueuedAt: m.PushQueuedAt,
		PushSentAt:   m.PushSentAt,
		PushFailedAt: m.PushFailedAt,
		CreatedAt:    m.CreatedAt,
	}
}
