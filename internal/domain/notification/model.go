package notification

import "time"

type Kind string

const (
	KindCompetitionStarted   Kind = "competition_started"
	KindCompetitionCompleted Kind = "competition_completed"
	KindDailyReminder        Kind = "daily_reminder"
	KindChatMessage          Kind = "chat_message"
)

// Notification is a user-facing message with optional push-delivery
// bookkeeping. A row with PushQueuedAt set and PushSentAt/PushFailedAt unset
// is eligible for the drain job.
type Notification struct {
	ID           string
	UserID       string
	Kind         Kind
	Title        string
	Body         string
	IsRead       bool
	PushQueuedAt *time.Time
	PushSentAt   *time.Time
	PushFailedAt *time.Time
	CreatedAt    time.Time
}
