package chat

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, item Message) error
	ListByCompetition(ctx context.Context, competitionID string, limit int) ([]Message, error)
	// CountUnread counts messages from other users newer than the reader's
	// read mark (all messages when no mark exists).
	CountUnread(ctx context.Context, competitionID, userID string) (int, error)
	UpsertReadMark(ctx context.Context, competitionID, userID string, at time.Time) error
}
