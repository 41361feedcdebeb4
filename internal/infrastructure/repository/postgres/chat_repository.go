package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fitclash/fitclash/internal/domain/chat"
	qb "github.com/fitclash/fitclash/internal/platform/querybuilder"
)

const chatReadMarkConflictSuffix = `ON CONFLICT (competition_public_id, user_id)
DO UPDATE SET last_read_at = EXCLUDED.last_read_at`

type ChatRepository struct {
	db *sqlx.DB
}

func NewChatRepository(db *sqlx.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) Create(ctx context.Context, item chat.Message) error {
	model := chatMessageInsertModel{
		PublicID:      item.ID,
		CompetitionID: item.CompetitionID,
		UserID:        item.UserID,
		Body:          item.Body,
	}

	query, args, err := qb.InsertModel("chat_messages", model, "")
	if err != nil {
		return fmt.Errorf("build insert chat message query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}

	return nil
}

func (r *ChatRepository) ListByCompetition(ctx context.Context, competitionID string, limit int) ([]chat.Message, error) {
	query, args, err := qb.Select("*").From("chat_messages").
		Where(
			qb.Eq("competition_public_id", competitionID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("created_at DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list chat messages query: %w", err)
	}

	var rows []chatMessageTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select chat messages: %w", err)
	}

	out := make([]chat.Message, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *ChatRepository) CountUnread(ctx context.Context, competitionID, userID string) (int, error) {
	// Messages without a read mark count as unread in full. COALESCE folds
	// that case into the timestamp comparison.
	query := `SELECT COUNT(1)
FROM chat_messages m
WHERE m.competition_public_id = $1
  AND m.user_id <> $2
  AND m.deleted_at IS NULL
  AND m.created_at > COALESCE(
      (SELECT rm.last_read_at FROM chat_read_marks rm
       WHERE rm.competition_public_id = $1 AND rm.user_id = $2),
      'epoch'::timestamptz)`

	var count int
	if err := r.db.GetContext(ctx, &count, query, competitionID, userID); err != nil {
		return 0, fmt.Errorf("count unread chat messages: %w", err)
	}

	return count, nil
}

func (r *ChatRepository) UpsertReadMark(ctx context.Context, competitionID, userID string, at time.Time) error {
	model := chatReadMarkInsertModel{
		CompetitionID: competitionID,
		UserID:        userID,
		LastReadAt:    at,
	}

	query, args, err := qb.InsertModel("chat_read_marks", model, chatReadMarkConflictSuffix)
	if err != nil {
		return fmt.Errorf("build upsert chat read mark query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert chat read mark: %w", err)
	}

	return nil
}
