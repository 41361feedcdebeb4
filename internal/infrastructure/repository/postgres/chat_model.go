package postgres

import (
	"time"

	"github.com/fitclash/fitclash/internal/domain/chat"
)

type chatMessageTableModel struct {
	ID            int64      `db:"id"`
	PublicID      string     `db:"public_id"`
	CompetitionID string     `db:"competition_public_id"`
	UserID        string     `db:"user_id"`
	Body          string     `db:"body"`
	CreatedAt     time.Time  `db:"created_at"`
	DeletedAt     *time.Time `db:"deleted_at"`
}

type chatMessageInsertModel struct {
	PublicID      string `db:"public_id"`
	CompetitionID string `db:"competition_public_id"`
	UserID        string `db:"user_id"`
	Body          string `db:"body"`
}

type chatReadMarkInsertModel struct {
	CompetitionID string    `db:"competition_public_id"`
	UserID        string    `db:"user_id"`
	LastReadAt    time.Time `db:"last_read_at"`
}

func (m chatMessageTableModel) toDomain() chat.Message {
	return chat.Message{
		ID:            m.PublicID,
		CompetitionID: m.CompetitionID,
		UserID:        m.UserID,
		Body:          m.Body,
		CreatedAt:     m.CreatedAt,
	}
}
