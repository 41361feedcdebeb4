package postgres

import (
	"database/sql"
	"time"

	"github.com/fitclash/fitclash/internal/domain/participant"
)

type participantTableModel struct {
	ID            int64           `db:"id"`
	PublicID      string          `db:"public_id"`
	CompetitionID string          `db:"competition_public_id"`
	UserID        string          `db:"user_id"`
	StartingValue sql.NullFloat64 `db:"starting_value"`
	CurrentValue  sql.NullFloat64 `db:"current_value"`
	Rank          int             `db:"rank"`
	IsActive      bool            `db:"is_active"`
	JoinedAt      time.Time       `db:"joined_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
	DeletedAt     *time.Time      `db:"deleted_at"`
}

type participantInsertModel struct {
	PublicID      string          `db:"public_id"`
	CompetitionID string          `db:"competition_public_id"`
	UserID        string          `db:"user_id"`
	StartingValue sql.NullFloat64 `db:"starting_value"`
	CurrentValue  sql.NullFloat64 `db:"current_value"`
	IsActive      bool            `db:"is_active"`
	JoinedAt      time.Time       `db:"joined_at"`
}

func (m participantTableModel) toDomain() participant.Participant {
	return participant.Participant{
		ID:            m.PublicID,
		CompetitionID: m.CompetitionID,
		UserID:        m.UserID,
		StartingValue: nullFloat64ToPtr(m.StartingValue),
		CurrentValue:  nullFloat64ToPtr(m.CurrentValue),
		Rank:          m.Rank,
		IsActive:      m.IsActive,
		JoinedAt:      m.JoinedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
