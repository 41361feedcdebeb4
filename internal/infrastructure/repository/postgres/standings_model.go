package postgres

import (
	"time"

	"github.com/fitclash/fitclash/internal/domain/standings"
)

type standingsTableModel struct {
	ID            int64      `db:"id"`
	CompetitionID string     `db:"competition_public_id"`
	ParticipantID string     `db:"participant_public_id"`
	UserID        string     `db:"user_id"`
	Rank          int        `db:"rank"`
	ChangePercent float64    `db:"change_percent"`
	IsCurrent     bool       `db:"is_current"`
	CalculatedAt  time.Time  `db:"calculated_at"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at"`
}

type standingsInsertModel struct {
	CompetitionID string    `db:"competition_public_id"`
	ParticipantID string    `db:"participant_public_id"`
	UserID        string    `db:"user_id"`
	Rank          int       `db:"rank"`
	ChangePercent float64   `db:"change_percent"`
	IsCurrent     bool      `db:"is_current"`
	CalculatedAt  time.Time `db:"calculated_at"`
}

func (m standingsTableModel) toDomain() standings.Row {
	return standings.Row{
		CompetitionID: m.CompetitionID,
		ParticipantID: m.ParticipantID,
		UserID:        m.UserID,
		Rank:          m.Rank,
		ChangePercent: m.ChangePercent,
		IsCurrent:     m.IsCurrent,
		CalculatedAt:  m.CalculatedAt,
	}
}
