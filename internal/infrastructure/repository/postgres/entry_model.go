package postgres

import (
	"time"

	"github.com/fitclash/fitclash/internal/domain/entry"
)

type entryTableModel struct {
	ID         int64      `db:"id"`
	PublicID   string     `db:"public_id"`
	UserID     string     `db:"user_id"`
	Kind       string     `db:"kind"`
	Activity   string     `db:"activity"`
	Value      float64    `db:"value"`
	RecordedAt time.Time  `db:"recorded_at"`
	CreatedAt  time.Time  `db:"created_at"`
	DeletedAt  *time.Time `db:"deleted_at"`
}

type entryInsertModel struct {
	PublicID   string    `db:"public_id"`
	UserID     string    `db:"user_id"`
	Kind       string    `db:"kind"`
	Activity   string    `db:"activity"`
	Value      float64   `db:"value"`
	RecordedAt time.Time `db:"recorded_at"`
}

func (m entryTableModel) toDomain() entry.Entry {
	return entry.Entry{
		ID:         m.PublicID,
		UserID:     m.UserID,
		Kind:       entry.Kind(m.Kind),
		Activity:   m.Activity,
		Value:      m.Value,
		RecordedAt: m.RecordedAt,
		CreatedAt:  m.CreatedAt,
	}
}
