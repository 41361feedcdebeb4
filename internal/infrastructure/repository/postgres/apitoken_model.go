package postgres

import (
	"time"

	"github.com/fitclash/fitclash/internal/domain/apitoken"
)

type apiTokenTableModel struct {
	ID         int64      `db:"id"`
	PublicID   string     `db:"public_id"`
	UserID     string     `db:"user_id"`
	SecretHash string     `db:"secret_hash"`
	Label      string     `db:"label"`
	IsActive   bool       `db:"is_active"`
	ExpiresAt  *time.Time `db:"expires_at"`
	LastUsedAt *time.Time `db:"last_used_at"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at"`
}

type apiTokenInsertModel struct {
	PublicID   string     `db:"public_id"`
	UserID     string     `db:"user_id"`
	SecretHash string     `db:"secret_hash"`
	Label      string     `db:"label"`
	IsActive   bool       `db:"is_active"`
	ExpiresAt  *time.Time `db:"expires_at"`
}

func (m apiTokenTableModel) toDomain() apitoken.Token {
	return apitoken.Token{
		ID:         m.PublicID,
		UserID:     m.UserID,
		SecretHash: m.SecretHash,
		Label:      m.Label,
		IsActive:   m.IsActive,
		ExpiresAt:  m.ExpiresAt,
		LastUsedAt: m.LastUsedAt,
		CreatedAt:  m.CreatedAt,
	}
}
