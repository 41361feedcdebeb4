package postgres

import (
	"time"

	"github.com/fitclash/fitclash/internal/domain/competition"
)

type competitionTableModel struct {
	ID           int64      `db:"id"`
	PublicID     string     `db:"public_id"`
	Name         string     `db:"name"`
	Type         string     `db:"type"`
	Status       string     `db:"status"`
	ActivityType string     `db:"activity_type"`
	DurationDays int        `db:"duration_days"`
	StartDate    *time.Time `db:"start_date"`
	EndDate      *time.Time `db:"end_date"`
	CreatedBy    string     `db:"created_by"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

type competitionInsertModel struct {
	PublicID     string     `db:"public_id"`
	Name         string     `db:"name"`
	Type         string     `db:"type"`
	Status       string     `db:"status"`
	ActivityType string     `db:"activity_type"`
	DurationDays int        `db:"duration_days"`
	StartDate    *time.Time `db:"start_date"`
	EndDate      *time.Time `db:"end_date"`
	CreatedBy    string     `db:"created_by"`
}

func (m competitionTableModel) toDomain() competition.Competition {
	return competition.Competition{
		ID:           m.PublicID,
		Name:         m.Name,
		Type:         competition.Type(m.Type),
		Status:       competition.Status(m.Status),
		ActivityType: m.ActivityType,
		DurationDays: m.DurationDays,
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
		CreatedBy:    m.CreatedBy,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
