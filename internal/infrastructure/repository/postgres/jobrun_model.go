package postgres

import (
	"time"

	"github.com/fitclash/fitclash/internal/domain/jobrun"
)

type jobRunTableModel struct {
	ID         int64     `db:"id"`
	PublicID   string    `db:"public_id"`
	JobName    string    `db:"job_name"`
	Status     string    `db:"status"`
	Processed  int       `db:"processed"`
	Succeeded  int       `db:"succeeded"`
	Failed     int       `db:"failed"`
	Skipped    int       `db:"skipped"`
	Error      string    `db:"error"`
	StartedAt  time.Time `db:"started_at"`
	FinishedAt time.Time `db:"finished_at"`
	CreatedAt  time.Time `db:"created_at"`
}

type jobRunInsertModel struct {
	PublicID   string    `db:"public_id"`
	JobName    string    `db:"job_name"`
	Status     string    `db:"status"`
	Processed  int       `db:"processed"`
	Succeeded  int       `db:"succeeded"`
	Failed     int       `db:"failed"`
	Skipped    int       `db:"skipped"`
	Error      string    `db:"error"`
	StartedAt  time.Time `db:"started_at"`
	FinishedAt time.Time `db:"finished_at"`
}

func (m jobRunTableModel) toDomain() jobrun.Run {
	return jobrun.Run{
		ID:         m.PublicID,
		JobName:    m.JobName,
		Status:     jobrun.Status(m.Status),
		Processed:  m.Processed,
		Succeeded:  m.Succeeded,
		Failed:     m.Failed,
		Skipped:    m.Skipped,
		Error:      m.Error,
		StartedAt:  m.StartedAt,
		FinishedAt: m.FinishedAt,
	}
}
