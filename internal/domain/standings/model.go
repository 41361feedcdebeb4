package standings

import "time"

// Row is one denormalized standings snapshot entry for a participant in a
// competition. Rows are versioned: recalculation marks the previous set
// not-current and upserts the new one.
type Row struct {
	CompetitionID string
	ParticipantID string
	UserID        string
	Rank          int
	ChangePercent float64
	IsCurrent     bool
	CalculatedAt  time.Time
}
