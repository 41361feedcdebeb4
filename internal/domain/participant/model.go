package participant

import "time"

// Participant links a user to one competition and carries the metric values
// standings are computed from. StartingValue and CurrentValue are nil until
// the baseline is seeded / the first entry arrives.
type Participant struct {
	ID            string
	CompetitionID string
	UserID        string
	StartingValue *float64
	CurrentValue  *float64
	Rank          int
	IsActive      bool
	JoinedAt      time.Time
	UpdatedAt     time.Time
}

// ChangePercent returns (starting - current) / starting * 100, so loss is
// positive and gain is negative. The second return is false when the
// participant is not rankable (missing values or starting <= 0).
func (p Participant) ChangePercent() (float64, bool) {
	if p.StartingValue == nil || p.CurrentValue == nil {
		return 0, false
	}
	if *p.StartingValue <= 0 {
		return 0, false
	}
	return (*p.StartingValue - *p.CurrentValue) / *p.StartingValue * 100, true
}
