package entry

import "time"

// Kind separates weight measurements from activity counters (steps, workouts).
type Kind string

const (
	KindWeight   Kind = "weight"
	KindActivity Kind = "activity"
)

// Entry is one timestamped measurement for a user. Entries are append-only;
// corrections arrive as newer entries.
type Entry struct {
	ID         string
	UserID     string
	Kind       Kind
	Activity   string
	Value      float64
	RecordedAt time.Time
	CreatedAt  time.Time
}
