package jobrun

import "time"

type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Run records one cron invocation of a background job with its outcome
// counts, for auditing at-least-once delivery.
type Run struct {
	ID         string
	JobName    string
	Status     Status
	Processed  int
	Succeeded  int
	Failed     int
	Skipped    int
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}
