package jobrun

import "context"

type Repository interface {
	Record(ctx context.Context, run Run) error
	ListRecent(ctx context.Context, jobName string, limit int) ([]Run, error)
}
