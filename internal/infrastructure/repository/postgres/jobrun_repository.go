package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fitclash/fitclash/internal/domain/jobrun"
	qb "github.com/fitclash/fitclash/internal/platform/querybuilder"
)

type JobRunRepository struct {
	db *sqlx.DB
}

func NewJobRunRepository(db *sqlx.DB) *JobRunRepository {
	return &JobRunRepository{db: db}
}

func (r *JobRunRepository) Record(ctx context.Context, run jobrun.Run) error {
	model := jobRunInsertModel{
		PublicID:   run.ID,
		JobName:    run.JobName,
		Status:     string(run.Status),
		Processed:  run.Processed,
		Succeeded:  run.Succeeded,
		Failed:     run.Failed,
		Skipped:    run.Skipped,
		Error:      run.Error,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	}

	query, args, err := qb.InsertModel("job_runs", model, "")
	if err != nil {
		return fmt.Errorf("build insert job run query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert job run: %w", err)
	}

	return nil
}

func (r *JobRunRepository) ListRecent(ctx context.Context, jobName string, limit int) ([]jobrun.Run, error) {
	query, args, err := qb.Select("*").From("job_runs").
		Where(qb.Eq("job_name", jobName)).
		OrderBy("started_at DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list job runs query: %w", err)
	}

	var rows []jobRunTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select job runs: %w", err)
	}

	out := make([]jobrun.Run, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
