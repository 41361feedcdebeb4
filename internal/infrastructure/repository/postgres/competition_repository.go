package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fitclash/fitclash/internal/domain/competition"
	qb "github.com/fitclash/fitclash/internal/platform/querybuilder"
)

type CompetitionRepository struct {
	db *sqlx.DB
}

func NewCompetitionRepository(db *sqlx.DB) *CompetitionRepository {
	return &CompetitionRepository{db: db}
}

func (r *CompetitionRepository) Create(ctx context.Context, item competition.Competition) error {
	model := competitionInsertModel{
		PublicID:     item.ID,
		Name:         item.Name,
		Type:         string(item.Type),
		Status:       string(item.Status),
		ActivityType: item.ActivityType,
		DurationDays: item.DurationDays,
		StartDate:    item.StartDate,
		EndDate:      item.EndDate,
		CreatedBy:    item.CreatedBy,
	}

	query, args, err := qb.InsertModel("competitions", model, "")
	if err != nil {
		return fmt.Errorf("build insert competition query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert competition: %w", err)
	}

	return nil
}

func (r *CompetitionRepository) GetByID(ctx context.Context, competitionID string) (competition.Competition, bool, error) {
	query, args, err := qb.Select("*").From("competitions").
		Where(
			qb.Eq("public_id", competitionID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return competition.Competition{}, false, fmt.Errorf("build get competition query: %w", err)
	}

	var row competitionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return competition.Competition{}, false, nil
		}
		return competition.Competition{}, false, fmt.Errorf("get competition by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *CompetitionRepository) List(ctx context.Context) ([]competition.Competition, error) {
	query, args, err := qb.Select("*").From("competitions").
		Where(qb.IsNull("deleted_at")).
		OrderBy("created_at DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list competitions query: %w", err)
	}

	var rows []competitionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select competitions: %w", err)
	}

	out := make([]competition.Competition, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *CompetitionRepository) ListByStatus(ctx context.Context, status competition.Status) ([]competition.Competition, error) {
	query, args, err := qb.Select("*").From("competitions").
		Where(
			qb.Eq("status", string(status)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("start_date ASC NULLS LAST").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list competitions by status query: %w", err)
	}

	var rows []competitionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select competitions by status: %w", err)
	}

	out := make([]competition.Competition, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *CompetitionRepository) Update(ctx context.Context, item competition.Competition) error {
	query, args, err := qb.Update("competitions").
		Set("name", item.Name).
		Set("activity_type", item.ActivityType).
		Set("duration_days", item.DurationDays).
		Set("start_date", item.StartDate).
		Set("end_date", item.EndDate).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", item.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update competition query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update competition: %w", err)
	}

	return nil
}

// TransitionStatus is a guarded update: the row only moves when it still
// carries the expected `from` status, which makes concurrent cron ticks
// race-safe.
func (r *CompetitionRepository) TransitionStatus(ctx context.Context, competitionID string, from, to competition.Status) (bool, error) {
	query, args, err := qb.Update("competitions").
		Set("status", string(to)).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", competitionID),
			qb.Eq("status", string(from)),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build transition status query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("transition competition status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read affected rows: %w", err)
	}

	return affected == 1, nil
}
