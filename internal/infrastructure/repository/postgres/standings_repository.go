package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fitclash/fitclash/internal/domain/standings"
	qb "github.com/fitclash/fitclash/internal/platform/querybuilder"
)

const standingsConflictSuffix = `ON CONFLICT (competition_public_id, participant_public_id)
DO UPDATE SET
    user_id = EXCLUDED.user_id,
    rank = EXCLUDED.rank,
    change_percent = EXCLUDED.change_percent,
    is_current = EXCLUDED.is_current,
    calculated_at = EXCLUDED.calculated_at,
    updated_at = NOW()`

// Seed rows must never clobber a snapshot an earlier run already wrote.
const standingsSeedConflictSuffix = `ON CONFLICT (competition_public_id, participant_public_id)
DO NOTHING`

type StandingsRepository struct {
	db *sqlx.DB
}

func NewStandingsRepository(db *sqlx.DB) *StandingsRepository {
	return &StandingsRepository{db: db}
}

func (r *StandingsRepository) ListCurrentByCompetition(ctx context.Context, competitionID string) ([]standings.Row, error) {
	query, args, err := qb.Select("*").From("standings").
		Where(
			qb.Eq("competition_public_id", competitionID),
			qb.Eq("is_current", true),
			qb.IsNull("deleted_at"),
		).
		OrderBy("rank ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list standings query: %w", err)
	}

	var rows []standingsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select standings: %w", err)
	}

	out := make([]standings.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *StandingsRepository) ReplaceCurrent(ctx context.Context, competitionID string, rows []standings.Row) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace standings tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	retireQuery, retireArgs, err := qb.Update("standings").
		Set("is_current", false).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("competition_public_id", competitionID),
			qb.Eq("is_current", true),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build retire standings query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, retireQuery, retireArgs...); err != nil {
		return fmt.Errorf("retire current standings: %w", err)
	}

	for _, row := range rows {
		model := standingsInsertModel{
			CompetitionID: row.CompetitionID,
			ParticipantID: row.ParticipantID,
			UserID:        row.UserID,
			Rank:          row.Rank,
			ChangePercent: row.ChangePercent,
			IsCurrent:     row.IsCurrent,
			CalculatedAt:  row.CalculatedAt,
		}
		query, args, err := qb.InsertModel("standings", model, standingsConflictSuffix)
		if err != nil {
			return fmt.Errorf("build upsert standings row query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert standings row for participant %s: %w", row.ParticipantID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace standings tx: %w", err)
	}

	return nil
}

func (r *StandingsRepository) SeedRow(ctx context.Context, row standings.Row) error {
	model := standingsInsertModel{
		CompetitionID: row.CompetitionID,
		ParticipantID: row.ParticipantID,
		UserID:        row.UserID,
		Rank:          row.Rank,
		ChangePercent: row.ChangePercent,
		IsCurrent:     row.IsCurrent,
		CalculatedAt:  row.CalculatedAt,
	}

	query, args, err := qb.InsertModel("standings", model, standingsSeedConflictSuffix)
	if err != nil {
		return fmt.Errorf("build seed standings row query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("seed standings row: %w", err)
	}

	return nil
}
