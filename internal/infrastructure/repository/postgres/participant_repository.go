package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fitclash/fitclash/internal/domain/participant"
	qb "github.com/fitclash/fitclash/internal/platform/querybuilder"
)

type ParticipantRepository struct {
	db *sqlx.DB
}

func NewParticipantRepository(db *sqlx.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

func (r *ParticipantRepository) Create(ctx context.Context, item participant.Participant) error {
	model := participantInsertModel{
		PublicID:      item.ID,
		CompetitionID: item.CompetitionID,
		UserID:        item.UserID,
		StartingValue: ptrToNullFloat64(item.StartingValue),
		CurrentValue:  ptrToNullFloat64(item.CurrentValue),
		IsActive:      item.IsActive,
		JoinedAt:      item.JoinedAt,
	}

	query, args, err := qb.InsertModel("participants", model, "")
	if err != nil {
		return fmt.Errorf("build insert participant query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert participant: %w", err)
	}

	return nil
}

func (r *ParticipantRepository) GetByCompetitionAndUser(ctx context.Context, competitionID, userID string) (participant.Participant, bool, error) {
	query, args, err := qb.Select("*").From("participants").
		Where(
			qb.Eq("competition_public_id", competitionID),
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return participant.Participant{}, false, fmt.Errorf("build get participant query: %w", err)
	}

	var row participantTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return participant.Participant{}, false, nil
		}
		return participant.Participant{}, false, fmt.Errorf("get participant: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *ParticipantRepository) ListActiveByCompetition(ctx context.Context, competitionID string) ([]participant.Participant, error) {
	query, args, err := qb.Select("*").From("participants").
		Where(
			qb.Eq("competition_public_id", competitionID),
			qb.Eq("is_active", true),
			qb.IsNull("deleted_at"),
		).
		OrderBy("joined_at ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list participants query: %w", err)
	}

	var rows []participantTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select participants: %w", err)
	}

	out := make([]participant.Participant, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *ParticipantRepository) ListActiveByUser(ctx context.Context, userID string) ([]participant.Participant, error) {
	query, args, err := qb.Select("*").From("participants").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("is_active", true),
			qb.IsNull("deleted_at"),
		).
		OrderBy("joined_at ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list participants by user query: %w", err)
	}

	var rows []participantTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select participants by user: %w", err)
	}

	out := make([]participant.Participant, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *ParticipantRepository) UpdateValues(ctx context.Context, participantID string, starting, current *float64) error {
	query, args, err := qb.Update("participants").
		Set("starting_value", ptrToNullFloat64(starting)).
		Set("current_value", ptrToNullFloat64(current)).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", participantID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update participant values query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update participant values: %w", err)
	}

	return nil
}

func (r *ParticipantRepository) UpdateRanks(ctx context.Context, competitionID string, rankByParticipantID map[string]int) error {
	if len(rankByParticipantID) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update ranks tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for participantID, rank := range rankByParticipantID {
		query, args, err := qb.Update("participants").
			Set("rank", rank).
			SetExpr("updated_at", "NOW()").
			Where(
				qb.Eq("public_id", participantID),
				qb.Eq("competition_public_id", competitionID),
				qb.IsNull("deleted_at"),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build update rank query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update rank for participant %s: %w", participantID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update ranks tx: %w", err)
	}

	return nil
}

func (r *ParticipantRepository) Deactivate(ctx context.Context, competitionID, userID string) error {
	query, args, err := qb.Update("participants").
		Set("is_active", false).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("competition_public_id", competitionID),
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build deactivate participant query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deactivate participant: %w", err)
	}

	return nil
}
