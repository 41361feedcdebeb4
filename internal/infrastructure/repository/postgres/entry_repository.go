package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fitclash/fitclash/internal/domain/entry"
	qb "github.com/fitclash/fitclash/internal/platform/querybuilder"
)

type EntryRepository struct {
	db *sqlx.DB
}

func NewEntryRepository(db *sqlx.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

func (r *EntryRepository) Create(ctx context.Context, item entry.Entry) error {
	model := entryInsertModel{
		PublicID:   item.ID,
		UserID:     item.UserID,
		Kind:       string(item.Kind),
		Activity:   item.Activity,
		Value:      item.Value,
		RecordedAt: item.RecordedAt,
	}

	query, args, err := qb.InsertModel("entries", model, "")
	if err != nil {
		return fmt.Errorf("build insert entry query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}

	return nil
}

func (r *EntryRepository) ListByUser(ctx context.Context, userID string, kind entry.Kind, limit int) ([]entry.Entry, error) {
	query, args, err := qb.Select("*").From("entries").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("kind", string(kind)),
			qb.IsNull("deleted_at"),
		).
		OrderBy("recorded_at DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list entries query: %w", err)
	}

	var rows []entryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select entries: %w", err)
	}

	out := make([]entry.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *EntryRepository) LatestBefore(ctx context.Context, userID string, kind entry.Kind, cutoff time.Time) (entry.Entry, bool, error) {
	query, args, err := qb.Select("*").From("entries").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("kind", string(kind)),
			qb.Expr("recorded_at <= ?", cutoff),
			qb.IsNull("deleted_at"),
		).
		OrderBy("recorded_at DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return entry.Entry{}, false, fmt.Errorf("build latest entry query: %w", err)
	}

	var row entryTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return entry.Entry{}, false, nil
		}
		return entry.Entry{}, false, fmt.Errorf("get latest entry: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *EntryRepository) HasEntrySince(ctx context.Context, userID string, since time.Time) (bool, error) {
	query, args, err := qb.Select("COUNT(1)").From("entries").
		Where(
			qb.Eq("user_id", userID),
			qb.Expr("recorded_at >= ?", since),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build has entry since query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("count recent entries: %w", err)
	}

	return count > 0, nil
}
