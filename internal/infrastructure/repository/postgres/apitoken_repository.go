package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fitclash/fitclash/internal/domain/apitoken"
	qb "github.com/fitclash/fitclash/internal/platform/querybuilder"
)

type APITokenRepository struct {
	db *sqlx.DB
}

func NewAPITokenRepository(db *sqlx.DB) *APITokenRepository {
	return &APITokenRepository{db: db}
}

func (r *APITokenRepository) Create(ctx context.Context, item apitoken.Token) error {
	model := apiTokenInsertModel{
		PublicID:   item.ID,
		UserID:     item.UserID,
		SecretHash: item.SecretHash,
		Label:      item.Label,
		IsActive:   item.IsActive,
		ExpiresAt:  item.ExpiresAt,
	}

	query, args, err := qb.InsertModel("api_tokens", model, "")
	if err != nil {
		return fmt.Errorf("build insert api token query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert api token: %w", err)
	}

	return nil
}

func (r *APITokenRepository) GetBySecretHash(ctx context.Context, secretHash string) (apitoken.Token, bool, error) {
	query, args, err := qb.Select("*").From("api_tokens").
		Where(
			qb.Eq("secret_hash", secretHash),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return apitoken.Token{}, false, fmt.Errorf("build get api token query: %w", err)
	}

	var row apiTokenTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return apitoken.Token{}, false, nil
		}
		return apitoken.Token{}, false, fmt.Errorf("get api token: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *APITokenRepository) ListByUser(ctx context.Context, userID string) ([]apitoken.Token, error) {
	query, args, err := qb.Select("*").From("api_tokens").
		Where(
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("created_at DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list api tokens query: %w", err)
	}

	var rows []apiTokenTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select api tokens: %w", err)
	}

	out := make([]apitoken.Token, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *APITokenRepository) Revoke(ctx context.Context, userID, tokenID string) error {
	query, args, err := qb.Update("api_tokens").
		Set("is_active", false).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", tokenID),
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build revoke api token query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("revoke api token: %w", err)
	}

	return nil
}

func (r *APITokenRepository) TouchLastUsed(ctx context.Context, tokenID string, at time.Time) error {
	query, args, err := qb.Update("api_tokens").
		Set("last_used_at", at).
		Where(
			qb.Eq("public_id", tokenID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build touch api token query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("touch api token: %w", err)
	}

	return nil
}
