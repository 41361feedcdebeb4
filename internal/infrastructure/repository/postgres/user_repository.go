package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/fitclash/fitclash/internal/domain/user"
	qb "github.com/fitclash/fitclash/internal/platform/querybuilder"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.Profile, bool, error) {
	query, args, err := qb.Select("*").From("users").
		Where(
			qb.Eq("public_id", userID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return user.Profile{}, false, fmt.Errorf("build get user query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.Profile{}, false, nil
		}
		return user.Profile{}, false, fmt.Errorf("get user: %w", err)
	}

	roles, err := r.ListRoles(ctx, userID)
	if err != nil {
		return user.Profile{}, false, err
	}

	return user.Profile{
		ID:          row.PublicID,
		DisplayName: row.DisplayName,
		Roles:       roles,
	}, true, nil
}

func (r *UserRepository) ListRoles(ctx context.Context, userID string) ([]string, error) {
	query, args, err := qb.Select("role").From("user_roles").
		Where(qb.Eq("user_public_id", userID)).
		OrderBy("role ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list user roles query: %w", err)
	}

	var roles []string
	if err := r.db.SelectContext(ctx, &roles, query, args...); err != nil {
		return nil, fmt.Errorf("select user roles: %w", err)
	}

	return roles, nil
}
