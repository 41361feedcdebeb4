package apitoken

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, item Token) error
	GetBySecretHash(ctx context.Context, secretHash string) (Token, bool, error)
	ListByUser(ctx context.Context, userID string) ([]Token, error)
	Revoke(ctx context.Context, userID, tokenID string) error
	TouchLastUsed(ctx context.Context, tokenID string, at time.Time) error
}
