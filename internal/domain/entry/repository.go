package entry

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, item Entry) error
	ListByUser(ctx context.Context, userID string, kind Kind, limit int) ([]Entry, error)
	// LatestBefore returns the newest entry of the given kind recorded at or
	// before the cutoff; used to seed competition baselines.
	LatestBefore(ctx context.Context, userID string, kind Kind, cutoff time.Time) (Entry, bool, error)
	HasEntrySince(ctx context.Context, userID string, since time.Time) (bool, error)
}
