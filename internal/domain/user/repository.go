package user

import "context"

// Profile is the subset of account data this service owns.
type Profile struct {
	ID          string
	DisplayName string
	Roles       []string
}

type Repository interface {
	GetByID(ctx context.Context, userID string) (Profile, bool, error)
	ListRoles(ctx context.Context, userID string) ([]string, error)
}
