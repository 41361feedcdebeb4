package competition

import "context"

type Repository interface {
	Create(ctx context.Context, item Competition) error
	GetByID(ctx context.Context, competitionID string) (Competition, bool, error)
	List(ctx context.Context) ([]Competition, error)
	ListByStatus(ctx context.Context, status Status) ([]Competition, error)
	Update(ctx context.Context, item Competition) error
	// TransitionStatus flips status only when the stored row still carries
	// `from`; returns false when another invocation already moved it.
	TransitionStatus(ctx context.Context, competitionID string, from, to Status) (bool, error)
}
