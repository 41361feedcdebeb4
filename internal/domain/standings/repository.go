package standings

import "context"

type Repository interface {
	ListCurrentByCompetition(ctx context.Context, competitionID string) ([]Row, error)
	// ReplaceCurrent marks the competition's current snapshot rows as no
	// longer current and upserts the new set as the current one, atomically.
	ReplaceCurrent(ctx context.Context, competitionID string, rows []Row) error
	// SeedRow upserts an initial snapshot row keyed by competition and
	// participant, so running the start job twice cannot duplicate it.
	SeedRow(ctx context.Context, row Row) error
}
