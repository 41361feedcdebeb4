package cache

import (
	"context"

	"github.com/fitclash/fitclash/internal/domain/competition"
	"github.com/fitclash/fitclash/internal/domain/standings"
	basecache "github.com/fitclash/fitclash/internal/platform/cache"
)

type CompetitionRepository struct {
	next  competition.Repository
	cache *basecache.Store
}

func NewCompetitionRepository(next competition.Repository, cache *basecache.Store) *CompetitionRepository {
	return &CompetitionRepository{next: next, cache: cache}
}

func (r *CompetitionRepository) Create(ctx context.Context, item competition.Competition) error {
	if err := r.next.Create(ctx, item); err != nil {
		return err
	}
	r.cache.Delete(ctx, "competition:list")
	r.cache.DeletePrefix(ctx, "competition:status:")
	return nil
}

func (r *CompetitionRepository) GetByID(ctx context.Context, competitionID string) (competition.Competition, bool, error) {
	key := "competition:id:" + competitionID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, competitionID)
		if err != nil {
			return nil, err
		}
		return cachedCompetitionByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return competition.Competition{}, false, err
	}

	cached, _ := v.(cachedCompetitionByID)
	return cached.value, cached.exists, nil
}

func (r *CompetitionRepository) List(ctx context.Context) ([]competition.Competition, error) {
	v, err := r.cache.GetOrLoad(ctx, "competition:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]competition.Competition(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]competition.Competition)
	return append([]competition.Competition(nil), items...), nil
}

// ListByStatus bypasses the cache. The lifecycle jobs read it and a stale
// answer there would delay starts and finalizations by a full TTL.
func (r *CompetitionRepository) ListByStatus(ctx context.Context, status competition.Status) ([]competition.Competition, error) {
	return r.next.ListByStatus(ctx, status)
}

func (r *CompetitionRepository) Update(ctx context.Context, item competition.Competition) error {
	if err := r.next.Update(ctx, item); err != nil {
		return err
	}
	r.invalidate(ctx, item.ID)
	return nil
}

func (r *CompetitionRepository) TransitionStatus(ctx context.Context, competitionID string, from, to competition.Status) (bool, error) {
	moved, err := r.next.TransitionStatus(ctx, competitionID, from, to)
	if err != nil {
		return false, err
	}
	if moved {
		r.invalidate(ctx, competitionID)
	}
	return moved, nil
}

func (r *CompetitionRepository) invalidate(ctx context.Context, competitionID string) {
	r.cache.Delete(ctx, "competition:id:"+competitionID)
	r.cache.Delete(ctx, "competition:list")
	r.cache.DeletePrefix(ctx, "competition:status:")
}

type cachedCompetitionByID struct {
	value  competition.Competition
	exists bool
}

type StandingsRepository struct {
	next  standings.Repository
	cache *basecache.Store
}

func NewStandingsRepository(next standings.Repository, cache *basecache.Store) *StandingsRepository {
	return &StandingsRepository{next: next, cache: cache}
}

func (r *StandingsRepository) ListCurrentByCompetition(ctx context.Context, competitionID string) ([]standings.Row, error) {
	key := standingsKey(competitionID)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListCurrentByCompetition(ctx, competitionID)
		if err != nil {
			return nil, err
		}
		return append([]standings.Row(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]standings.Row)
	return append([]standings.Row(nil), items...), nil
}

func (r *StandingsRepository) ReplaceCurrent(ctx context.Context, competitionID string, rows []standings.Row) error {
	if err := r.next.ReplaceCurrent(ctx, competitionID, rows); err != nil {
		return err
	}
	r.cache.Delete(ctx, standingsKey(competitionID))
	return nil
}

func (r *StandingsRepository) SeedRow(ctx context.Context, row standings.Row) error {
	if err := r.next.SeedRow(ctx, row); err != nil {
		return err
	}
	r.cache.Delete(ctx, standingsKey(row.CompetitionID))
	return nil
}

func standingsKey(competitionID string) string {
	return "standings:current:" + competitionID
}
