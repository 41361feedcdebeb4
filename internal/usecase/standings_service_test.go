package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/fitclash/fitclash/internal/domain/competition"
	"github.com/fitclash/fitclash/internal/domain/participant"
)

func TestStandingsService_Recalculate_WritesSnapshotAndRanks(t *testing.T) {
	t.Parallel()

	comp := competition.Competition{
		ID: "comp-1", Name: "Cut", Type: competition.TypeWeightLoss,
		Status: competition.StatusStarted,
	}
	compRepo := newStubCompetitionRepository(comp)
	partRepo := newStubParticipantRepository(
		participant.Participant{
			ID: "p1", CompetitionID: "comp-1", UserID: "alice", IsActive: true,
			StartingValue: floatPtr(200), CurrentValue: floatPtr(180),
		},
		participant.Participant{
			ID: "p2", CompetitionID: "comp-1", UserID: "bob", IsActive: true,
			StartingValue: floatPtr(150), CurrentValue: floatPtr(140),
		},
		participant.Participant{
			ID: "p3", CompetitionID: "comp-1", UserID: "carol", IsActive: true,
		},
	)
	standingsRepo := newStubStandingsRepository()
	svc := NewStandingsService(compRepo, partRepo, standingsRepo)

	rows, err := svc.Recalculate(context.Background(), "comp-1")
	if err != nil {
		t.Fatalf("Recalculate error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows (carol has no baseline), got %d", len(rows))
	}
	if rows[0].UserID != "alice" || rows[0].Rank != 1 {
		t.Fatalf("unexpected leader: %+v", rows[0])
	}
	if rows[1].UserID != "bob" || rows[1].Rank != 2 {
		t.Fatalf("unexpected runner-up: %+v", rows[1])
	}

	stored, _ := standingsRepo.ListCurrentByCompetition(context.Background(), "comp-1")
	if len(stored) != 2 {
		t.Fatalf("expected snapshot persisted, got %d rows", len(stored))
	}

	alice, _, _ := partRepo.GetByCompetitionAndUser(context.Background(), "comp-1", "alice")
	if alice.Rank != 1 {
		t.Fatalf("expected rank written back to participant, got %d", alice.Rank)
	}
	carol, _, _ := partRepo.GetByCompetitionAndUser(context.Background(), "comp-1", "carol")
	if carol.Rank != 0 {
		t.Fatalf("unrankable participants must keep rank 0, got %d", carol.Rank)
	}
}

func TestStandingsService_Recalculate_UnknownCompetition(t *testing.T) {
	t.Parallel()

	svc := NewStandingsService(newStubCompetitionRepository(), newStubParticipantRepository(), newStubStandingsRepository())
	if _, err := svc.Recalculate(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStandingsService_ListStandings_EmptyCompetition(t *testing.T) {
	t.Parallel()

	comp := competition.Competition{
		ID: "comp-1", Name: "Cut", Type: competition.TypeWeightLoss,
		Status: competition.StatusPending,
	}
	svc := NewStandingsService(newStubCompetitionRepository(comp), newStubParticipantRepository(), newStubStandingsRepository())

	rows, err := svc.ListStandings(context.Background(), "comp-1")
	if err != nil {
		t.Fatalf("ListStandings error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty standings, got %d rows", len(rows))
	}
}
