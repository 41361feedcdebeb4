package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fitclash/fitclash/internal/domain/competition"
	"github.com/fitclash/fitclash/internal/domain/entry"
	"github.com/fitclash/fitclash/internal/domain/participant"
)

func newEntryFixture(comps ...competition.Competition) (*EntryService, *stubCompetitionRepository, *stubParticipantRepository, *stubEntryRepository, *stubStandingsRepository) {
	compRepo := newStubCompetitionRepository(comps...)
	partRepo := newStubParticipantRepository()
	entryRepo := &stubEntryRepository{}
	standingsRepo := newStubStandingsRepository()
	standingsSvc := NewStandingsService(compRepo, partRepo, standingsRepo)
	svc := NewEntryService(entryRepo, compRepo, partRepo, standingsSvc, &seqIDGenerator{}, nil)
	return svc, compRepo, partRepo, entryRepo, standingsRepo
}

func TestEntryService_LogEntry_UpdatesParticipantsAndStandings(t *testing.T) {
	t.Parallel()

	comp := competition.Competition{
		ID: "comp-1", Name: "Cut", Type: competition.TypeWeightLoss,
		Status: competition.StatusStarted,
	}
	svc, _, partRepo, entryRepo, standingsRepo := newEntryFixture(comp)
	_ = partRepo.Create(context.Background(), participant.Participant{
		ID: "p1", CompetitionID: "comp-1", UserID: "alice", IsActive: true,
		StartingValue: floatPtr(200), CurrentValue: floatPtr(200),
	})

	result, err := svc.LogEntry(context.Background(), LogEntryInput{
		UserID: "alice", Kind: "weight", Value: 180,
	})
	if err != nil {
		t.Fatalf("LogEntry error: %v", err)
	}
	if len(result.UpdatedCompetitions) != 1 || result.UpdatedCompetitions[0] != "comp-1" {
		t.Fatalf("unexpected updated competitions: %+v", result.UpdatedCompetitions)
	}
	if result.StandingsRecalcError {
		t.Fatalf("unexpected standings recalc error flag")
	}
	if len(entryRepo.entries) != 1 {
		t.Fatalf("expected entry stored, got %d", len(entryRepo.entries))
	}

	alice, _, _ := partRepo.GetByCompetitionAndUser(context.Background(), "comp-1", "alice")
	if alice.CurrentValue == nil || *alice.CurrentValue != 180 {
		t.Fatalf("expected current value 180, got %+v", alice.CurrentValue)
	}
	if alice.StartingValue == nil || *alice.StartingValue != 200 {
		t.Fatalf("baseline must not move on later entries, got %+v", alice.StartingValue)
	}
	if alice.Rank != 1 {
		t.Fatalf("expected rank 1 written back, got %d", alice.Rank)
	}

	rows, _ := standingsRepo.ListCurrentByCompetition(context.Background(), "comp-1")
	if len(rows) != 1 || rows[0].ChangePercent != 10 {
		t.Fatalf("unexpected standings rows: %+v", rows)
	}
}

func TestEntryService_LogEntry_FirstEntrySeedsBaseline(t *testing.T) {
	t.Parallel()

	comp := competition.Competition{
		ID: "comp-1", Name: "Cut", Type: competition.TypeWeightLoss,
		Status: competition.StatusStarted,
	}
	svc, _, partRepo, _, _ := newEntryFixture(comp)
	_ = partRepo.Create(context.Background(), participant.Participant{
		ID: "p1", CompetitionID: "comp-1", UserID: "alice", IsActive: true,
	})

	if _, err := svc.LogEntry(context.Background(), LogEntryInput{
		UserID: "alice", Kind: "weight", Value: 195,
	}); err != nil {
		t.Fatalf("LogEntry error: %v", err)
	}

	alice, _, _ := partRepo.GetByCompetitionAndUser(context.Background(), "comp-1", "alice")
	if alice.StartingValue == nil || *alice.StartingValue != 195 {
		t.Fatalf("expected first entry to seed baseline, got %+v", alice.StartingValue)
	}
	if alice.CurrentValue == nil || *alice.CurrentValue != 195 {
		t.Fatalf("expected current value 195, got %+v", alice.CurrentValue)
	}
}

func TestEntryService_LogEntry_SkipsPendingCompetitions(t *testing.T) {
	t.Parallel()

	comp := competition.Competition{
		ID: "comp-1", Name: "Soon", Type: competition.TypeWeightLoss,
		Status: competition.StatusPending,
	}
	svc, _, partRepo, _, _ := newEntryFixture(comp)
	_ = partRepo.Create(context.Background(), participant.Participant{
		ID: "p1", CompetitionID: "comp-1", UserID: "alice", IsActive: true,
	})

	result, err := svc.LogEntry(context.Background(), LogEntryInput{
		UserID: "alice", Kind: "weight", Value: 190,
	})
	if err != nil {
		t.Fatalf("LogEntry error: %v", err)
	}
	if len(result.UpdatedCompetitions) != 0 {
		t.Fatalf("pending competitions must not be updated: %+v", result.UpdatedCompetitions)
	}

	alice, _, _ := partRepo.GetByCompetitionAndUser(context.Background(), "comp-1", "alice")
	if alice.CurrentValue != nil {
		t.Fatalf("expected participant values untouched, got %+v", alice.CurrentValue)
	}
}

func TestEntryService_LogEntry_Validation(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := newEntryFixture()

	cases := []struct {
		name  string
		input LogEntryInput
	}{
		{"missing user", LogEntryInput{Kind: "weight", Value: 180}},
		{"weight too low", LogEntryInput{UserID: "alice", Kind: "weight", Value: 5}},
		{"weight too high", LogEntryInput{UserID: "alice", Kind: "weight", Value: 900}},
		{"unknown kind", LogEntryInput{UserID: "alice", Kind: "mood", Value: 3}},
		{"future timestamp", LogEntryInput{
			UserID: "alice", Kind: "weight", Value: 180,
			RecordedAt: timePtr(time.Now().Add(48 * time.Hour)),
		}},
		{"non-positive activity", LogEntryInput{UserID: "alice", Kind: "activity", Activity: "steps", Value: 0}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := svc.LogEntry(context.Background(), tc.input); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestEntryService_LogEntry_ActivityEntryDoesNotTouchWeightCompetitions(t *testing.T) {
	t.Parallel()

	comp := competition.Competition{
		ID: "comp-1", Name: "Cut", Type: competition.TypeWeightLoss,
		Status: competition.StatusStarted,
	}
	svc, _, partRepo, entryRepo, _ := newEntryFixture(comp)
	_ = partRepo.Create(context.Background(), participant.Participant{
		ID: "p1", CompetitionID: "comp-1", UserID: "alice", IsActive: true,
		StartingValue: floatPtr(200), CurrentValue: floatPtr(200),
	})

	result, err := svc.LogEntry(context.Background(), LogEntryInput{
		UserID: "alice", Kind: "activity", Activity: "steps", Value: 12000,
	})
	if err != nil {
		t.Fatalf("LogEntry error: %v", err)
	}
	if len(result.UpdatedCompetitions) != 0 {
		t.Fatalf("activity entries must not update weight competitions")
	}
	if len(entryRepo.entries) != 1 || entryRepo.entries[0].Kind != entry.KindActivity {
		t.Fatalf("expected stored activity entry, got %+v", entryRepo.entries)
	}
}
