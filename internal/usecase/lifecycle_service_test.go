package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fitclash/fitclash/internal/domain/competition"
	"github.com/fitclash/fitclash/internal/domain/entry"
	"github.com/fitclash/fitclash/internal/domain/notification"
	"github.com/fitclash/fitclash/internal/domain/participant"
)

func timePtr(v time.Time) *time.Time { return &v }

func floatPtr(v float64) *float64 { return &v }

func newLifecycleFixture(comps ...competition.Competition) (*LifecycleService, *stubCompetitionRepository, *stubParticipantRepository, *stubEntryRepository, *stubStandingsRepository, *stubNotificationRepository, *stubJobRunRepository) {
	compRepo := newStubCompetitionRepository(comps...)
	partRepo := newStubParticipantRepository()
	entryRepo := &stubEntryRepository{}
	standingsRepo := newStubStandingsRepository()
	notifRepo := &stubNotificationRepository{}
	jobRunRepo := &stubJobRunRepository{}

	standingsSvc := NewStandingsService(compRepo, partRepo, standingsRepo)
	svc := NewLifecycleService(
		compRepo, partRepo, entryRepo, standingsRepo, standingsSvc,
		notifRepo, jobRunRepo, &seqIDGenerator{}, LifecycleConfig{}, nil,
	)
	return svc, compRepo, partRepo, entryRepo, standingsRepo, notifRepo, jobRunRepo
}

func TestLifecycleService_StartPending_SeedsBaselinesAndNotifies(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	comp := competition.Competition{
		ID:           "comp-1",
		Name:         "Summer Shred",
		Type:         competition.TypeWeightLoss,
		Status:       competition.StatusPending,
		DurationDays: 30,
		StartDate:    timePtr(now.Add(-time.Hour)),
		EndDate:      timePtr(now.AddDate(0, 0, 30)),
	}
	svc, compRepo, partRepo, entryRepo, standingsRepo, notifRepo, jobRunRepo := newLifecycleFixture(comp)

	_ = partRepo.Create(context.Background(), participant.Participant{
		ID: "p1", CompetitionID: "comp-1", UserID: "alice", IsActive: true,
	})
	_ = partRepo.Create(context.Background(), participant.Participant{
		ID: "p2", CompetitionID: "comp-1", UserID: "bob", IsActive: true,
	})
	_ = entryRepo.Create(context.Background(), entry.Entry{
		ID: "e1", UserID: "alice", Kind: entry.KindWeight, Value: 200,
		RecordedAt: now.Add(-24 * time.Hour),
	})

	result, err := svc.StartPending(context.Background())
	if err != nil {
		t.Fatalf("StartPending error: %v", err)
	}
	if result.Processed != 1 || result.Succeeded != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	got, _, _ := compRepo.GetByID(context.Background(), "comp-1")
	if got.Status != competition.StatusStarted {
		t.Fatalf("expected started status, got %s", got.Status)
	}

	alice, _, _ := partRepo.GetByCompetitionAndUser(context.Background(), "comp-1", "alice")
	if alice.StartingValue == nil || *alice.StartingValue != 200 {
		t.Fatalf("expected alice baseline 200, got %+v", alice.StartingValue)
	}
	bob, _, _ := partRepo.GetByCompetitionAndUser(context.Background(), "comp-1", "bob")
	if bob.StartingValue != nil {
		t.Fatalf("expected bob baseline to stay nil without entries")
	}

	if len(standingsRepo.seeded) != 2 {
		t.Fatalf("expected 2 seeded standings rows, got %d", len(standingsRepo.seeded))
	}
	if got := notifRepo.byKind(notification.KindCompetitionStarted); len(got) != 2 {
		t.Fatalf("expected 2 start notifications, got %d", len(got))
	}
	if len(jobRunRepo.runs) != 1 || jobRunRepo.runs[0].JobName != jobNameStartPending {
		t.Fatalf("expected one recorded job run, got %+v", jobRunRepo.runs)
	}
}

func TestLifecycleService_StartPending_SecondRunSkips(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	comp := competition.Competition{
		ID: "comp-1", Name: "Cut", Type: competition.TypeWeightLoss,
		Status: competition.StatusPending, StartDate: timePtr(now.Add(-time.Minute)),
	}
	svc, _, partRepo, _, standingsRepo, notifRepo, _ := newLifecycleFixture(comp)
	_ = partRepo.Create(context.Background(), participant.Participant{
		ID: "p1", CompetitionID: "comp-1", UserID: "alice", IsActive: true,
	})

	if _, err := svc.StartPending(context.Background()); err != nil {
		t.Fatalf("first StartPending error: %v", err)
	}
	second, err := svc.StartPending(context.Background())
	if err != nil {
		t.Fatalf("second StartPending error: %v", err)
	}
	if second.Processed != 0 && second.Skipped != second.Processed {
		t.Fatalf("expected second run to skip, got %+v", second)
	}

	if got := notifRepo.byKind(notification.KindCompetitionStarted); len(got) != 1 {
		t.Fatalf("expected exactly 1 start notification after rerun, got %d", len(got))
	}
	if len(standingsRepo.seeded) != 1 {
		t.Fatalf("expected 1 seeded row after rerun, got %d", len(standingsRepo.seeded))
	}
}

func TestLifecycleService_StartPending_IgnoresFutureStartDates(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	comp := competition.Competition{
		ID: "comp-1", Name: "Later", Type: competition.TypeWeightLoss,
		Status: competition.StatusPending, StartDate: timePtr(now.Add(48 * time.Hour)),
	}
	svc, compRepo, _, _, _, _, _ := newLifecycleFixture(comp)

	result, err := svc.StartPending(context.Background())
	if err != nil {
		t.Fatalf("StartPending error: %v", err)
	}
	if result.Processed != 0 {
		t.Fatalf("expected no competitions processed, got %d", result.Processed)
	}
	got, _, _ := compRepo.GetByID(context.Background(), "comp-1")
	if got.Status != competition.StatusPending {
		t.Fatalf("expected competition to stay pending, got %s", got.Status)
	}
}

func TestLifecycleService_FinalizeExpired_RanksWinnerAndNotifiesOnce(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	comp := competition.Competition{
		ID: "comp-1", Name: "Autumn Cut", Type: competition.TypeWeightLoss,
		Status: competition.StatusStarted, EndDate: timePtr(now.Add(-time.Hour)),
	}
	svc, compRepo, partRepo, _, standingsRepo, notifRepo, _ := newLifecycleFixture(comp)

	_ = partRepo.Create(context.Background(), participant.Participant{
		ID: "p1", CompetitionID: "comp-1", UserID: "alice", IsActive: true,
		StartingValue: floatPtr(200), CurrentValue: floatPtr(180),
	})
	_ = partRepo.Create(context.Background(), participant.Participant{
		ID: "p2", CompetitionID: "comp-1", UserID: "bob", IsActive: true,
		StartingValue: floatPtr(150), CurrentValue: floatPtr(145),
	})

	result, err := svc.FinalizeExpired(context.Background())
	if err != nil {
		t.Fatalf("FinalizeExpired error: %v", err)
	}
	if result.Succeeded != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	got, _, _ := compRepo.GetByID(context.Background(), "comp-1")
	if got.Status != competition.StatusCompleted {
		t.Fatalf("expected completed status, got %s", got.Status)
	}

	rows, _ := standingsRepo.ListCurrentByCompetition(context.Background(), "comp-1")
	if len(rows) != 2 {
		t.Fatalf("expected 2 final standings rows, got %d", len(rows))
	}
	if rows[0].UserID != "alice" || rows[0].Rank != 1 {
		t.Fatalf("expected alice to win, got %+v", rows[0])
	}

	done := notifRepo.byKind(notification.KindCompetitionCompleted)
	if len(done) != 2 {
		t.Fatalf("expected 2 completion notifications, got %d", len(done))
	}

	// A rerun must not notify again.
	rerun, err := svc.FinalizeExpired(context.Background())
	if err != nil {
		t.Fatalf("rerun FinalizeExpired error: %v", err)
	}
	if rerun.Processed != 0 {
		t.Fatalf("expected completed competition to drop out of the worklist, got %+v", rerun)
	}
	if got := notifRepo.byKind(notification.KindCompetitionCompleted); len(got) != 2 {
		t.Fatalf("rerun duplicated completion notifications: %d", len(got))
	}
}

func TestLifecycleService_SendDailyReminders_SkipsRecentLoggers(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	comp := competition.Competition{
		ID: "comp-1", Name: "Cut", Type: competition.TypeWeightLoss,
		Status: competition.StatusStarted, EndDate: timePtr(now.Add(24 * time.Hour)),
	}
	svc, _, partRepo, entryRepo, _, notifRepo, _ := newLifecycleFixture(comp)

	_ = partRepo.Create(context.Background(), participant.Participant{
		ID: "p1", CompetitionID: "comp-1", UserID: "active-user", IsActive: true,
	})
	_ = partRepo.Create(context.Background(), participant.Participant{
		ID: "p2", CompetitionID: "comp-1", UserID: "idle-user", IsActive: true,
	})
	_ = entryRepo.Create(context.Background(), entry.Entry{
		ID: "e1", UserID: "active-user", Kind: entry.KindWeight, Value: 180,
		RecordedAt: now.Add(-2 * time.Hour),
	})

	result, err := svc.SendDailyReminders(context.Background())
	if err != nil {
		t.Fatalf("SendDailyReminders error: %v", err)
	}
	if result.Processed != 2 || result.Succeeded != 1 || result.Skipped != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	reminders := notifRepo.byKind(notification.KindDailyReminder)
	if len(reminders) != 1 || reminders[0].UserID != "idle-user" {
		t.Fatalf("expected one reminder for idle-user, got %+v", reminders)
	}
	if reminders[0].PushQueuedAt == nil {
		t.Fatalf("expected reminder to be queued for push")
	}
}

func TestLifecycleService_ForceFinalize(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	comp := competition.Competition{
		ID: "comp-1", Name: "Spring Cut", Type: competition.TypeWeightLoss,
		Status: competition.StatusStarted,
		EndDate: timePtr(now.AddDate(0, 0, 10)),
	}
	svc, compRepo, partRepo, _, _, notifRepo, jobRunRepo := newLifecycleFixture(comp)

	_ = partRepo.Create(context.Background(), participant.Participant{
		ID: "p1", CompetitionID: "comp-1", UserID: "alice", IsActive: true,
		StartingValue: floatPtr(200), CurrentValue: floatPtr(180),
	})
	_ = partRepo.Create(context.Background(), participant.Participant{
		ID: "p2", CompetitionID: "comp-1", UserID: "bob", IsActive: true,
		StartingValue: floatPtr(150), CurrentValue: floatPtr(145),
	})

	result, err := svc.ForceFinalize(context.Background(), "comp-1")
	if err != nil {
		t.Fatalf("ForceFinalize error: %v", err)
	}
	if result.Succeeded != 1 || result.Notification != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}

	got, _, _ := compRepo.GetByID(context.Background(), "comp-1")
	if got.Status != competition.StatusCompleted {
		t.Fatalf("expected completed status even before end date, got %s", got.Status)
	}
	if got := notifRepo.byKind(notification.KindCompetitionCompleted); len(got) != 2 {
		t.Fatalf("expected 2 completion notifications, got %d", len(got))
	}
	if len(jobRunRepo.runs) != 1 || jobRunRepo.runs[0].JobName != jobNameForceFinalize {
		t.Fatalf("expected one force-finalize job run, got %+v", jobRunRepo.runs)
	}
}

func TestLifecycleService_ForceFinalize_NotStarted(t *testing.T) {
	t.Parallel()

	comp := competition.Competition{
		ID: "comp-1", Name: "Pending", Type: competition.TypeWeightLoss,
		Status: competition.StatusPending,
	}
	svc, _, _, _, _, _, _ := newLifecycleFixture(comp)

	if _, err := svc.ForceFinalize(context.Background(), "comp-1"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for pending competition, got %v", err)
	}
	if _, err := svc.ForceFinalize(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown competition, got %v", err)
	}
}
