package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/fitclash/fitclash/internal/domain/competition"
	"github.com/fitclash/fitclash/internal/domain/entry"
	"github.com/fitclash/fitclash/internal/domain/jobrun"
	"github.com/fitclash/fitclash/internal/domain/notification"
	"github.com/fitclash/fitclash/internal/domain/participant"
	"github.com/fitclash/fitclash/internal/domain/standings"
	"github.com/fitclash/fitclash/internal/platform/id"
	"github.com/fitclash/fitclash/internal/platform/logging"
)

const (
	jobNameStartPending    = "competitions_start_pending"
	jobNameFinalizeExpired = "competitions_finalize_expired"
	jobNameForceFinalize   = "competitions_force_finalize"
	jobNameDailyReminders  = "daily_reminders"

	lifecycleMaxWorkers = 4
)

type LifecycleConfig struct {
	// ReminderInactivity is how long a participant can go without logging
	// before the reminder job nudges them.
	ReminderInactivity time.Duration
}

type LifecycleService struct {
	competitionRepo  competition.Repository
	participantRepo  participant.Repository
	entryRepo        entry.Repository
	standingsRepo    standings.Repository
	standingsSvc     *StandingsService
	notificationRepo notification.Repository
	jobRunRepo       jobrun.Repository
	idGen            id.Generator
	cfg              LifecycleConfig
	logger           *logging.Logger
	now              func() time.Time
}

func NewLifecycleService(
	competitionRepo competition.Repository,
	participantRepo participant.Repository,
	entryRepo entry.Repository,
	standingsRepo standings.Repository,
	standingsSvc *StandingsService,
	notificationRepo notification.Repository,
	jobRunRepo jobrun.Repository,
	idGen id.Generator,
	cfg LifecycleConfig,
	logger *logging.Logger,
) *LifecycleService {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.ReminderInactivity <= 0 {
		cfg.ReminderInactivity = 24 * time.Hour
	}

	return &LifecycleService{
		competitionRepo:  competitionRepo,
		participantRepo:  participantRepo,
		entryRepo:        entryRepo,
		standingsRepo:    standingsRepo,
		standingsSvc:     standingsSvc,
		notificationRepo: notificationRepo,
		jobRunRepo:       jobRunRepo,
		idGen:            idGen,
		cfg:              cfg,
		logger:           logger,
		now:              time.Now,
	}
}

type LifecycleRunResult struct {
	JobName      string   `json:"job_name"`
	Processed    int      `json:"processed"`
	Succeeded    int      `json:"succeeded"`
	Failed       int      `json:"failed"`
	Skipped      int      `json:"skipped"`
	DurationMs   int64    `json:"duration_ms"`
	FailedIDs    []string `json:"failed_ids,omitempty"`
	Notification int      `json:"notifications_created"`
}

// StartPending moves pending competitions whose start date has arrived into
// the started state, seeds every active participant's baseline from their
// latest weight entry, and queues the start notifications. Competitions that
// lost the status transition race are counted as skipped, so the job is safe
// to run from overlapping cron ticks.
func (s *LifecycleService) StartPending(ctx context.Context) (LifecycleRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LifecycleService.StartPending")
	defer span.End()

	started := s.now().UTC()
	result := LifecycleRunResult{JobName: jobNameStartPending}

	pending, err := s.competitionRepo.ListByStatus(ctx, competition.StatusPending)
	if err != nil {
		s.recordRun(ctx, result, started, err)
		return result, fmt.Errorf("list pending competitions: %w", err)
	}

	due := make([]competition.Competition, 0, len(pending))
	for _, comp := range pending {
		if comp.StartDate != nil && !comp.StartDate.After(started) {
			due = append(due, comp)
		}
	}
	result.Processed = len(due)

	var succeeded, failed, skipped, notifications atomic.Int32
	var mu sync.Mutex
	var failedIDs []string

	workers := pool.New().WithMaxGoroutines(lifecycleMaxWorkers)
	for _, comp := range due {
		comp := comp
		workers.Go(func() {
			moved, count, err := s.startOne(ctx, comp, started)
			switch {
			case err != nil:
				failed.Add(1)
				mu.Lock()
				failedIDs = append(failedIDs, comp.ID)
				mu.Unlock()
				s.logger.ErrorContext(ctx, "start competition failed",
					"competition_id", comp.ID, "error", err)
			case !moved:
				skipped.Add(1)
			default:
				succeeded.Add(1)
				notifications.Add(int32(count))
			}
		})
	}
	workers.Wait()

	result.Succeeded = int(succeeded.Load())
	result.Failed = int(failed.Load())
	result.Skipped = int(skipped.Load())
	result.Notification = int(notifications.Load())
	result.FailedIDs = failedIDs
	result.DurationMs = time.Since(started).Milliseconds()

	s.recordRun(ctx, result, started, nil)
	return result, nil
}

func (s *LifecycleService) startOne(ctx context.Context, comp competition.Competition, nowTime time.Time) (bool, int, error) {
	moved, err := s.competitionRepo.TransitionStatus(ctx, comp.ID, competition.StatusPending, competition.StatusStarted)
	if err != nil {
		return false, 0, fmt.Errorf("transition to started: %w", err)
	}
	if !moved {
		return false, 0, nil
	}

	participants, err := s.participantRepo.ListActiveByCompetition(ctx, comp.ID)
	if err != nil {
		return true, 0, fmt.Errorf("list participants: %w", err)
	}

	created := 0
	for _, member := range participants {
		if comp.IsWeightBased() && member.StartingValue == nil {
			baseline, found, err := s.entryRepo.LatestBefore(ctx, member.UserID, entry.KindWeight, nowTime)
			if err != nil {
				return true, created, fmt.Errorf("load baseline for user %s: %w", member.UserID, err)
			}
			if found {
				value := baseline.Value
				current := baseline.Value
				if err := s.participantRepo.UpdateValues(ctx, member.ID, &value, &current); err != nil {
					return true, created, fmt.Errorf("seed baseline for user %s: %w", member.UserID, err)
				}
			}
		}

		if err := s.standingsRepo.SeedRow(ctx, standings.Row{
			CompetitionID: comp.ID,
			ParticipantID: member.ID,
			UserID:        member.UserID,
			IsCurrent:     true,
			CalculatedAt:  nowTime,
		}); err != nil {
			return true, created, fmt.Errorf("seed standings row for user %s: %w", member.UserID, err)
		}

		if err := s.queueNotification(ctx, member.UserID, notification.KindCompetitionStarted,
			fmt.Sprintf("%s has started", comp.Name),
			fmt.Sprintf("The competition %q is underway. Log your entries to climb the standings.", comp.Name),
			nowTime,
		); err != nil {
			return true, created, err
		}
		created++
	}

	return true, created, nil
}

// FinalizeExpired completes started competitions whose end date has passed.
// The standings are recalculated one final time before the status flips, and
// the completion notifications are queued only by the invocation that wins
// the transition, so retries cannot double-notify.
func (s *LifecycleService) FinalizeExpired(ctx context.Context) (LifecycleRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LifecycleService.FinalizeExpired")
	defer span.End()

	started := s.now().UTC()
	result := LifecycleRunResult{JobName: jobNameFinalizeExpired}

	active, err := s.competitionRepo.ListByStatus(ctx, competition.StatusStarted)
	if err != nil {
		s.recordRun(ctx, result, started, err)
		return result, fmt.Errorf("list started competitions: %w", err)
	}

	due := make([]competition.Competition, 0, len(active))
	for _, comp := range active {
		if comp.EndDate != nil && !comp.EndDate.After(started) {
			due = append(due, comp)
		}
	}
	result.Processed = len(due)

	var succeeded, failed, skipped, notifications atomic.Int32
	var mu sync.Mutex
	var failedIDs []string

	workers := pool.New().WithMaxGoroutines(lifecycleMaxWorkers)
	for _, comp := range due {
		comp := comp
		workers.Go(func() {
			moved, count, err := s.finalizeOne(ctx, comp, started)
			switch {
			case err != nil:
				failed.Add(1)
				mu.Lock()
				failedIDs = append(failedIDs, comp.ID)
				mu.Unlock()
				s.logger.ErrorContext(ctx, "finalize competition failed",
					"competition_id", comp.ID, "error", err)
			case !moved:
				skipped.Add(1)
			default:
				succeeded.Add(1)
				notifications.Add(int32(count))
			}
		})
	}
	workers.Wait()

	result.Succeeded = int(succeeded.Load())
	result.Failed = int(failed.Load())
	result.Skipped = int(skipped.Load())
	result.Notification = int(notifications.Load())
	result.FailedIDs = failedIDs
	result.DurationMs = time.Since(started).Milliseconds()

	s.recordRun(ctx, result, started, nil)
	return result, nil
}

func (s *LifecycleService) finalizeOne(ctx context.Context, comp competition.Competition, nowTime time.Time) (bool, int, error) {
	rows, err := s.standingsSvc.Recalculate(ctx, comp.ID)
	if err != nil {
		return false, 0, fmt.Errorf("final recalculation: %w", err)
	}

	moved, err := s.competitionRepo.TransitionStatus(ctx, comp.ID, competition.StatusStarted, competition.StatusCompleted)
	if err != nil {
		return false, 0, fmt.Errorf("transition to completed: %w", err)
	}
	if !moved {
		return false, 0, nil
	}

	var winnerUserID string
	for _, row := range rows {
		if row.Rank == 1 {
			winnerUserID = row.UserID
			break
		}
	}

	participants, err := s.participantRepo.ListActiveByCompetition(ctx, comp.ID)
	if err != nil {
		return true, 0, fmt.Errorf("list participants: %w", err)
	}

	created := 0
	for _, member := range participants {
		body := fmt.Sprintf("The competition %q has ended. Check the final standings.", comp.Name)
		if winnerUserID != "" && member.UserID == winnerUserID {
			body = fmt.Sprintf("You won %q! Check the final standings.", comp.Name)
		}
		if err := s.queueNotification(ctx, member.UserID, notification.KindCompetitionCompleted,
			fmt.Sprintf("%s has ended", comp.Name), body, nowTime,
		); err != nil {
			return true, created, err
		}
		created++
	}

	return true, created, nil
}

// ForceFinalize completes a single started competition ahead of its end
// date. It runs the same final recalculation and notification fan-out as the
// scheduled finalize job and records its own job run.
func (s *LifecycleService) ForceFinalize(ctx context.Context, competitionID string) (LifecycleRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LifecycleService.ForceFinalize")
	defer span.End()

	started := s.now().UTC()
	result := LifecycleRunResult{JobName: jobNameForceFinalize, Processed: 1}

	comp, exists, err := s.competitionRepo.GetByID(ctx, competitionID)
	if err != nil {
		return result, fmt.Errorf("get competition: %w", err)
	}
	if !exists {
		return result, fmt.Errorf("%w: competition=%s", ErrNotFound, competitionID)
	}
	if comp.Status != competition.StatusStarted {
		return result, fmt.Errorf("%w: competition %s is not started", ErrConflict, comp.ID)
	}

	moved, count, err := s.finalizeOne(ctx, comp, started)
	switch {
	case err != nil:
		result.Failed = 1
		result.FailedIDs = []string{comp.ID}
		result.DurationMs = time.Since(started).Milliseconds()
		s.recordRun(ctx, result, started, err)
		return result, fmt.Errorf("finalize competition %s: %w", comp.ID, err)
	case !moved:
		result.Skipped = 1
	default:
		result.Succeeded = 1
		result.Notification = count
	}
	result.DurationMs = time.Since(started).Milliseconds()

	s.recordRun(ctx, result, started, nil)
	return result, nil
}

// SendDailyReminders queues a nudge for every active participant of a
// started competition who has not logged anything within the inactivity
// window. One reminder per user per run, however many competitions they sit
// in.
func (s *LifecycleService) SendDailyReminders(ctx context.Context) (LifecycleRunResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LifecycleService.SendDailyReminders")
	defer span.End()

	started := s.now().UTC()
	result := LifecycleRunResult{JobName: jobNameDailyReminders}

	active, err := s.competitionRepo.ListByStatus(ctx, competition.StatusStarted)
	if err != nil {
		s.recordRun(ctx, result, started, err)
		return result, fmt.Errorf("list started competitions: %w", err)
	}

	seen := make(map[string]struct{})
	cutoff := started.Add(-s.cfg.ReminderInactivity)

	for _, comp := range active {
		participants, err := s.participantRepo.ListActiveByCompetition(ctx, comp.ID)
		if err != nil {
			s.recordRun(ctx, result, started, err)
			return result, fmt.Errorf("list participants for %s: %w", comp.ID, err)
		}

		for _, member := range participants {
			if _, dup := seen[member.UserID]; dup {
				continue
			}
			seen[member.UserID] = struct{}{}
			result.Processed++

			hasRecent, err := s.entryRepo.HasEntrySince(ctx, member.UserID, cutoff)
			if err != nil {
				result.Failed++
				result.FailedIDs = append(result.FailedIDs, member.UserID)
				s.logger.WarnContext(ctx, "reminder eligibility check failed",
					"user_id", member.UserID, "error", err)
				continue
			}
			if hasRecent {
				result.Skipped++
				continue
			}

			if err := s.queueNotification(ctx, member.UserID, notification.KindDailyReminder,
				"Don't lose your streak",
				"You haven't logged an entry today. A quick weigh-in keeps your standings fresh.",
				started,
			); err != nil {
				result.Failed++
				result.FailedIDs = append(result.FailedIDs, member.UserID)
				s.logger.WarnContext(ctx, "queue reminder failed",
					"user_id", member.UserID, "error", err)
				continue
			}
			result.Succeeded++
			result.Notification++
		}
	}

	result.DurationMs = time.Since(started).Milliseconds()
	s.recordRun(ctx, result, started, nil)
	return result, nil
}

func (s *LifecycleService) queueNotification(ctx context.Context, userID string, kind notification.Kind, title, body string, nowTime time.Time) error {
	newID, err := s.idGen.NewID()
	if err != nil {
		return fmt.Errorf("generate notification id: %w", err)
	}

	queuedAt := nowTime
	item := notification.Notification{
		ID:           newID,
		UserID:       userID,
		Kind:         kind,
		Title:        title,
		Body:         body,
		PushQueuedAt: &queuedAt,
		CreatedAt:    nowTime,
	}
	if err := s.notificationRepo.Create(ctx, item); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	return nil
}

func (s *LifecycleService) recordRun(ctx context.Context, result LifecycleRunResult, startedAt time.Time, runErr error) {
	if s.jobRunRepo == nil {
		return
	}

	status := jobrun.StatusCompleted
	errMsg := ""
	if runErr != nil {
		status = jobrun.StatusFailed
		errMsg = runErr.Error()
	}

	runID, err := s.idGen.NewID()
	if err != nil {
		s.logger.WarnContext(ctx, "generate job run id failed", "job", result.JobName, "error", err)
		return
	}

	if err := s.jobRunRepo.Record(ctx, jobrun.Run{
		ID:         runID,
		JobName:    result.JobName,
		Status:     status,
		Processed:  result.Processed,
		Succeeded:  result.Succeeded,
		Failed:     result.Failed,
		Skipped:    result.Skipped,
		Error:      errMsg,
		StartedAt:  startedAt,
		FinishedAt: s.now().UTC(),
	}); err != nil {
		s.logger.WarnContext(ctx, "record job run failed", "job", result.JobName, "error", err)
	}
}
