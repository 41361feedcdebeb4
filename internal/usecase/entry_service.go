package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fitclash/fitclash/internal/domain/competition"
	"github.com/fitclash/fitclash/internal/domain/entry"
	"github.com/fitclash/fitclash/internal/domain/participant"
	"github.com/fitclash/fitclash/internal/platform/id"
	"github.com/fitclash/fitclash/internal/platform/logging"
)

const (
	minWeightValue = 20
	maxWeightValue = 500

	defaultEntryListLimit = 50
	maxEntryListLimit     = 500
)

type EntryService struct {
	entryRepo       entry.Repository
	competitionRepo competition.Repository
	participantRepo participant.Repository
	standingsSvc    *StandingsService
	idGen           id.Generator
	logger          *logging.Logger
	now             func() time.Time
}

func NewEntryService(
	entryRepo entry.Repository,
	competitionRepo competition.Repository,
	participantRepo participant.Repository,
	standingsSvc *StandingsService,
	idGen id.Generator,
	logger *logging.Logger,
) *EntryService {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &EntryService{
		entryRepo:       entryRepo,
		competitionRepo: competitionRepo,
		participantRepo: participantRepo,
		standingsSvc:    standingsSvc,
		idGen:           idGen,
		logger:          logger,
		now:             time.Now,
	}
}

type LogEntryInput struct {
	UserID     string
	Kind       string
	Activity   string
	Value      float64
	RecordedAt *time.Time
}

type LogEntryResult struct {
	Entry                entry.Entry
	UpdatedCompetitions  []string
	StandingsRecalcError bool
}

// LogEntry records a measurement and propagates it into the user's active
// started competitions. Standings recalculation is best effort: a failure
// there never loses the entry itself.
func (s *EntryService) LogEntry(ctx context.Context, input LogEntryInput) (LogEntryResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EntryService.LogEntry")
	defer span.End()

	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return LogEntryResult{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	kind, err := parseEntryKind(input.Kind)
	if err != nil {
		return LogEntryResult{}, err
	}
	if kind == entry.KindWeight {
		if input.Value < minWeightValue || input.Value > maxWeightValue {
			return LogEntryResult{}, fmt.Errorf("%w: weight must be between %d and %d",
				ErrInvalidInput, minWeightValue, maxWeightValue)
		}
	} else if input.Value <= 0 {
		return LogEntryResult{}, fmt.Errorf("%w: value must be > 0", ErrInvalidInput)
	}

	nowTime := s.now().UTC()
	recordedAt := nowTime
	if input.RecordedAt != nil {
		recordedAt = input.RecordedAt.UTC()
		if recordedAt.After(nowTime) {
			return LogEntryResult{}, fmt.Errorf("%w: recorded_at cannot be in the future", ErrInvalidInput)
		}
	}

	newID, err := s.idGen.NewID()
	if err != nil {
		return LogEntryResult{}, fmt.Errorf("generate entry id: %w", err)
	}

	item := entry.Entry{
		ID:         newID,
		UserID:     userID,
		Kind:       kind,
		Activity:   strings.TrimSpace(input.Activity),
		Value:      input.Value,
		RecordedAt: recordedAt,
		CreatedAt:  nowTime,
	}
	if err := s.entryRepo.Create(ctx, item); err != nil {
		return LogEntryResult{}, fmt.Errorf("create entry: %w", err)
	}

	result := LogEntryResult{Entry: item}
	if kind != entry.KindWeight {
		return result, nil
	}

	memberships, err := s.participantRepo.ListActiveByUser(ctx, userID)
	if err != nil {
		return LogEntryResult{}, fmt.Errorf("list user participations: %w", err)
	}

	for _, membership := range memberships {
		comp, exists, err := s.competitionRepo.GetByID(ctx, membership.CompetitionID)
		if err != nil {
			return LogEntryResult{}, fmt.Errorf("get competition %s: %w", membership.CompetitionID, err)
		}
		if !exists || comp.Status != competition.StatusStarted || !comp.IsWeightBased() {
			continue
		}

		value := input.Value
		starting := membership.StartingValue
		if starting == nil {
			// First measurement after joining doubles as the baseline.
			starting = &value
		}
		if err := s.participantRepo.UpdateValues(ctx, membership.ID, starting, &value); err != nil {
			return LogEntryResult{}, fmt.Errorf("update participant values: %w", err)
		}

		result.UpdatedCompetitions = append(result.UpdatedCompetitions, comp.ID)
		if _, err := s.standingsSvc.Recalculate(ctx, comp.ID); err != nil {
			result.StandingsRecalcError = true
			s.logger.WarnContext(ctx, "standings recalculation failed after entry",
				"competition_id", comp.ID,
				"user_id", userID,
				"error", err,
			)
		}
	}

	return result, nil
}

func (s *EntryService) ListEntries(ctx context.Context, userID, kind string, limit int) ([]entry.Entry, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	parsedKind, err := parseEntryKind(kind)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultEntryListLimit
	}
	if limit > maxEntryListLimit {
		limit = maxEntryListLimit
	}

	items, err := s.entryRepo.ListByUser(ctx, userID, parsedKind, limit)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	return items, nil
}

func parseEntryKind(v string) (entry.Kind, error) {
	switch entry.Kind(strings.ToLower(strings.TrimSpace(v))) {
	case entry.KindWeight, entry.Kind(""):
		return entry.KindWeight, nil
	case entry.KindActivity:
		return entry.KindActivity, nil
	default:
		return "", fmt.Errorf("%w: unknown entry kind %q", ErrInvalidInput, v)
	}
}
