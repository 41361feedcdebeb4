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
)

const (
	minCompetitionDays = 1
	maxCompetitionDays = 365
)

type CompetitionService struct {
	competitionRepo competition.Repository
	participantRepo participant.Repository
	entryRepo       entry.Repository
	idGen           id.Generator
	now             func() time.Time
}

func NewCompetitionService(
	competitionRepo competition.Repository,
	participantRepo participant.Repository,
	entryRepo entry.Repository,
	idGen id.Generator,
) *CompetitionService {
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}

	return &CompetitionService{
		competitionRepo: competitionRepo,
		participantRepo: participantRepo,
		entryRepo:       entryRepo,
		idGen:           idGen,
		now:             time.Now,
	}
}

type CreateCompetitionInput struct {
	Name         string
	Type         string
	ActivityType string
	DurationDays int
	StartDate    *time.Time
	CreatedBy    string
}

func (s *CompetitionService) CreateCompetition(ctx context.Context, input CreateCompetitionInput) (competition.Competition, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.CreateCompetition")
	defer span.End()

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return competition.Competition{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	compType, ok := competition.ParseType(input.Type)
	if !ok {
		return competition.Competition{}, fmt.Errorf("%w: unknown competition type %q", ErrInvalidInput, input.Type)
	}
	if input.DurationDays < minCompetitionDays || input.DurationDays > maxCompetitionDays {
		return competition.Competition{}, fmt.Errorf("%w: duration must be between %d and %d days",
			ErrInvalidInput, minCompetitionDays, maxCompetitionDays)
	}
	createdBy := strings.TrimSpace(input.CreatedBy)
	if createdBy == "" {
		return competition.Competition{}, fmt.Errorf("%w: creator is required", ErrInvalidInput)
	}

	nowTime := s.now().UTC()
	start := nowTime
	if input.StartDate != nil {
		start = input.StartDate.UTC()
	}
	end := start.AddDate(0, 0, input.DurationDays)

	newID, err := s.idGen.NewID()
	if err != nil {
		return competition.Competition{}, fmt.Errorf("generate competition id: %w", err)
	}

	item := competition.Competition{
		ID:           newID,
		Name:         name,
		Type:         compType,
		Status:       competition.StatusPending,
		ActivityType: strings.TrimSpace(input.ActivityType),
		DurationDays: input.DurationDays,
		StartDate:    &start,
		EndDate:      &end,
		CreatedBy:    createdBy,
		CreatedAt:    nowTime,
		UpdatedAt:    nowTime,
	}
	if err := s.competitionRepo.Create(ctx, item); err != nil {
		return competition.Competition{}, fmt.Errorf("create competition: %w", err)
	}

	return item, nil
}

type UpdateCompetitionInput struct {
	CompetitionID string
	Name          *string
	ActivityType  *string
	DurationDays  *int
}

// UpdateCompetition applies admin edits to a competition that has not yet
// completed. Changing the duration recomputes the end date from the stored
// start date.
func (s *CompetitionService) UpdateCompetition(ctx context.Context, input UpdateCompetitionInput) (competition.Competition, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.UpdateCompetition")
	defer span.End()

	comp, err := s.GetCompetition(ctx, input.CompetitionID)
	if err != nil {
		return competition.Competition{}, err
	}
	if comp.Status == competition.StatusCompleted {
		return competition.Competition{}, fmt.Errorf("%w: competition %s is completed", ErrConflict, comp.ID)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return competition.Competition{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		comp.Name = name
	}
	if input.ActivityType != nil {
		comp.ActivityType = strings.TrimSpace(*input.ActivityType)
	}
	if input.DurationDays != nil {
		if *input.DurationDays < minCompetitionDays || *input.DurationDays > maxCompetitionDays {
			return competition.Competition{}, fmt.Errorf("%w: duration must be between %d and %d days",
				ErrInvalidInput, minCompetitionDays, maxCompetitionDays)
		}
		comp.DurationDays = *input.DurationDays
		if comp.StartDate != nil {
			end := comp.StartDate.AddDate(0, 0, comp.DurationDays)
			comp.EndDate = &end
		}
	}
	comp.UpdatedAt = s.now().UTC()

	if err := s.competitionRepo.Update(ctx, comp); err != nil {
		return competition.Competition{}, fmt.Errorf("update competition: %w", err)
	}

	return comp, nil
}

func (s *CompetitionService) GetCompetition(ctx context.Context, competitionID string) (competition.Competition, error) {
	competitionID = strings.TrimSpace(competitionID)
	if competitionID == "" {
		return competition.Competition{}, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}

	item, exists, err := s.competitionRepo.GetByID(ctx, competitionID)
	if err != nil {
		return competition.Competition{}, fmt.Errorf("get competition: %w", err)
	}
	if !exists {
		return competition.Competition{}, fmt.Errorf("%w: competition=%s", ErrNotFound, competitionID)
	}

	return item, nil
}

func (s *CompetitionService) ListCompetitions(ctx context.Context) ([]competition.Competition, error) {
	items, err := s.competitionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list competitions: %w", err)
	}

	return items, nil
}

// ListUserCompetitions returns the competitions the user actively
// participates in.
func (s *CompetitionService) ListUserCompetitions(ctx context.Context, userID string) ([]competition.Competition, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	memberships, err := s.participantRepo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user participations: %w", err)
	}

	items := make([]competition.Competition, 0, len(memberships))
	for _, membership := range memberships {
		item, exists, err := s.competitionRepo.GetByID(ctx, membership.CompetitionID)
		if err != nil {
			return nil, fmt.Errorf("get competition %s: %w", membership.CompetitionID, err)
		}
		if !exists {
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

func (s *CompetitionService) ListParticipants(ctx context.Context, competitionID string) ([]participant.Participant, error) {
	if _, err := s.GetCompetition(ctx, competitionID); err != nil {
		return nil, err
	}

	items, err := s.participantRepo.ListActiveByCompetition(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	return items, nil
}

// Join enrolls a user in a pending or started competition. Joining a
// competition that has already started seeds the baseline from the user's
// latest weight entry, so late joiners are ranked against their own start.
func (s *CompetitionService) Join(ctx context.Context, competitionID, userID string) (participant.Participant, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.Join")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return participant.Participant{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	comp, err := s.GetCompetition(ctx, competitionID)
	if err != nil {
		return participant.Participant{}, err
	}
	if comp.Status == competition.StatusCompleted {
		return participant.Participant{}, fmt.Errorf("%w: competition %s is completed", ErrConflict, comp.ID)
	}

	existing, exists, err := s.participantRepo.GetByCompetitionAndUser(ctx, comp.ID, userID)
	if err != nil {
		return participant.Participant{}, fmt.Errorf("get participant: %w", err)
	}
	if exists {
		if existing.IsActive {
			return participant.Participant{}, fmt.Errorf("%w: user already joined competition %s", ErrConflict, comp.ID)
		}
		return participant.Participant{}, fmt.Errorf("%w: user previously left competition %s", ErrConflict, comp.ID)
	}

	nowTime := s.now().UTC()
	newID, err := s.idGen.NewID()
	if err != nil {
		return participant.Participant{}, fmt.Errorf("generate participant id: %w", err)
	}

	item := participant.Participant{
		ID:            newID,
		CompetitionID: comp.ID,
		UserID:        userID,
		IsActive:      true,
		JoinedAt:      nowTime,
		UpdatedAt:     nowTime,
	}

	if comp.Status == competition.StatusStarted {
		baseline, found, err := s.entryRepo.LatestBefore(ctx, userID, entry.KindWeight, nowTime)
		if err != nil {
			return participant.Participant{}, fmt.Errorf("load baseline entry: %w", err)
		}
		if found {
			value := baseline.Value
			item.StartingValue = &value
			current := baseline.Value
			item.CurrentValue = &current
		}
	}

	if err := s.participantRepo.Create(ctx, item); err != nil {
		return participant.Participant{}, fmt.Errorf("create participant: %w", err)
	}

	return item, nil
}

func (s *CompetitionService) Leave(ctx context.Context, competitionID, userID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.Leave")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	comp, err := s.GetCompetition(ctx, competitionID)
	if err != nil {
		return err
	}
	if comp.Status == competition.StatusCompleted {
		return fmt.Errorf("%w: competition %s is completed", ErrConflict, comp.ID)
	}

	existing, exists, err := s.participantRepo.GetByCompetitionAndUser(ctx, comp.ID, userID)
	if err != nil {
		return fmt.Errorf("get participant: %w", err)
	}
	if !exists || !existing.IsActive {
		return fmt.Errorf("%w: user is not a participant of competition %s", ErrNotFound, comp.ID)
	}

	if err := s.participantRepo.Deactivate(ctx, comp.ID, userID); err != nil {
		return fmt.Errorf("deactivate participant: %w", err)
	}

	return nil
}
