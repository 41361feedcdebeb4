package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/fitclash/fitclash/internal/domain/competition"
	"github.com/fitclash/fitclash/internal/domain/participant"
	"github.com/fitclash/fitclash/internal/domain/standings"
)

type mockCompetitionRepository struct{ mock.Mock }

func (m *mockCompetitionRepository) Create(ctx context.Context, item competition.Competition) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockCompetitionRepository) GetByID(ctx context.Context, competitionID string) (competition.Competition, bool, error) {
	args := m.Called(ctx, competitionID)
	return args.Get(0).(competition.Competition), args.Bool(1), args.Error(2)
}

func (m *mockCompetitionRepository) List(ctx context.Context) ([]competition.Competition, error) {
	args := m.Called(ctx)
	return args.Get(0).([]competition.Competition), args.Error(1)
}

func (m *mockCompetitionRepository) ListByStatus(ctx context.Context, status competition.Status) ([]competition.Competition, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]competition.Competition), args.Error(1)
}

func (m *mockCompetitionRepository) Update(ctx context.Context, item competition.Competition) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockCompetitionRepository) TransitionStatus(ctx context.Context, competitionID string, from, to competition.Status) (bool, error) {
	args := m.Called(ctx, competitionID, from, to)
	return args.Bool(0), args.Error(1)
}

type mockParticipantRepository struct{ mock.Mock }

func (m *mockParticipantRepository) Create(ctx context.Context, item participant.Participant) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockParticipantRepository) GetByCompetitionAndUser(ctx context.Context, competitionID, userID string) (participant.Participant, bool, error) {
	args := m.Called(ctx, competitionID, userID)
	return args.Get(0).(participant.Participant), args.Bool(1), args.Error(2)
}

func (m *mockParticipantRepository) ListActiveByCompetition(ctx context.Context, competitionID string) ([]participant.Participant, error) {
	args := m.Called(ctx, competitionID)
	return args.Get(0).([]participant.Participant), args.Error(1)
}

func (m *mockParticipantRepository) ListActiveByUser(ctx context.Context, userID string) ([]participant.Participant, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]participant.Participant), args.Error(1)
}

func (m *mockParticipantRepository) UpdateValues(ctx context.Context, participantID string, starting, current *float64) error {
	return m.Called(ctx, participantID, starting, current).Error(0)
}

func (m *mockParticipantRepository) UpdateRanks(ctx context.Context, competitionID string, rankByParticipantID map[string]int) error {
	return m.Called(ctx, competitionID, rankByParticipantID).Error(0)
}

func (m *mockParticipantRepository) Deactivate(ctx context.Context, competitionID, userID string) error {
	return m.Called(ctx, competitionID, userID).Error(0)
}

type mockStandingsRepository struct{ mock.Mock }

func (m *mockStandingsRepository) ListCurrentByCompetition(ctx context.Context, competitionID string) ([]standings.Row, error) {
	args := m.Called(ctx, competitionID)
	return args.Get(0).([]standings.Row), args.Error(1)
}

func (m *mockStandingsRepository) ReplaceCurrent(ctx context.Context, competitionID string, rows []standings.Row) error {
	return m.Called(ctx, competitionID, rows).Error(0)
}

func (m *mockStandingsRepository) SeedRow(ctx context.Context, row standings.Row) error {
	return m.Called(ctx, row).Error(0)
}

func TestStandingsService_Recalculate_UsingMocks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	compRepo := new(mockCompetitionRepository)
	partRepo := new(mockParticipantRepository)
	standingsRepo := new(mockStandingsRepository)

	service := NewStandingsService(compRepo, partRepo, standingsRepo)
	comp := competition.Competition{ID: "comp-1", Type: competition.TypeWeightLoss, Status: competition.StatusStarted}

	alice := participant.Participant{ID: "part-alice", CompetitionID: comp.ID, UserID: "alice", StartingValue: floatPtr(100), CurrentValue: floatPtr(90), IsActive: true}
	bob := participant.Participant{ID: "part-bob", CompetitionID: comp.ID, UserID: "bob", StartingValue: floatPtr(80), CurrentValue: floatPtr(76), IsActive: true}

	compRepo.On("GetByID", ctx, comp.ID).Return(comp, true, nil).Once()
	partRepo.On("ListActiveByCompetition", ctx, comp.ID).Return([]participant.Participant{alice, bob}, nil).Once()
	standingsRepo.
		On("ReplaceCurrent", ctx, comp.ID, mock.MatchedBy(func(rows []standings.Row) bool {
			return len(rows) == 2 && rows[0].UserID == "alice" && rows[0].Rank == 1 && rows[1].Rank == 2
		})).
		Return(nil).
		Once()
	partRepo.
		On("UpdateRanks", ctx, comp.ID, map[string]int{"part-alice": 1, "part-bob": 2}).
		Return(nil).
		Once()

	rows, err := service.Recalculate(ctx, comp.ID)
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("unexpected row count: got=%d want=2", len(rows))
	}

	compRepo.AssertExpectations(t)
	partRepo.AssertExpectations(t)
	standingsRepo.AssertExpectations(t)
}

func TestStandingsService_Recalculate_CompetitionNotFoundUsingMocks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	compRepo := new(mockCompetitionRepository)
	partRepo := new(mockParticipantRepository)
	standingsRepo := new(mockStandingsRepository)

	service := NewStandingsService(compRepo, partRepo, standingsRepo)
	compRepo.On("GetByID", ctx, "missing").Return(competition.Competition{}, false, nil).Once()

	_, err := service.Recalculate(ctx, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	compRepo.AssertExpectations(t)
	partRepo.AssertNotCalled(t, "ListActiveByCompetition", mock.Anything, mock.Anything)
	standingsRepo.AssertNotCalled(t, "ReplaceCurrent", mock.Anything, mock.Anything, mock.Anything)
}
