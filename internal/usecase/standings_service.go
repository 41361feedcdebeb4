package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fitclash/fitclash/internal/domain/competition"
	"github.com/fitclash/fitclash/internal/domain/participant"
	"github.com/fitclash/fitclash/internal/domain/standings"
)

type StandingsService struct {
	competitionRepo competition.Repository
	participantRepo participant.Repository
	standingsRepo   standings.Repository
	now             func() time.Time
}

func NewStandingsService(
	competitionRepo competition.Repository,
	participantRepo participant.Repository,
	standingsRepo standings.Repository,
) *StandingsService {
	return &StandingsService{
		competitionRepo: competitionRepo,
		participantRepo: participantRepo,
		standingsRepo:   standingsRepo,
		now:             time.Now,
	}
}

func (s *StandingsService) ListStandings(ctx context.Context, competitionID string) ([]standings.Row, error) {
	competitionID = strings.TrimSpace(competitionID)
	if competitionID == "" {
		return nil, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}

	_, exists, err := s.competitionRepo.GetByID(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("get competition: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: competition=%s", ErrNotFound, competitionID)
	}

	rows, err := s.standingsRepo.ListCurrentByCompetition(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}

	return rows, nil
}

// Recalculate rebuilds the competition's standings snapshot from the active
// participants' current values and writes the new ranks back to the
// participant rows. Participants without a usable baseline are left out of
// the snapshot and keep rank zero.
func (s *StandingsService) Recalculate(ctx context.Context, competitionID string) ([]standings.Row, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Recalculate")
	defer span.End()

	competitionID = strings.TrimSpace(competitionID)
	if competitionID == "" {
		return nil, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}

	comp, exists, err := s.competitionRepo.GetByID(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("get competition: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: competition=%s", ErrNotFound, competitionID)
	}

	participants, err := s.participantRepo.ListActiveByCompetition(ctx, comp.ID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	ranked := standings.Rank(participants, comp.Type)
	nowTime := s.now().UTC()

	rows := make([]standings.Row, 0, len(ranked))
	rankByParticipantID := make(map[string]int, len(ranked))
	for _, item := range ranked {
		rows = append(rows, standings.Row{
			CompetitionID: comp.ID,
			ParticipantID: item.Participant.ID,
			UserID:        item.Participant.UserID,
			Rank:          item.Rank,
			ChangePercent: item.ChangePercent,
			IsCurrent:     true,
			CalculatedAt:  nowTime,
		})
		rankByParticipantID[item.Participant.ID] = item.Rank
	}

	if err := s.standingsRepo.ReplaceCurrent(ctx, comp.ID, rows); err != nil {
		return nil, fmt.Errorf("replace standings snapshot: %w", err)
	}
	if len(rankByParticipantID) > 0 {
		if err := s.participantRepo.UpdateRanks(ctx, comp.ID, rankByParticipantID); err != nil {
			return nil, fmt.Errorf("update participant ranks: %w", err)
		}
	}

	return rows, nil
}
