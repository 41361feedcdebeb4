package participant

import "context"

type Repository interface {
	Create(ctx context.Context, item Participant) error
	GetByCompetitionAndUser(ctx context.Context, competitionID, userID string) (Participant, bool, error)
	ListActiveByCompetition(ctx context.Context, competitionID string) ([]Participant, error)
	ListActiveByUser(ctx context.Context, userID string) ([]Participant, error)
	UpdateValues(ctx context.Context, participantID string, starting, current *float64) error
	UpdateRanks(ctx context.Context, competitionID string, rankByParticipantID map[string]int) error
	Deactivate(ctx context.Context, competitionID, userID string) error
}
