package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fitclash/fitclash/internal/domain/apitoken"
	"github.com/fitclash/fitclash/internal/domain/chat"
	"github.com/fitclash/fitclash/internal/domain/competition"
	"github.com/fitclash/fitclash/internal/domain/entry"
	"github.com/fitclash/fitclash/internal/domain/jobrun"
	"github.com/fitclash/fitclash/internal/domain/notification"
	"github.com/fitclash/fitclash/internal/domain/participant"
	"github.com/fitclash/fitclash/internal/domain/standings"
	"github.com/fitclash/fitclash/internal/domain/user"
)

type seqIDGenerator struct {
	mu   sync.Mutex
	next int
}

func (g *seqIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("id-%d", g.next), nil
}

type stubCompetitionRepository struct {
	mu    sync.Mutex
	byID  map[string]competition.Competition
	order []string

	transitionErr error
}

func newStubCompetitionRepository(items ...competition.Competition) *stubCompetitionRepository {
	repo := &stubCompetitionRepository{byID: map[string]competition.Competition{}}
	for _, item := range items {
		repo.byID[item.ID] = item
		repo.order = append(repo.order, item.ID)
	}
	return repo
}

func (s *stubCompetitionRepository) Create(_ context.Context, item competition.Competition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[item.ID] = item
	s.order = append(s.order, item.ID)
	return nil
}

func (s *stubCompetitionRepository) GetByID(_ context.Context, competitionID string) (competition.Competition, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.byID[competitionID]
	return item, ok, nil
}

func (s *stubCompetitionRepository) List(_ context.Context) ([]competition.Competition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]competition.Competition, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out, nil
}

func (s *stubCompetitionRepository) ListByStatus(_ context.Context, status competition.Status) ([]competition.Competition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []competition.Competition
	for _, id := range s.order {
		if s.byID[id].Status == status {
			out = append(out, s.byID[id])
		}
	}
	return out, nil
}

func (s *stubCompetitionRepository) Update(_ context.Context, item competition.Competition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[item.ID] = item
	return nil
}

func (s *stubCompetitionRepository) TransitionStatus(_ context.Context, competitionID string, from, to competition.Status) (bool, error) {
	if s.transitionErr != nil {
		return false, s.transitionErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.byID[competitionID]
	if !ok || item.Status != from {
		return false, nil
	}
	item.Status = to
	s.byID[competitionID] = item
	return true, nil
}

type stubParticipantRepository struct {
	mu    sync.Mutex
	items map[string]participant.Participant // keyed by participant ID
}

func newStubParticipantRepository(items ...participant.Participant) *stubParticipantRepository {
	repo := &stubParticipantRepository{items: map[string]participant.Participant{}}
	for _, item := range items {
		repo.items[item.ID] = item
	}
	return repo
}

func (s *stubParticipantRepository) Create(_ context.Context, item participant.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item
	return nil
}

func (s *stubParticipantRepository) GetByCompetitionAndUser(_ context.Context, competitionID, userID string) (participant.Participant, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.CompetitionID == competitionID && item.UserID == userID {
			return item, true, nil
		}
	}
	return participant.Participant{}, false, nil
}

func (s *stubParticipantRepository) ListActiveByCompetition(_ context.Context, competitionID string) ([]participant.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []participant.Participant
	for _, item := range s.items {
		if item.CompetitionID == competitionID && item.IsActive {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubParticipantRepository) ListActiveByUser(_ context.Context, userID string) ([]participant.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []participant.Participant
	for _, item := range s.items {
		if item.UserID == userID && item.IsActive {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubParticipantRepository) UpdateValues(_ context.Context, participantID string, starting, current *float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[participantID]
	if !ok {
		return fmt.Errorf("participant %s not found", participantID)
	}
	item.StartingValue = starting
	item.CurrentValue = current
	s.items[participantID] = item
	return nil
}

func (s *stubParticipantRepository) UpdateRanks(_ context.Context, competitionID string, rankByParticipantID map[string]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for participantID, rank := range rankByParticipantID {
		item, ok := s.items[participantID]
		if !ok || item.CompetitionID != competitionID {
			continue
		}
		item.Rank = rank
		s.items[participantID] = item
	}
	return nil
}

func (s *stubParticipantRepository) Deactivate(_ context.Context, competitionID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, item := range s.items {
		if item.CompetitionID == competitionID && item.UserID == userID {
			item.IsActive = false
			s.items[id] = item
			return nil
		}
	}
	return fmt.Errorf("participant not found")
}

type stubEntryRepository struct {
	mu      sync.Mutex
	entries []entry.Entry
}

func (s *stubEntryRepository) Create(_ context.Context, item entry.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, item)
	return nil
}

func (s *stubEntryRepository) ListByUser(_ context.Context, userID string, kind entry.Kind, limit int) ([]entry.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entry.Entry
	for _, item := range s.entries {
		if item.UserID == userID && item.Kind == kind {
			out = append(out, item)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubEntryRepository) LatestBefore(_ context.Context, userID string, kind entry.Kind, cutoff time.Time) (entry.Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var best entry.Entry
	found := false
	for _, item := range s.entries {
		if item.UserID != userID || item.Kind != kind || item.RecordedAt.After(cutoff) {
			continue
		}
		if !found || item.RecordedAt.After(best.RecordedAt) {
			best = item
			found = true
		}
	}
	return best, found, nil
}

func (s *stubEntryRepository) HasEntrySince(_ context.Context, userID string, since time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.entries {
		if item.UserID == userID && !item.RecordedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

type stubStandingsRepository struct {
	mu      sync.Mutex
	current map[string][]standings.Row
	seeded  []standings.Row
}

func newStubStandingsRepository() *stubStandingsRepository {
	return &stubStandingsRepository{current: map[string][]standings.Row{}}
}

func (s *stubStandingsRepository) ListCurrentByCompetition(_ context.Context, competitionID string) ([]standings.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current[competitionID], nil
}

func (s *stubStandingsRepository) ReplaceCurrent(_ context.Context, competitionID string, rows []standings.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current[competitionID] = rows
	return nil
}

func (s *stubStandingsRepository) SeedRow(_ context.Context, row standings.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for idx, existing := range s.seeded {
		if existing.CompetitionID == row.CompetitionID && existing.ParticipantID == row.ParticipantID {
			s.seeded[idx] = row
			return nil
		}
	}
	s.seeded = append(s.seeded, row)
	return nil
}

type stubNotificationRepository struct {
	mu            sync.Mutex
	items         []notification.Notification
	markedSent    []string
	markedFailed  []string
	markedRead    []string
	listQueuedErr error
}

func (s *stubNotificationRepository) Create(_ context.Context, item notification.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, item)
	return nil
}

func (s *stubNotificationRepository) ListByUser(_ context.Context, userID string, limit int) ([]notification.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []notification.Notification
	for _, item := range s.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubNotificationRepository) CountUnreadByUser(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, item := range s.items {
		if item.UserID == userID && !item.IsRead {
			count++
		}
	}
	return count, nil
}

func (s *stubNotificationRepository) MarkRead(_ context.Context, userID string, notificationIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range notificationIDs {
		for idx, item := range s.items {
			if item.ID == id && item.UserID == userID {
				item.IsRead = true
				s.items[idx] = item
				s.markedRead = append(s.markedRead, id)
			}
		}
	}
	return nil
}

func (s *stubNotificationRepository) ListQueuedForPush(_ context.Context, limit int) ([]notification.Notification, error) {
	if s.listQueuedErr != nil {
		return nil, s.listQueuedErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []notification.Notification
	for _, item := range s.items {
		if item.PushQueuedAt != nil && item.PushSentAt == nil && item.PushFailedAt == nil {
			out = append(out, item)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *stubNotificationRepository) MarkPushSent(_ context.Context, notificationID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for idx, item := range s.items {
		if item.ID == notificationID {
			item.PushSentAt = &at
			s.items[idx] = item
		}
	}
	s.markedSent = append(s.markedSent, notificationID)
	return nil
}

func (s *stubNotificationRepository) MarkPushFailed(_ context.Context, notificationID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for idx, item := range s.items {
		if item.ID == notificationID {
			item.PushFailedAt = &at
			s.items[idx] = item
		}
	}
	s.markedFailed = append(s.markedFailed, notificationID)
	return nil
}

func (s *stubNotificationRepository) byKind(kind notification.Kind) []notification.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []notification.Notification
	for _, item := range s.items {
		if item.Kind == kind {
			out = append(out, item)
		}
	}
	return out
}

type stubTokenRepository struct {
	mu     sync.Mutex
	byHash map[string]apitoken.Token
}

func newStubTokenRepository() *stubTokenRepository {
	return &stubTokenRepository{byHash: map[string]apitoken.Token{}}
}

func (s *stubTokenRepository) Create(_ context.Context, item apitoken.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byHash[item.SecretHash] = item
	return nil
}

func (s *stubTokenRepository) GetBySecretHash(_ context.Context, secretHash string) (apitoken.Token, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.byHash[secretHash]
	return item, ok, nil
}

func (s *stubTokenRepository) ListByUser(_ context.Context, userID string) ([]apitoken.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []apitoken.Token
	for _, item := range s.byHash {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *stubTokenRepository) Revoke(_ context.Context, userID, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for hash, item := range s.byHash {
		if item.ID == tokenID && item.UserID == userID {
			item.IsActive = false
			s.byHash[hash] = item
			return nil
		}
	}
	return fmt.Errorf("token not found")
}

func (s *stubTokenRepository) TouchLastUsed(_ context.Context, tokenID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for hash, item := range s.byHash {
		if item.ID == tokenID {
			item.LastUsedAt = &at
			s.byHash[hash] = item
		}
	}
	return nil
}

type stubUserRepository struct {
	roles map[string][]string
}

func (s *stubUserRepository) GetByID(_ context.Context, userID string) (user.Profile, bool, error) {
	if _, ok := s.roles[userID]; !ok {
		return user.Profile{}, false, nil
	}
	return user.Profile{ID: userID, Roles: s.roles[userID]}, true, nil
}

func (s *stubUserRepository) ListRoles(_ context.Context, userID string) ([]string, error) {
	return s.roles[userID], nil
}

type stubChatRepository struct {
	mu       sync.Mutex
	messages []chat.Message
	marks    map[string]time.Time // competitionID + "|" + userID
}

func newStubChatRepository() *stubChatRepository {
	return &stubChatRepository{marks: map[string]time.Time{}}
}

func (s *stubChatRepository) Create(_ context.Context, item chat.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, item)
	return nil
}

func (s *stubChatRepository) ListByCompetition(_ context.Context, competitionID string, limit int) ([]chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []chat.Message
	for _, item := range s.messages {
		if item.CompetitionID == competitionID {
			out = append(out, item)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubChatRepository) CountUnread(_ context.Context, competitionID, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mark, hasMark := s.marks[competitionID+"|"+userID]
	count := 0
	for _, item := range s.messages {
		if item.CompetitionID != competitionID || item.UserID == userID {
			continue
		}
		if !hasMark || item.CreatedAt.After(mark) {
			count++
		}
	}
	return count, nil
}

func (s *stubChatRepository) UpsertReadMark(_ context.Context, competitionID, userID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marks[competitionID+"|"+userID] = at
	return nil
}

type stubJobRunRepository struct {
	mu   sync.Mutex
	runs []jobrun.Run
}

func (s *stubJobRunRepository) Record(_ context.Context, run jobrun.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
	return nil
}

func (s *stubJobRunRepository) ListRecent(_ context.Context, jobName string, limit int) ([]jobrun.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []jobrun.Run
	for _, run := range s.runs {
		if run.JobName == jobName {
			out = append(out, run)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type stubPushSender struct {
	mu      sync.Mutex
	sent    []string
	failFor map[string]bool
}

func (s *stubPushSender) SendPush(_ context.Context, userID, _, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFor[userID] {
		return fmt.Errorf("provider rejected push for %s", userID)
	}
	s.sent = append(s.sent, userID)
	return nil
}
