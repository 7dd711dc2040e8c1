package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mbtimate/mbtimate-backend/internal/models"
	"github.com/mbtimate/mbtimate-backend/internal/repository"
)

// fakeTicketQueue 인메모리 TicketQueue 구현 (테스트용)
type fakeTicketQueue struct {
	mu     sync.Mutex
	queues map[models.MBTI][]models.MatchTicket
	index  map[string]models.MBTI
}

func newFakeTicketQueue() *fakeTicketQueue {
	return &fakeTicketQueue{
		queues: make(map[models.MBTI][]models.MatchTicket),
		index:  make(map[string]models.MBTI),
	}
}

func (q *fakeTicketQueue) Enqueue(_ context.Context, ticket models.MatchTicket) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, exists := q.index[ticket.UserID]; exists {
		return repository.ErrDuplicateTicket
	}
	q.index[ticket.UserID] = ticket.MBTI
	q.queues[ticket.MBTI] = append(q.queues[ticket.MBTI], ticket)
	return nil
}

func (q *fakeTicketQueue) Dequeue(_ context.Context, mbti models.MBTI) (*models.MatchTicket, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.queues[mbti]
	if len(items) == 0 {
		return nil, nil
	}
	ticket := items[0]
	q.queues[mbti] = items[1:]
	delete(q.index, ticket.UserID)
	return &ticket, nil
}

func (q *fakeTicketQueue) Remove(_ context.Context, userID string, mbti models.MBTI) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.queues[mbti]
	for i, t := range items {
		if t.UserID == userID {
			q.queues[mbti] = append(items[:i:i], items[i+1:]...)
			delete(q.index, userID)
			return true, nil
		}
	}
	return false, nil
}

func (q *fakeTicketQueue) RemoveAny(_ context.Context, userID string) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	mbti, exists := q.index[userID]
	if !exists {
		return false, nil
	}
	items := q.queues[mbti]
	for i, t := range items {
		if t.UserID == userID {
			q.queues[mbti] = append(items[:i:i], items[i+1:]...)
			break
		}
	}
	delete(q.index, userID)
	return true, nil
}

func (q *fakeTicketQueue) Size(_ context.Context, mbti models.MBTI) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queues[mbti]), nil
}

func (q *fakeTicketQueue) SizesFor(_ context.Context, types []models.MBTI) ([]repository.QueueSize, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	sizes := make([]repository.QueueSize, len(types))
	for i, t := range types {
		sizes[i] = repository.QueueSize{MBTI: t, Size: len(q.queues[t])}
	}
	sort.SliceStable(sizes, func(i, j int) bool {
		return sizes[i].Size > sizes[j].Size
	})
	return sizes, nil
}

func (q *fakeTicketQueue) Contains(_ context.Context, userID string, mbti models.MBTI) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.index[userID] == mbti, nil
}

// fakeStateStore 인메모리 MatchStateStore 구현.
// TTL은 만료 시각으로 보관하고 조회 시점에 걸러낸다
type fakeStateStore struct {
	mu     sync.Mutex
	states map[string]models.UserMatchState
	expiry map[string]time.Time
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{
		states: make(map[string]models.UserMatchState),
		expiry: make(map[string]time.Time),
	}
}

func (s *fakeStateStore) get(userID string) *models.UserMatchState {
	if exp, ok := s.expiry[userID]; ok && time.Now().After(exp) {
		delete(s.states, userID)
		delete(s.expiry, userID)
	}
	state, ok := s.states[userID]
	if !ok {
		return nil
	}
	return &state
}

func (s *fakeStateStore) GetState(_ context.Context, userID string) (*models.UserMatchState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(userID), nil
}

func (s *fakeStateStore) SetQueued(_ context.Context, userID string, mbti models.MBTI) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur := s.get(userID); cur != nil && cur.State == models.MatchStateChatting {
		return nil
	}
	s.states[userID] = models.UserMatchState{UserID: userID, State: models.MatchStateQueued, MBTI: mbti}
	delete(s.expiry, userID)
	return nil
}

func (s *fakeStateStore) SetMatched(_ context.Context, userID string, mbti models.MBTI, roomID string, partner models.MatchPartner, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[userID] = models.UserMatchState{
		UserID:      userID,
		State:       models.MatchStateMatched,
		MBTI:        mbti,
		RoomID:      roomID,
		PartnerID:   partner.UserID,
		PartnerMBTI: partner.MBTI,
	}
	if ttl > 0 {
		s.expiry[userID] = time.Now().Add(ttl)
	} else {
		delete(s.expiry, userID)
	}
	return nil
}

func (s *fakeStateStore) SetChatting(_ context.Context, userID, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := models.UserMatchState{UserID: userID, State: models.MatchStateChatting, RoomID: roomID}
	if cur := s.get(userID); cur != nil {
		state.MBTI = cur.MBTI
		state.PartnerID = cur.PartnerID
		state.PartnerMBTI = cur.PartnerMBTI
	}
	s.states[userID] = state
	delete(s.expiry, userID)
	return nil
}

func (s *fakeStateStore) ClearState(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)
	delete(s.expiry, userID)
	return nil
}

func (s *fakeStateStore) IsAvailableForMatch(_ context.Context, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.get(userID)
	if state == nil {
		return true, nil
	}
	return state.State != models.MatchStateMatched, nil
}

// fakeBlockChecker 차단 쌍을 기억하는 BlockChecker 구현
type fakeBlockChecker struct {
	blocked map[[2]string]bool
	err     error
	calls   int
}

func newFakeBlockChecker() *fakeBlockChecker {
	return &fakeBlockChecker{blocked: make(map[[2]string]bool)}
}

func (b *fakeBlockChecker) block(blocker, blocked string) {
	b.blocked[[2]string{blocker, blocked}] = true
}

func (b *fakeBlockChecker) IsBlockedEither(_ context.Context, userID, otherID string) (bool, error) {
	b.calls++
	if b.err != nil {
		return false, b.err
	}
	return b.blocked[[2]string{userID, otherID}] || b.blocked[[2]string{otherID, userID}], nil
}

// fakeChatRooms ChatRoomPort 구현. 생성된 방과 파트너 쌍을 기록한다
type fakeChatRooms struct {
	created     []models.RoomCreation
	partners    map[[2]string]bool
	createErr   error
	partnersErr error
}

func newFakeChatRooms() *fakeChatRooms {
	return &fakeChatRooms{partners: make(map[[2]string]bool)}
}

func (c *fakeChatRooms) markPartners(a, b string) {
	c.partners[[2]string{a, b}] = true
	c.partners[[2]string{b, a}] = true
}

func (c *fakeChatRooms) CreateRoom(_ context.Context, room models.RoomCreation) error {
	if c.createErr != nil {
		return c.createErr
	}
	c.created = append(c.created, room)
	return nil
}

func (c *fakeChatRooms) ArePartners(_ context.Context, userID, otherID string) (bool, error) {
	if c.partnersErr != nil {
		return false, c.partnersErr
	}
	return c.partners[[2]string{userID, otherID}], nil
}

// fakeNotifier 알림 수신자를 기록하는 MatchNotifier 구현
type fakeNotifier struct {
	notified []struct {
		UserID  string
		RoomID  string
		Partner models.MatchPartner
	}
}

func (n *fakeNotifier) NotifyMatch(userID, roomID string, partner models.MatchPartner) {
	n.notified = append(n.notified, struct {
		UserID  string
		RoomID  string
		Partner models.MatchPartner
	}{userID, roomID, partner})
}
