package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbtimate/mbtimate-backend/internal/models"
)

func enqueueAll(t *testing.T, q *fakeTicketQueue, tickets ...models.MatchTicket) {
	t.Helper()
	for _, ticket := range tickets {
		require.NoError(t, q.Enqueue(context.Background(), ticket))
	}
}

func TestFindPartner_EmptyQueues(t *testing.T) {
	search := NewPartnerSearchService(newFakeTicketQueue(), newFakeBlockChecker(), false)

	partner, err := search.FindPartner(context.Background(), models.MatchTicket{UserID: "u1", MBTI: models.INFP}, 1)

	require.NoError(t, err)
	assert.Nil(t, partner)
}

func TestFindPartner_PicksFromMostPopulousQueue(t *testing.T) {
	queue := newFakeTicketQueue()
	// INFP의 레벨 1 타겟은 ENFJ, ENTJ. ENTJ 큐가 더 붐빈다
	enqueueAll(t, queue,
		models.MatchTicket{UserID: "enfj-1", MBTI: models.ENFJ},
		models.MatchTicket{UserID: "entj-1", MBTI: models.ENTJ},
		models.MatchTicket{UserID: "entj-2", MBTI: models.ENTJ},
	)
	search := NewPartnerSearchService(queue, newFakeBlockChecker(), false)

	partner, err := search.FindPartner(context.Background(), models.MatchTicket{UserID: "u1", MBTI: models.INFP}, 1)

	require.NoError(t, err)
	require.NotNil(t, partner)
	assert.Equal(t, "entj-1", partner.UserID)
}

func TestFindPartner_FIFOWithinQueue(t *testing.T) {
	queue := newFakeTicketQueue()
	enqueueAll(t, queue,
		models.MatchTicket{UserID: "first", MBTI: models.ENFJ},
		models.MatchTicket{UserID: "second", MBTI: models.ENFJ},
	)
	search := NewPartnerSearchService(queue, newFakeBlockChecker(), false)

	partner, err := search.FindPartner(context.Background(), models.MatchTicket{UserID: "u1", MBTI: models.INFP}, 1)

	require.NoError(t, err)
	require.NotNil(t, partner)
	assert.Equal(t, "first", partner.UserID)
}

func TestFindPartner_SkipsBlockedCandidate(t *testing.T) {
	queue := newFakeTicketQueue()
	enqueueAll(t, queue,
		models.MatchTicket{UserID: "blocked", MBTI: models.ENFJ},
		models.MatchTicket{UserID: "ok", MBTI: models.ENFJ},
	)
	blocks := newFakeBlockChecker()
	blocks.block("u1", "blocked")
	search := NewPartnerSearchService(queue, blocks, false)

	partner, err := search.FindPartner(context.Background(), models.MatchTicket{UserID: "u1", MBTI: models.INFP}, 1)

	require.NoError(t, err)
	require.NotNil(t, partner)
	assert.Equal(t, "ok", partner.UserID)
}

func TestFindPartner_SkipsReverseBlockedCandidate(t *testing.T) {
	queue := newFakeTicketQueue()
	enqueueAll(t, queue,
		models.MatchTicket{UserID: "blocker", MBTI: models.ENFJ},
	)
	blocks := newFakeBlockChecker()
	// 후보가 요청자를 차단한 경우에도 매칭되면 안 된다
	blocks.block("blocker", "u1")
	search := NewPartnerSearchService(queue, blocks, false)

	partner, err := search.FindPartner(context.Background(), models.MatchTicket{UserID: "u1", MBTI: models.INFP}, 1)

	require.NoError(t, err)
	assert.Nil(t, partner)
}

func TestFindPartner_RejectedTicketDroppedByDefault(t *testing.T) {
	queue := newFakeTicketQueue()
	enqueueAll(t, queue,
		models.MatchTicket{UserID: "blocked", MBTI: models.ENFJ},
	)
	blocks := newFakeBlockChecker()
	blocks.block("u1", "blocked")
	search := NewPartnerSearchService(queue, blocks, false)

	_, err := search.FindPartner(context.Background(), models.MatchTicket{UserID: "u1", MBTI: models.INFP}, 1)
	require.NoError(t, err)

	size, _ := queue.Size(context.Background(), models.ENFJ)
	assert.Equal(t, 0, size)
}

func TestFindPartner_RejectedTicketRequeuedWhenEnabled(t *testing.T) {
	queue := newFakeTicketQueue()
	enqueueAll(t, queue,
		models.MatchTicket{UserID: "blocked", MBTI: models.ENFJ},
	)
	blocks := newFakeBlockChecker()
	blocks.block("u1", "blocked")
	search := NewPartnerSearchService(queue, blocks, true)

	partner, err := search.FindPartner(context.Background(), models.MatchTicket{UserID: "u1", MBTI: models.INFP}, 1)
	require.NoError(t, err)
	assert.Nil(t, partner)

	size, _ := queue.Size(context.Background(), models.ENFJ)
	assert.Equal(t, 1, size)
}

func TestFindPartner_SkipsSelfTicket(t *testing.T) {
	queue := newFakeTicketQueue()
	// 레벨 3에서는 자기 타입 큐도 탐색 대상이 된다
	enqueueAll(t, queue,
		models.MatchTicket{UserID: "u1", MBTI: models.INFP},
	)
	search := NewPartnerSearchService(queue, newFakeBlockChecker(), false)

	partner, err := search.FindPartner(context.Background(), models.MatchTicket{UserID: "u1", MBTI: models.INFP}, 3)

	require.NoError(t, err)
	assert.Nil(t, partner)
}

func TestFindPartner_BlockCheckErrorSkipsCandidate(t *testing.T) {
	queue := newFakeTicketQueue()
	enqueueAll(t, queue,
		models.MatchTicket{UserID: "candidate", MBTI: models.ENFJ},
	)
	blocks := newFakeBlockChecker()
	blocks.err = errors.New("db down")
	search := NewPartnerSearchService(queue, blocks, false)

	partner, err := search.FindPartner(context.Background(), models.MatchTicket{UserID: "u1", MBTI: models.INFP}, 1)

	require.NoError(t, err)
	assert.Nil(t, partner, "candidate with unverifiable block status must not be matched")
}

func TestFindPartner_IgnoresIncompatibleQueues(t *testing.T) {
	queue := newFakeTicketQueue()
	// ISTJ는 INFP의 레벨 1 타겟이 아니다
	enqueueAll(t, queue,
		models.MatchTicket{UserID: "istj-1", MBTI: models.ISTJ},
	)
	search := NewPartnerSearchService(queue, newFakeBlockChecker(), false)

	partner, err := search.FindPartner(context.Background(), models.MatchTicket{UserID: "u1", MBTI: models.INFP}, 1)

	require.NoError(t, err)
	assert.Nil(t, partner)
}
