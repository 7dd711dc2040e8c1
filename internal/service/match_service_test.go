package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbtimate/mbtimate-backend/internal/models"
)

type matchFixture struct {
	queue    *fakeTicketQueue
	states   *fakeStateStore
	blocks   *fakeBlockChecker
	rooms    *fakeChatRooms
	notifier *fakeNotifier
	orch     *MatchOrchestrator
}

func newMatchFixture(stateTTL time.Duration) *matchFixture {
	return newMatchFixtureRequeue(stateTTL, false)
}

func newMatchFixtureRequeue(stateTTL time.Duration, requeueRejected bool) *matchFixture {
	f := &matchFixture{
		queue:    newFakeTicketQueue(),
		states:   newFakeStateStore(),
		blocks:   newFakeBlockChecker(),
		rooms:    newFakeChatRooms(),
		notifier: &fakeNotifier{},
	}
	search := NewPartnerSearchService(f.queue, f.blocks, requeueRejected)
	f.orch = NewMatchOrchestrator(f.queue, f.states, search, f.rooms, f.notifier, stateTTL)
	return f
}

func TestRequestMatch_EmptySystemWaits(t *testing.T) {
	f := newMatchFixture(time.Minute)
	ctx := context.Background()

	result, err := f.orch.RequestMatch(ctx, "u1", models.INFP, 1)

	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusWaiting, result.Status)
	assert.Equal(t, models.INFP, result.MyMBTI)
	assert.Equal(t, 1, result.WaitCount)

	state, err := f.states.GetState(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, models.MatchStateQueued, state.State)
}

func TestRequestMatch_CompatibleUserMatchesImmediately(t *testing.T) {
	f := newMatchFixture(time.Minute)
	ctx := context.Background()

	_, err := f.orch.RequestMatch(ctx, "u1", models.INFP, 1)
	require.NoError(t, err)

	result, err := f.orch.RequestMatch(ctx, "u2", models.ENFJ, 1)
	require.NoError(t, err)

	assert.Equal(t, models.MatchStatusMatched, result.Status)
	require.NotNil(t, result.Partner)
	assert.Equal(t, "u1", result.Partner.UserID)
	assert.NotEmpty(t, result.RoomID)

	// 매칭된 유저의 티켓은 큐에서 사라져야 한다
	size, _ := f.queue.Size(ctx, models.INFP)
	assert.Equal(t, 0, size)

	// 양쪽 모두 같은 방의 MATCHED 상태가 된다
	state1, _ := f.states.GetState(ctx, "u1")
	state2, _ := f.states.GetState(ctx, "u2")
	require.NotNil(t, state1)
	require.NotNil(t, state2)
	assert.Equal(t, models.MatchStateMatched, state1.State)
	assert.Equal(t, models.MatchStateMatched, state2.State)
	assert.Equal(t, result.RoomID, state1.RoomID)
	assert.Equal(t, result.RoomID, state2.RoomID)
	assert.Equal(t, "u2", state1.PartnerID)
	assert.Equal(t, "u1", state2.PartnerID)

	// 채팅방 생성 협력자가 호출되어야 한다
	require.Len(t, f.rooms.created, 1)
	assert.Equal(t, result.RoomID, f.rooms.created[0].RoomID)

	// 대기 중이던 상대에게 알림이 가야 한다
	require.Len(t, f.notifier.notified, 1)
	assert.Equal(t, "u1", f.notifier.notified[0].UserID)
	assert.Equal(t, result.RoomID, f.notifier.notified[0].RoomID)
	assert.Equal(t, "u2", f.notifier.notified[0].Partner.UserID)
}

func TestRequestMatch_MutuallyBlockedUsersDoNotMatch(t *testing.T) {
	f := newMatchFixture(time.Minute)
	ctx := context.Background()
	f.blocks.block("u1", "u2")

	_, err := f.orch.RequestMatch(ctx, "u1", models.INFP, 1)
	require.NoError(t, err)

	result, err := f.orch.RequestMatch(ctx, "u2", models.ENFJ, 1)
	require.NoError(t, err)

	// 탐색 중 u1의 티켓은 꺼내져 버려지므로 u2는 대기열로 간다
	assert.Equal(t, models.MatchStatusWaiting, result.Status)

	size, _ := f.queue.Size(ctx, models.INFP)
	assert.Equal(t, 0, size, "rejected ticket must not be back in the queue")
}

func TestRequestMatch_ExpiredMatchedStateAllowsRematch(t *testing.T) {
	// 만료를 실제로 기다리기 위해 짧은 TTL 사용
	f := newMatchFixture(50 * time.Millisecond)
	ctx := context.Background()

	_, err := f.orch.RequestMatch(ctx, "u1", models.INFP, 1)
	require.NoError(t, err)
	_, err = f.orch.RequestMatch(ctx, "u2", models.ENFJ, 1)
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)

	// MATCHED가 만료됐으므로 u1은 다시 매칭 가능해야 한다
	available, err := f.states.IsAvailableForMatch(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, available)

	_, err = f.orch.RequestMatch(ctx, "u1", models.INFP, 1)
	require.NoError(t, err)
	result, err := f.orch.RequestMatch(ctx, "u3", models.ENFJ, 1)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusMatched, result.Status)
	assert.Equal(t, "u1", result.Partner.UserID)
}

func TestRequestMatch_PendingMatchRejectsNewRequest(t *testing.T) {
	f := newMatchFixture(time.Minute)
	ctx := context.Background()

	_, err := f.orch.RequestMatch(ctx, "u1", models.INFP, 1)
	require.NoError(t, err)
	matched, err := f.orch.RequestMatch(ctx, "u2", models.ENFJ, 1)
	require.NoError(t, err)

	result, err := f.orch.RequestMatch(ctx, "u1", models.INFP, 1)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusAlreadyMatched, result.Status)
	assert.Equal(t, matched.RoomID, result.RoomID)

	// 진행 중 매칭 응답에도 상대의 타입이 포함되어야 한다
	require.NotNil(t, result.Partner)
	assert.Equal(t, "u2", result.Partner.UserID)
	assert.Equal(t, models.ENFJ, result.Partner.MBTI)
}

func TestRequestMatch_RetryWithDifferentLevelReplacesTicket(t *testing.T) {
	f := newMatchFixture(time.Minute)
	ctx := context.Background()

	_, err := f.orch.RequestMatch(ctx, "u1", models.INFP, 1)
	require.NoError(t, err)

	result, err := f.orch.RequestMatch(ctx, "u1", models.INFP, 2)
	require.NoError(t, err)

	// 기존 티켓을 제거하고 새로 등록하므로 already_waiting이 아니라 waiting
	assert.Equal(t, models.MatchStatusWaiting, result.Status)
	size, _ := f.queue.Size(ctx, models.INFP)
	assert.Equal(t, 1, size)
}

func TestRequestMatch_SkipsUnavailableCandidate(t *testing.T) {
	f := newMatchFixture(time.Minute)
	ctx := context.Background()

	// u2는 큐에 있지만 이미 다른 매칭이 성사된 상태 (만료 전)
	require.NoError(t, f.queue.Enqueue(ctx, models.MatchTicket{UserID: "u2", MBTI: models.ENFJ}))
	require.NoError(t, f.states.SetMatched(ctx, "u2", models.ENFJ, "room-x",
		models.MatchPartner{UserID: "other", MBTI: models.INTJ}, time.Minute))
	require.NoError(t, f.queue.Enqueue(ctx, models.MatchTicket{UserID: "u3", MBTI: models.ENFJ}))

	result, err := f.orch.RequestMatch(ctx, "u1", models.INFP, 1)
	require.NoError(t, err)

	assert.Equal(t, models.MatchStatusMatched, result.Status)
	assert.Equal(t, "u3", result.Partner.UserID)

	// requeue 정책이 꺼져 있으면 건너뛴 u2의 티켓은 복귀하지 않는다
	size, _ := f.queue.Size(ctx, models.ENFJ)
	assert.Equal(t, 0, size)
}

func TestRequestMatch_SkipsExistingChatPartner(t *testing.T) {
	f := newMatchFixture(time.Minute)
	ctx := context.Background()
	f.rooms.markPartners("u1", "u2")

	require.NoError(t, f.queue.Enqueue(ctx, models.MatchTicket{UserID: "u2", MBTI: models.ENFJ}))
	require.NoError(t, f.queue.Enqueue(ctx, models.MatchTicket{UserID: "u3", MBTI: models.ENFJ}))

	result, err := f.orch.RequestMatch(ctx, "u1", models.INFP, 1)
	require.NoError(t, err)

	assert.Equal(t, models.MatchStatusMatched, result.Status)
	assert.Equal(t, "u3", result.Partner.UserID)
}

func TestRequestMatch_PartnerCheckFailureStillMatches(t *testing.T) {
	f := newMatchFixture(time.Minute)
	ctx := context.Background()
	f.rooms.partnersErr = assert.AnError

	require.NoError(t, f.queue.Enqueue(ctx, models.MatchTicket{UserID: "u2", MBTI: models.ENFJ}))

	result, err := f.orch.RequestMatch(ctx, "u1", models.INFP, 1)
	require.NoError(t, err)

	// 파트너 여부를 조회할 수 없어도 매칭은 진행된다
	assert.Equal(t, models.MatchStatusMatched, result.Status)
	assert.Equal(t, "u2", result.Partner.UserID)
}

func TestRequestMatch_RequeuesSkippedCandidateWhenEnabled(t *testing.T) {
	f := newMatchFixtureRequeue(time.Minute, true)
	ctx := context.Background()

	// u2는 큐에 있지만 이미 다른 매칭이 성사된 상태 (만료 전)
	require.NoError(t, f.queue.Enqueue(ctx, models.MatchTicket{UserID: "u2", MBTI: models.ENFJ}))
	require.NoError(t, f.states.SetMatched(ctx, "u2", models.ENFJ, "room-x",
		models.MatchPartner{UserID: "other", MBTI: models.INTJ}, time.Minute))

	result, err := f.orch.RequestMatch(ctx, "u1", models.INFP, 1)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusWaiting, result.Status)

	// 건너뛴 u2의 티켓은 원래 큐로 복귀해야 한다
	size, _ := f.queue.Size(ctx, models.ENFJ)
	assert.Equal(t, 1, size)
	queued, _ := f.queue.Contains(ctx, "u2", models.ENFJ)
	assert.True(t, queued)
}

func TestRequestMatch_ChangedTypeReplacesOldTicket(t *testing.T) {
	f := newMatchFixture(time.Minute)
	ctx := context.Background()

	_, err := f.orch.RequestMatch(ctx, "u1", models.INFP, 1)
	require.NoError(t, err)

	// 다른 타입으로 재요청하면 이전 큐의 티켓이 제거되고 새로 등록된다
	result, err := f.orch.RequestMatch(ctx, "u1", models.ENFJ, 1)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusWaiting, result.Status)

	oldSize, _ := f.queue.Size(ctx, models.INFP)
	assert.Equal(t, 0, oldSize)
	newSize, _ := f.queue.Size(ctx, models.ENFJ)
	assert.Equal(t, 1, newSize)
}

func TestRequestMatch_RoomCreationFailureDoesNotUndoMatch(t *testing.T) {
	f := newMatchFixture(time.Minute)
	ctx := context.Background()
	f.rooms.createErr = assert.AnError

	_, err := f.orch.RequestMatch(ctx, "u1", models.INFP, 1)
	require.NoError(t, err)
	result, err := f.orch.RequestMatch(ctx, "u2", models.ENFJ, 1)
	require.NoError(t, err)

	assert.Equal(t, models.MatchStatusMatched, result.Status)
	state, _ := f.states.GetState(ctx, "u1")
	require.NotNil(t, state)
	assert.Equal(t, models.MatchStateMatched, state.State)
}

func TestCancelMatch_RemovesTicketAndState(t *testing.T) {
	f := newMatchFixture(time.Minute)
	ctx := context.Background()

	_, err := f.orch.RequestMatch(ctx, "u1", models.INFP, 1)
	require.NoError(t, err)

	result, err := f.orch.CancelMatch(ctx, "u1", models.INFP)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusCancelled, result.Status)

	size, _ := f.queue.Size(ctx, models.INFP)
	assert.Equal(t, 0, size)
	state, _ := f.states.GetState(ctx, "u1")
	assert.Nil(t, state)
}

func TestCancelMatch_DifferentTypeStillRemovesTicket(t *testing.T) {
	f := newMatchFixture(time.Minute)
	ctx := context.Background()

	_, err := f.orch.RequestMatch(ctx, "u1", models.INFP, 1)
	require.NoError(t, err)

	// 프로필 타입이 바뀐 뒤 취소해도 원래 큐의 티켓이 제거된다
	result, err := f.orch.CancelMatch(ctx, "u1", models.ENFJ)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusCancelled, result.Status)

	size, _ := f.queue.Size(ctx, models.INFP)
	assert.Equal(t, 0, size)
}

func TestCancelMatch_SecondCallFails(t *testing.T) {
	f := newMatchFixture(time.Minute)
	ctx := context.Background()

	_, err := f.orch.RequestMatch(ctx, "u1", models.INFP, 1)
	require.NoError(t, err)

	first, err := f.orch.CancelMatch(ctx, "u1", models.INFP)
	require.NoError(t, err)
	second, err := f.orch.CancelMatch(ctx, "u1", models.INFP)
	require.NoError(t, err)

	assert.Equal(t, models.MatchStatusCancelled, first.Status)
	assert.Equal(t, models.MatchStatusFail, second.Status)

	state, _ := f.states.GetState(ctx, "u1")
	assert.Nil(t, state)
}

func TestSetQueued_DoesNotDowngradeChattingState(t *testing.T) {
	states := newFakeStateStore()
	ctx := context.Background()

	require.NoError(t, states.SetMatched(ctx, "u1", models.INFP, "room-1",
		models.MatchPartner{UserID: "u2", MBTI: models.ENFJ}, 0))
	require.NoError(t, states.SetChatting(ctx, "u1", "room-1"))
	require.NoError(t, states.SetQueued(ctx, "u1", models.INFP))

	state, err := states.GetState(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, models.MatchStateChatting, state.State)
}

func TestWaitingCount(t *testing.T) {
	f := newMatchFixture(time.Minute)
	ctx := context.Background()

	_, err := f.orch.RequestMatch(ctx, "u1", models.INFP, 1)
	require.NoError(t, err)
	// INFP의 레벨 1 타겟 큐가 모두 비어 있으므로 둘 다 대기한다
	_, err = f.orch.RequestMatch(ctx, "u2", models.INFP, 1)
	require.NoError(t, err)

	count, err := f.orch.WaitingCount(ctx, models.INFP)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
