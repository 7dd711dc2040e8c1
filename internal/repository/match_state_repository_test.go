package repository

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbtimate/mbtimate-backend/internal/models"
)

func setupMatchState(t *testing.T) (*redis.Client, *MatchStateRepository) {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // 테스트용 DB
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skip("Redis not available:", err)
	}

	// 테스트 전 DB 초기화
	client.FlushDB(ctx)

	return client, NewMatchStateRepository(client)
}

func TestMatchState_IdleByDefault(t *testing.T) {
	client, repo := setupMatchState(t)
	defer client.Close()

	ctx := context.Background()

	state, err := repo.GetState(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, state)

	available, err := repo.IsAvailableForMatch(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, available)
}

func TestMatchState_QueuedLifecycle(t *testing.T) {
	client, repo := setupMatchState(t)
	defer client.Close()

	ctx := context.Background()

	require.NoError(t, repo.SetQueued(ctx, "u1", models.INFP))

	state, err := repo.GetState(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, models.MatchStateQueued, state.State)
	assert.Equal(t, models.INFP, state.MBTI)

	// QUEUED는 매칭을 막지 않는다
	available, err := repo.IsAvailableForMatch(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, available)

	require.NoError(t, repo.ClearState(ctx, "u1"))

	state, err = repo.GetState(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestMatchState_MatchedBlocksNewMatches(t *testing.T) {
	client, repo := setupMatchState(t)
	defer client.Close()

	ctx := context.Background()

	require.NoError(t, repo.SetMatched(ctx, "u1", models.INFP, "room-1",
		models.MatchPartner{UserID: "u2", MBTI: models.ENFJ}, time.Minute))

	state, err := repo.GetState(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, models.MatchStateMatched, state.State)
	assert.Equal(t, "room-1", state.RoomID)
	assert.Equal(t, "u2", state.PartnerID)
	assert.Equal(t, models.ENFJ, state.PartnerMBTI)

	available, err := repo.IsAvailableForMatch(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, available)
}

func TestMatchState_MatchedExpiresWithTTL(t *testing.T) {
	client, repo := setupMatchState(t)
	defer client.Close()

	ctx := context.Background()

	require.NoError(t, repo.SetMatched(ctx, "u1", models.INFP, "room-1",
		models.MatchPartner{UserID: "u2", MBTI: models.ENFJ}, 100*time.Millisecond))

	time.Sleep(200 * time.Millisecond)

	// TTL 만료 후 idle로 복귀
	state, err := repo.GetState(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, state)

	available, err := repo.IsAvailableForMatch(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, available)
}

func TestMatchState_ChattingPreservesMatchInfo(t *testing.T) {
	client, repo := setupMatchState(t)
	defer client.Close()

	ctx := context.Background()

	require.NoError(t, repo.SetMatched(ctx, "u1", models.INFP, "room-1",
		models.MatchPartner{UserID: "u2", MBTI: models.ENFJ}, time.Minute))
	require.NoError(t, repo.SetChatting(ctx, "u1", "room-1"))

	state, err := repo.GetState(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, models.MatchStateChatting, state.State)
	assert.Equal(t, models.INFP, state.MBTI)
	assert.Equal(t, "u2", state.PartnerID)
	assert.Equal(t, models.ENFJ, state.PartnerMBTI)

	// CHATTING은 TTL이 없어 만료되지 않는다
	ttl, err := client.TTL(ctx, stateKey("u1")).Result()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(-1), ttl)

	// 채팅 중에도 새 매칭은 가능
	available, err := repo.IsAvailableForMatch(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, available)
}

func TestMatchState_QueuedDoesNotDowngradeChatting(t *testing.T) {
	client, repo := setupMatchState(t)
	defer client.Close()

	ctx := context.Background()

	require.NoError(t, repo.SetChatting(ctx, "u1", "room-1"))
	require.NoError(t, repo.SetQueued(ctx, "u1", models.INFP))

	state, err := repo.GetState(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, models.MatchStateChatting, state.State)
	assert.Equal(t, "room-1", state.RoomID)
}
