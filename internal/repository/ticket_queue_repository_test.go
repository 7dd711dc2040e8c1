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

func setupTicketQueue(t *testing.T) (*redis.Client, *TicketQueueRepository) {
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

	return client, NewTicketQueueRepository(client)
}

func ticket(userID string, mbti models.MBTI) models.MatchTicket {
	return models.MatchTicket{
		UserID:   userID,
		MBTI:     mbti,
		QueuedAt: time.Now(),
	}
}

func TestTicketQueue_EnqueueDequeue(t *testing.T) {
	client, repo := setupTicketQueue(t)
	defer client.Close()

	ctx := context.Background()

	err := repo.Enqueue(ctx, ticket("u1", models.INFP))
	require.NoError(t, err)

	size, err := repo.Size(ctx, models.INFP)
	require.NoError(t, err)
	assert.Equal(t, 1, size)

	dequeued, err := repo.Dequeue(ctx, models.INFP)
	require.NoError(t, err)
	require.NotNil(t, dequeued)
	assert.Equal(t, "u1", dequeued.UserID)
	assert.Equal(t, models.INFP, dequeued.MBTI)

	// 꺼낸 뒤에는 인덱스도 해제되어 재등록 가능
	contains, err := repo.Contains(ctx, "u1", models.INFP)
	require.NoError(t, err)
	assert.False(t, contains)

	err = repo.Enqueue(ctx, ticket("u1", models.INFP))
	assert.NoError(t, err)
}

func TestTicketQueue_FIFO(t *testing.T) {
	client, repo := setupTicketQueue(t)
	defer client.Close()

	ctx := context.Background()

	require.NoError(t, repo.Enqueue(ctx, ticket("u1", models.ENFJ)))
	require.NoError(t, repo.Enqueue(ctx, ticket("u2", models.ENFJ)))
	require.NoError(t, repo.Enqueue(ctx, ticket("u3", models.ENFJ)))

	first, err := repo.Dequeue(ctx, models.ENFJ)
	require.NoError(t, err)
	second, err := repo.Dequeue(ctx, models.ENFJ)
	require.NoError(t, err)

	assert.Equal(t, "u1", first.UserID)
	assert.Equal(t, "u2", second.UserID)
}

func TestTicketQueue_DuplicateRejected(t *testing.T) {
	client, repo := setupTicketQueue(t)
	defer client.Close()

	ctx := context.Background()

	require.NoError(t, repo.Enqueue(ctx, ticket("u1", models.INFP)))

	// 같은 큐 재등록 거부
	err := repo.Enqueue(ctx, ticket("u1", models.INFP))
	assert.ErrorIs(t, err, ErrDuplicateTicket)

	// 다른 유형 큐도 거부 (시스템 전체에서 하나의 티켓만 허용)
	err = repo.Enqueue(ctx, ticket("u1", models.ENFJ))
	assert.ErrorIs(t, err, ErrDuplicateTicket)

	size, err := repo.Size(ctx, models.ENFJ)
	require.NoError(t, err)
	assert.Equal(t, 0, size)
}

func TestTicketQueue_DequeueEmpty(t *testing.T) {
	client, repo := setupTicketQueue(t)
	defer client.Close()

	dequeued, err := repo.Dequeue(context.Background(), models.ISTJ)
	require.NoError(t, err)
	assert.Nil(t, dequeued)
}

func TestTicketQueue_Remove(t *testing.T) {
	client, repo := setupTicketQueue(t)
	defer client.Close()

	ctx := context.Background()

	require.NoError(t, repo.Enqueue(ctx, ticket("u1", models.INFP)))
	require.NoError(t, repo.Enqueue(ctx, ticket("u2", models.INFP)))

	removed, err := repo.Remove(ctx, "u1", models.INFP)
	require.NoError(t, err)
	assert.True(t, removed)

	// u2는 그대로 남고 u1만 제거된다
	size, err := repo.Size(ctx, models.INFP)
	require.NoError(t, err)
	assert.Equal(t, 1, size)

	removed, err = repo.Remove(ctx, "u1", models.INFP)
	require.NoError(t, err)
	assert.False(t, removed)

	// 제거 후 재등록 가능
	assert.NoError(t, repo.Enqueue(ctx, ticket("u1", models.INFP)))
}

func TestTicketQueue_RemoveAnyFollowsIndex(t *testing.T) {
	client, repo := setupTicketQueue(t)
	defer client.Close()

	ctx := context.Background()

	require.NoError(t, repo.Enqueue(ctx, ticket("u1", models.INFP)))

	// 요청 시점의 유형을 몰라도 인덱스를 따라 실제 큐에서 제거된다
	removed, err := repo.RemoveAny(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, removed)

	size, err := repo.Size(ctx, models.INFP)
	require.NoError(t, err)
	assert.Equal(t, 0, size)

	// 인덱스가 해제되어 다른 유형으로 재등록 가능
	assert.NoError(t, repo.Enqueue(ctx, ticket("u1", models.ENFJ)))

	removed, err = repo.RemoveAny(ctx, "u2")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestTicketQueue_SizesForSortedDescending(t *testing.T) {
	client, repo := setupTicketQueue(t)
	defer client.Close()

	ctx := context.Background()

	require.NoError(t, repo.Enqueue(ctx, ticket("u1", models.ENFJ)))
	require.NoError(t, repo.Enqueue(ctx, ticket("u2", models.ENTJ)))
	require.NoError(t, repo.Enqueue(ctx, ticket("u3", models.ENTJ)))

	sizes, err := repo.SizesFor(ctx, []models.MBTI{models.ENFJ, models.ENTJ, models.INTP})
	require.NoError(t, err)
	require.Len(t, sizes, 3)

	assert.Equal(t, models.ENTJ, sizes[0].MBTI)
	assert.Equal(t, 2, sizes[0].Size)
	assert.Equal(t, models.ENFJ, sizes[1].MBTI)
	assert.Equal(t, 1, sizes[1].Size)
	assert.Equal(t, 0, sizes[2].Size)
}

func TestTicketQueue_Contains(t *testing.T) {
	client, repo := setupTicketQueue(t)
	defer client.Close()

	ctx := context.Background()

	require.NoError(t, repo.Enqueue(ctx, ticket("u1", models.INFP)))

	contains, err := repo.Contains(ctx, "u1", models.INFP)
	require.NoError(t, err)
	assert.True(t, contains)

	// 다른 유형 큐에 대해서는 false
	contains, err = repo.Contains(ctx, "u1", models.ENFJ)
	require.NoError(t, err)
	assert.False(t, contains)

	contains, err = repo.Contains(ctx, "unknown", models.INFP)
	require.NoError(t, err)
	assert.False(t, contains)
}
