package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mbtimate/mbtimate-backend/internal/models"
)

var ErrDuplicateTicket = errors.New("user already waiting in a queue")

// TicketQueueRepository MBTI별 매칭 대기열 (Redis List + 전역 인덱스 Hash).
// 키 구조:
//   - match:queue:{MBTI}  : 해당 유형의 티켓 FIFO (List)
//   - match:queue:index   : user_id -> MBTI 역색인 (Hash)
//
// 한 유저는 시스템 전체에서 하나의 큐에만 존재할 수 있고,
// 이 불변식은 enqueue Lua 스크립트의 HSETNX로 강제된다.
type TicketQueueRepository struct {
	client *redis.Client
}

func NewTicketQueueRepository(client *redis.Client) *TicketQueueRepository {
	return &TicketQueueRepository{client: client}
}

const queueIndexKey = "match:queue:index"

func queueKey(mbti models.MBTI) string {
	return fmt.Sprintf("match:queue:%s", mbti)
}

// 인덱스 선점에 성공한 경우에만 리스트에 추가한다
var enqueueScript = redis.NewScript(`
	local queue_key = KEYS[1]
	local index_key = KEYS[2]
	local user_id = ARGV[1]
	local mbti = ARGV[2]
	local ticket = ARGV[3]

	if redis.call('HSETNX', index_key, user_id, mbti) == 0 then
		return 0
	end

	redis.call('RPUSH', queue_key, ticket)
	return 1
`)

var dequeueScript = redis.NewScript(`
	local queue_key = KEYS[1]
	local index_key = KEYS[2]

	local ticket = redis.call('LPOP', queue_key)
	if not ticket then
		return false
	end

	local user_id = cjson.decode(ticket).user_id
	redis.call('HDEL', index_key, user_id)
	return ticket
`)

var removeScript = redis.NewScript(`
	local queue_key = KEYS[1]
	local index_key = KEYS[2]
	local user_id = ARGV[1]

	local items = redis.call('LRANGE', queue_key, 0, -1)
	for _, item in ipairs(items) do
		if cjson.decode(item).user_id == user_id then
			redis.call('LREM', queue_key, 1, item)
			redis.call('HDEL', index_key, user_id)
			return 1
		end
	end
	return 0
`)

// 인덱스가 가리키는 실제 큐를 찾아 제거한다. 큐 키는 런타임에 정해지므로
// ARGV로 받은 접두사로 조립한다
var removeAnyScript = redis.NewScript(`
	local index_key = KEYS[1]
	local user_id = ARGV[1]
	local queue_prefix = ARGV[2]

	local mbti = redis.call('HGET', index_key, user_id)
	if not mbti then
		return 0
	end

	local queue_key = queue_prefix .. mbti
	local items = redis.call('LRANGE', queue_key, 0, -1)
	for _, item in ipairs(items) do
		if cjson.decode(item).user_id == user_id then
			redis.call('LREM', queue_key, 1, item)
		end
	end
	redis.call('HDEL', index_key, user_id)
	return 1
`)

// Enqueue 티켓을 큐 꼬리에 추가. 이미 대기 중인 유저면 ErrDuplicateTicket
func (r *TicketQueueRepository) Enqueue(ctx context.Context, ticket models.MatchTicket) error {
	if ticket.QueuedAt.IsZero() {
		ticket.QueuedAt = time.Now()
	}

	data, err := json.Marshal(ticket)
	if err != nil {
		return fmt.Errorf("failed to marshal ticket: %w", err)
	}

	added, err := enqueueScript.Run(
		ctx, r.client,
		[]string{queueKey(ticket.MBTI), queueIndexKey},
		ticket.UserID, string(ticket.MBTI), data,
	).Int()
	if err != nil {
		return fmt.Errorf("failed to enqueue ticket: %w", err)
	}

	if added == 0 {
		return ErrDuplicateTicket
	}

	return nil
}

// Dequeue 해당 유형 큐의 맨 앞 티켓을 꺼낸다. 비어 있으면 nil
func (r *TicketQueueRepository) Dequeue(ctx context.Context, mbti models.MBTI) (*models.MatchTicket, error) {
	result, err := dequeueScript.Run(
		ctx, r.client,
		[]string{queueKey(mbti), queueIndexKey},
	).Result()
	if err == redis.Nil || result == nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue ticket: %w", err)
	}

	var ticket models.MatchTicket
	if err := json.Unmarshal([]byte(result.(string)), &ticket); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ticket: %w", err)
	}

	return &ticket, nil
}

// Remove 특정 유저의 티켓을 해당 유형 큐에서 제거. 제거 여부 반환
func (r *TicketQueueRepository) Remove(ctx context.Context, userID string, mbti models.MBTI) (bool, error) {
	removed, err := removeScript.Run(
		ctx, r.client,
		[]string{queueKey(mbti), queueIndexKey},
		userID,
	).Int()
	if err != nil {
		return false, fmt.Errorf("failed to remove ticket: %w", err)
	}

	return removed == 1, nil
}

// RemoveAny 유저의 티켓을 유형에 관계없이 제거한다.
// 요청 시점의 MBTI가 대기 당시와 달라도 인덱스를 따라가 실제 큐에서 지운다
func (r *TicketQueueRepository) RemoveAny(ctx context.Context, userID string) (bool, error) {
	removed, err := removeAnyScript.Run(
		ctx, r.client,
		[]string{queueIndexKey},
		userID, "match:queue:",
	).Int()
	if err != nil {
		return false, fmt.Errorf("failed to remove ticket: %w", err)
	}

	return removed == 1, nil
}

// Size 해당 유형 큐의 대기 인원
func (r *TicketQueueRepository) Size(ctx context.Context, mbti models.MBTI) (int, error) {
	size, err := r.client.LLen(ctx, queueKey(mbti)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue size: %w", err)
	}
	return int(size), nil
}

// QueueSize 탐색용 (유형, 대기 인원) 쌍
type QueueSize struct {
	MBTI models.MBTI
	Size int
}

// SizesFor 주어진 유형들의 큐 크기를 내림차순으로 정렬해 반환.
// 대기자가 많은 큐부터 탐색해 매칭 확률을 높이기 위한 최적화
func (r *TicketQueueRepository) SizesFor(ctx context.Context, types []models.MBTI) ([]QueueSize, error) {
	if len(types) == 0 {
		return nil, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.IntCmd, len(types))
	for i, t := range types {
		cmds[i] = pipe.LLen(ctx, queueKey(t))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get queue sizes: %w", err)
	}

	sizes := make([]QueueSize, len(types))
	for i, t := range types {
		sizes[i] = QueueSize{MBTI: t, Size: int(cmds[i].Val())}
	}

	// 동률이면 호환성 테이블의 우선순위를 유지한다
	sort.SliceStable(sizes, func(i, j int) bool {
		return sizes[i].Size > sizes[j].Size
	})

	return sizes, nil
}

// Contains 해당 유저가 해당 유형 큐에 대기 중인지 확인
func (r *TicketQueueRepository) Contains(ctx context.Context, userID string, mbti models.MBTI) (bool, error) {
	queued, err := r.client.HGet(ctx, queueIndexKey, userID).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check queue membership: %w", err)
	}
	return queued == string(mbti), nil
}
