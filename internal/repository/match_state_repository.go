package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mbtimate/mbtimate-backend/internal/models"
	"github.com/mbtimate/mbtimate-backend/pkg/logger"
)

// MatchStateRepository 유저별 매칭 상태 저장소 (Redis String + TTL).
// 키: match:state:{userID}, 값은 JSON. 레코드가 없으면 idle로 취급한다.
// MATCHED 상태만 TTL을 가지며, 만료되면 유저는 다시 매칭 가능해진다.
type MatchStateRepository struct {
	client *redis.Client
}

func NewMatchStateRepository(client *redis.Client) *MatchStateRepository {
	return &MatchStateRepository{client: client}
}

func stateKey(userID string) string {
	return fmt.Sprintf("match:state:%s", userID)
}

// GetState 현재 상태 조회. 없으면 nil (idle)
func (r *MatchStateRepository) GetState(ctx context.Context, userID string) (*models.UserMatchState, error) {
	data, err := r.client.Get(ctx, stateKey(userID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match state: %w", err)
	}

	var state models.UserMatchState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match state: %w", err)
	}

	return &state, nil
}

// SetQueued 대기 상태로 기록. CHATTING 상태인 유저는 덮어쓰지 않는다
// (채팅 중에도 새 매칭 대기는 가능하므로 상태를 강등하면 안 됨).
// TTL 없음 - 취소되거나 매칭될 때까지 유지
func (r *MatchStateRepository) SetQueued(ctx context.Context, userID string, mbti models.MBTI) error {
	current, err := r.GetState(ctx, userID)
	if err != nil {
		return err
	}
	if current != nil && current.State == models.MatchStateChatting {
		logger.Debug("User is chatting, not downgrading state to queued", "userId", userID)
		return nil
	}

	state := models.UserMatchState{
		UserID: userID,
		State:  models.MatchStateQueued,
		MBTI:   mbti,
	}
	return r.setState(ctx, state, 0)
}

// SetMatched 매칭 성사 상태로 기록. ttl 안에 채팅에 접속하지 않으면
// 레코드가 만료되어 다시 매칭 가능해진다
func (r *MatchStateRepository) SetMatched(
	ctx context.Context,
	userID string,
	mbti models.MBTI,
	roomID string,
	partner models.MatchPartner,
	ttl time.Duration,
) error {
	state := models.UserMatchState{
		UserID:      userID,
		State:       models.MatchStateMatched,
		MBTI:        mbti,
		RoomID:      roomID,
		PartnerID:   partner.UserID,
		PartnerMBTI: partner.MBTI,
	}
	return r.setState(ctx, state, ttl)
}

// SetChatting 채팅 접속 확정 상태. TTL 없음 - 연결이 끊길 때 정리된다.
// 기존 상태의 mbti/partner 정보는 보존한다
func (r *MatchStateRepository) SetChatting(ctx context.Context, userID, roomID string) error {
	current, err := r.GetState(ctx, userID)
	if err != nil {
		return err
	}

	state := models.UserMatchState{
		UserID: userID,
		State:  models.MatchStateChatting,
		RoomID: roomID,
	}
	if current != nil {
		state.MBTI = current.MBTI
		state.PartnerID = current.PartnerID
		state.PartnerMBTI = current.PartnerMBTI
	}
	return r.setState(ctx, state, 0)
}

// ClearState 상태 삭제 (idle로 복귀)
func (r *MatchStateRepository) ClearState(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, stateKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear match state: %w", err)
	}
	return nil
}

// IsAvailableForMatch 매칭 가능 여부.
// MATCHED 상태(성사됐지만 아직 접속 전)만 매칭을 막는다.
// idle/QUEUED/CHATTING은 모두 매칭 가능 (채팅방 복수 보유 허용)
func (r *MatchStateRepository) IsAvailableForMatch(ctx context.Context, userID string) (bool, error) {
	state, err := r.GetState(ctx, userID)
	if err != nil {
		return false, err
	}
	if state == nil {
		return true, nil
	}
	return state.State != models.MatchStateMatched, nil
}

func (r *MatchStateRepository) setState(ctx context.Context, state models.UserMatchState, ttl time.Duration) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal match state: %w", err)
	}

	if err := r.client.Set(ctx, stateKey(state.UserID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set match state: %w", err)
	}
	return nil
}
