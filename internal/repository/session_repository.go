package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mbtimate/mbtimate-backend/internal/models"
)

// SessionRepository 로그인 세션 저장소 (Redis, TTL 적용).
// 세션이 삭제되면 해당 JWT는 더 이상 유효하지 않다 (로그아웃)
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{client: client, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

// Save 세션 저장
func (r *SessionRepository) Save(ctx context.Context, session models.Session) error {
	if err := r.client.Set(ctx, sessionKey(session.SessionID), session.UserID, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Find 세션 조회. 없으면 nil
func (r *SessionRepository) Find(ctx context.Context, sessionID string) (*models.Session, error) {
	userID, err := r.client.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	return &models.Session{SessionID: sessionID, UserID: userID}, nil
}

// Delete 세션 삭제 (로그아웃)
func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
