package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID           string    `json:"id" db:"id"`
	Nickname     string    `json:"nickname" db:"nickname"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // JSON에서 숨김
	MBTI         *MBTI     `json:"mbti,omitempty" db:"mbti"`
	Gender       *Gender   `json:"gender,omitempty" db:"gender"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

type UpdateUserRequest struct {
	Nickname string `json:"nickname"`
	MBTI     string `json:"mbti"`
	Gender   string `json:"gender"`
}

// HashPassword 비밀번호 해싱
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword 비밀번호 검증
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// Block 유저 차단 관계 (blocker가 blocked를 차단)
type Block struct {
	ID        string    `json:"id" db:"id"`
	BlockerID string    `json:"blockerId" db:"blocker_id"`
	BlockedID string    `json:"blockedId" db:"blocked_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Session 로그인 세션 (Redis에 TTL과 함께 저장)
type Session struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
}
