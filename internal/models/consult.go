package models

import "time"

// ConsultRole 상담 메시지 화자 구분
type ConsultRole string

const (
	ConsultRoleUser      ConsultRole = "user"
	ConsultRoleAssistant ConsultRole = "assistant"
)

// ConsultSession AI 상담 세션
type ConsultSession struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Topic     string    `json:"topic" db:"topic"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ConsultMessage 상담 대화 한 줄
type ConsultMessage struct {
	ID        string      `json:"id" db:"id"`
	SessionID string      `json:"sessionId" db:"session_id"`
	Role      ConsultRole `json:"role" db:"role"`
	Content   string      `json:"content" db:"content"`
	CreatedAt time.Time   `json:"createdAt" db:"created_at"`
}

// ToneMessage 특정 말투로 변환된 메시지
type ToneMessage struct {
	Tone        string `json:"tone"`
	Content     string `json:"content"`
	Explanation string `json:"explanation"`
}
