package models

import "time"

// MatchTicket 매칭 대기열에 등록된 요청 한 건
type MatchTicket struct {
	UserID   string    `json:"user_id"`
	MBTI     MBTI      `json:"mbti"`
	QueuedAt time.Time `json:"queued_at"`
}

// MatchState 유저의 매칭 생명주기 상태
type MatchState string

const (
	MatchStateQueued   MatchState = "queued"
	MatchStateMatched  MatchState = "matched"
	MatchStateChatting MatchState = "chatting"
)

// UserMatchState 유저별 매칭 상태 레코드 (Redis에 저장, 레코드 부재 = idle)
type UserMatchState struct {
	UserID      string     `json:"user_id"`
	State       MatchState `json:"state"`
	MBTI        MBTI       `json:"mbti"`
	RoomID      string     `json:"room_id,omitempty"`
	PartnerID   string     `json:"partner_id,omitempty"`
	PartnerMBTI MBTI       `json:"partner_mbti,omitempty"`
}

// 매칭 요청/취소가 돌려주는 결과 상태 문자열
const (
	MatchStatusMatched        = "matched"
	MatchStatusWaiting        = "waiting"
	MatchStatusAlreadyWaiting = "already_waiting"
	MatchStatusAlreadyMatched = "already_matched"
	MatchStatusCancelled      = "cancelled"
	MatchStatusFail           = "fail"
)

// MatchPartner 매칭 결과에 포함되는 상대 정보
type MatchPartner struct {
	UserID string `json:"user_id"`
	MBTI   MBTI   `json:"mbti"`
}

// MatchResult 매칭 요청/취소의 구조화된 결과
type MatchResult struct {
	Status    string        `json:"status"`
	Message   string        `json:"message,omitempty"`
	MyMBTI    MBTI          `json:"my_mbti,omitempty"`
	RoomID    string        `json:"room_id,omitempty"`
	WaitCount int           `json:"wait_count,omitempty"`
	Partner   *MatchPartner `json:"partner,omitempty"`
}

// RoomCreation 채팅방 생성 협력자에게 전달하는 페이로드
type RoomCreation struct {
	RoomID    string         `json:"roomId"`
	Users     []MatchPartner `json:"users"`
	Timestamp time.Time      `json:"timestamp"`
}
