package models

import "time"

// ChatRoomStatus 채팅방 상태
type ChatRoomStatus string

const (
	RoomStatusActive      ChatRoomStatus = "active"
	RoomStatusLeftByUser1 ChatRoomStatus = "left_by_user1"
	RoomStatusLeftByUser2 ChatRoomStatus = "left_by_user2"
	RoomStatusClosed      ChatRoomStatus = "closed"
)

// ChatRoom 1:1 채팅방. 매칭 성사 시 Orchestrator가 생성한다
type ChatRoom struct {
	ID              string         `json:"id" db:"id"`
	User1ID         string         `json:"user1Id" db:"user1_id"`
	User2ID         string         `json:"user2Id" db:"user2_id"`
	Status          ChatRoomStatus `json:"status" db:"status"`
	User1LastReadAt *time.Time     `json:"user1LastReadAt,omitempty" db:"user1_last_read_at"`
	User2LastReadAt *time.Time     `json:"user2LastReadAt,omitempty" db:"user2_last_read_at"`
	CreatedAt       time.Time      `json:"createdAt" db:"created_at"`
}

// HasMember 해당 유저가 채팅방 참여자인지 확인
func (r *ChatRoom) HasMember(userID string) bool {
	return r.User1ID == userID || r.User2ID == userID
}

// PartnerOf 상대 참여자 ID 반환. 참여자가 아니면 빈 문자열
func (r *ChatRoom) PartnerOf(userID string) string {
	switch userID {
	case r.User1ID:
		return r.User2ID
	case r.User2ID:
		return r.User1ID
	}
	return ""
}

// LastReadAt 해당 유저의 마지막 읽은 시각
func (r *ChatRoom) LastReadAt(userID string) *time.Time {
	if userID == r.User1ID {
		return r.User1LastReadAt
	}
	if userID == r.User2ID {
		return r.User2LastReadAt
	}
	return nil
}

// LeftStatusFor 해당 유저가 나갔을 때의 상태 값.
// 상대가 이미 나간 방이면 closed로 전이한다
func (r *ChatRoom) LeftStatusFor(userID string) ChatRoomStatus {
	if userID == r.User1ID {
		if r.Status == RoomStatusLeftByUser2 {
			return RoomStatusClosed
		}
		return RoomStatusLeftByUser1
	}
	if r.Status == RoomStatusLeftByUser1 {
		return RoomStatusClosed
	}
	return RoomStatusLeftByUser2
}

// ChatMessage 채팅 메시지
type ChatMessage struct {
	ID        string    `json:"id" db:"id"`
	RoomID    string    `json:"roomId" db:"room_id"`
	SenderID  string    `json:"senderId" db:"sender_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ChatRoomPreview 채팅방 목록용 요약 (최신 메시지 + 안 읽은 수)
type ChatRoomPreview struct {
	ID            string       `json:"id"`
	User1ID       string       `json:"user1Id"`
	User2ID       string       `json:"user2Id"`
	CreatedAt     time.Time    `json:"createdAt"`
	LatestMessage *ChatMessage `json:"latestMessage,omitempty"`
	UnreadCount   int          `json:"unreadCount"`
}

// Report 채팅 상대 신고
type Report struct {
	ID         string    `json:"id" db:"id"`
	RoomID     string    `json:"roomId" db:"room_id"`
	ReporterID string    `json:"reporterId" db:"reporter_id"`
	ReportedID string    `json:"reportedId" db:"reported_id"`
	Reason     string    `json:"reason" db:"reason"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// Rating 채팅 상대 평가 (1~5점, 방별 1회)
type Rating struct {
	ID        string    `json:"id" db:"id"`
	RoomID    string    `json:"roomId" db:"room_id"`
	RaterID   string    `json:"raterId" db:"rater_id"`
	RatedID   string    `json:"ratedId" db:"rated_id"`
	Score     int       `json:"score" db:"score"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
