package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mbtimate/mbtimate-backend/internal/models"
	"github.com/mbtimate/mbtimate-backend/pkg/database"
)

type ChatRoomRepository struct {
	db *database.DB
}

func NewChatRoomRepository(db *database.DB) *ChatRoomRepository {
	return &ChatRoomRepository{db: db}
}

const chatRoomColumns = `id, user1_id, user2_id, status, user1_last_read_at, user2_last_read_at, created_at`

func scanChatRoom(row interface{ Scan(...interface{}) error }) (*models.ChatRoom, error) {
	room := &models.ChatRoom{}
	err := row.Scan(
		&room.ID,
		&room.User1ID,
		&room.User2ID,
		&room.Status,
		&room.User1LastReadAt,
		&room.User2LastReadAt,
		&room.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return room, nil
}

// Create 채팅방 생성
func (r *ChatRoomRepository) Create(roomID, user1ID, user2ID string, createdAt time.Time) error {
	query := `
		INSERT INTO chat_rooms (id, user1_id, user2_id, status, created_at)
		VALUES ($1, $2, $3, 'active', $4)
	`
	_, err := r.db.Exec(query, roomID, user1ID, user2ID, createdAt)
	if err != nil {
		return fmt.Errorf("failed to create chat room: %w", err)
	}
	return nil
}

// FindByID id로 채팅방 조회. 없으면 nil
func (r *ChatRoomRepository) FindByID(roomID string) (*models.ChatRoom, error) {
	query := `SELECT ` + chatRoomColumns + ` FROM chat_rooms WHERE id = $1`

	room, err := scanChatRoom(r.db.QueryRow(query, roomID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find chat room: %w", err)
	}
	return room, nil
}

// FindByUserID 유저가 참여 중인 채팅방 목록 (나간 방 제외, 최신순)
func (r *ChatRoomRepository) FindByUserID(userID string) ([]*models.ChatRoom, error) {
	query := `
		SELECT ` + chatRoomColumns + `
		FROM chat_rooms
		WHERE (user1_id = $1 AND status NOT IN ('left_by_user1', 'closed'))
		   OR (user2_id = $1 AND status NOT IN ('left_by_user2', 'closed'))
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*models.ChatRoom
	for rows.Next() {
		room, err := scanChatRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chat room: %w", err)
		}
		rooms = append(rooms, room)
	}

	return rooms, nil
}

// FindActiveByUsers 두 유저 간 active 상태의 채팅방 조회 (순서 무관). 없으면 nil
func (r *ChatRoomRepository) FindActiveByUsers(user1ID, user2ID string) (*models.ChatRoom, error) {
	query := `
		SELECT ` + chatRoomColumns + `
		FROM chat_rooms
		WHERE ((user1_id = $1 AND user2_id = $2) OR (user1_id = $2 AND user2_id = $1))
		  AND status = 'active'
		LIMIT 1
	`

	room, err := scanChatRoom(r.db.QueryRow(query, user1ID, user2ID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find chat room by users: %w", err)
	}
	return room, nil
}

// UpdateStatus 채팅방 상태 변경
func (r *ChatRoomRepository) UpdateStatus(roomID string, status models.ChatRoomStatus) error {
	query := `UPDATE chat_rooms SET status = $2 WHERE id = $1`
	_, err := r.db.Exec(query, roomID, status)
	if err != nil {
		return fmt.Errorf("failed to update chat room status: %w", err)
	}
	return nil
}

// MarkRead 해당 유저의 마지막 읽은 시각을 지금으로 갱신
func (r *ChatRoomRepository) MarkRead(roomID, userID string, readAt time.Time) error {
	query := `
		UPDATE chat_rooms
		SET user1_last_read_at = CASE WHEN user1_id = $2 THEN $3 ELSE user1_last_read_at END,
		    user2_last_read_at = CASE WHEN user2_id = $2 THEN $3 ELSE user2_last_read_at END
		WHERE id = $1
	`
	_, err := r.db.Exec(query, roomID, userID, readAt)
	if err != nil {
		return fmt.Errorf("failed to mark chat room as read: %w", err)
	}
	return nil
}
