package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mbtimate/mbtimate-backend/internal/models"
	"github.com/mbtimate/mbtimate-backend/pkg/database"
)

type ChatMessageRepository struct {
	db *database.DB
}

func NewChatMessageRepository(db *database.DB) *ChatMessageRepository {
	return &ChatMessageRepository{db: db}
}

// Save 메시지 저장
func (r *ChatMessageRepository) Save(message models.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (id, room_id, sender_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(query, message.ID, message.RoomID, message.SenderID, message.Content, message.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save chat message: %w", err)
	}
	return nil
}

// FindByRoomID 채팅방의 메시지 전체 조회 (오래된 순)
func (r *ChatMessageRepository) FindByRoomID(roomID string) ([]models.ChatMessage, error) {
	query := `
		SELECT id, room_id, sender_id, content, created_at
		FROM chat_messages
		WHERE room_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.RoomID, &m.SenderID, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, m)
	}

	return messages, nil
}

// LatestByRoomID 채팅방의 최신 메시지 1건. 없으면 nil
func (r *ChatMessageRepository) LatestByRoomID(roomID string) (*models.ChatMessage, error) {
	query := `
		SELECT id, room_id, sender_id, content, created_at
		FROM chat_messages
		WHERE room_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	m := &models.ChatMessage{}
	err := r.db.QueryRow(query, roomID).Scan(&m.ID, &m.RoomID, &m.SenderID, &m.Content, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest message: %w", err)
	}
	return m, nil
}

// CountUnread 상대가 보낸 메시지 중 lastReadAt 이후의 개수.
// lastReadAt이 nil이면 상대 메시지 전체를 센다
func (r *ChatMessageRepository) CountUnread(roomID, userID string, lastReadAt *time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM chat_messages
		WHERE room_id = $1
		  AND sender_id != $2
		  AND ($3::timestamptz IS NULL OR created_at > $3)
	`

	var count int
	err := r.db.QueryRow(query, roomID, userID, lastReadAt).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}
