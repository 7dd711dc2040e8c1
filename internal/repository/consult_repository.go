package repository

import (
	"database/sql"
	"fmt"

	"github.com/mbtimate/mbtimate-backend/internal/models"
	"github.com/mbtimate/mbtimate-backend/pkg/database"
)

type ConsultRepository struct {
	db *database.DB
}

func NewConsultRepository(db *database.DB) *ConsultRepository {
	return &ConsultRepository{db: db}
}

// CreateSession 상담 세션 생성
func (r *ConsultRepository) CreateSession(id, userID, topic string) (*models.ConsultSession, error) {
	query := `
		INSERT INTO consult_sessions (id, user_id, topic)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, topic, created_at
	`

	session := &models.ConsultSession{}
	err := r.db.QueryRow(query, id, userID, topic).Scan(
		&session.ID, &session.UserID, &session.Topic, &session.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create consult session: %w", err)
	}

	return session, nil
}

// FindSessionByID id로 세션 조회. 없으면 nil
func (r *ConsultRepository) FindSessionByID(id string) (*models.ConsultSession, error) {
	query := `
		SELECT id, user_id, topic, created_at
		FROM consult_sessions
		WHERE id = $1
	`

	session := &models.ConsultSession{}
	err := r.db.QueryRow(query, id).Scan(
		&session.ID, &session.UserID, &session.Topic, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find consult session: %w", err)
	}

	return session, nil
}

// SaveMessage 상담 메시지 저장
func (r *ConsultRepository) SaveMessage(message models.ConsultMessage) error {
	query := `
		INSERT INTO consult_messages (id, session_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(query,
		message.ID, message.SessionID, message.Role, message.Content, message.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save consult message: %w", err)
	}
	return nil
}

// FindMessagesBySessionID 세션의 대화 이력 (오래된 순)
func (r *ConsultRepository) FindMessagesBySessionID(sessionID string) ([]models.ConsultMessage, error) {
	query := `
		SELECT id, session_id, role, content, created_at
		FROM consult_messages
		WHERE session_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list consult messages: %w", err)
	}
	defer rows.Close()

	var messages []models.ConsultMessage
	for rows.Next() {
		var m models.ConsultMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan consult message: %w", err)
		}
		messages = append(messages, m)
	}

	return messages, nil
}
