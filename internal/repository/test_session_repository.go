package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mbtimate/mbtimate-backend/internal/models"
	"github.com/mbtimate/mbtimate-backend/pkg/database"
)

// TestSessionRepository MBTI 테스트 세션 저장소.
// 답변 목록은 JSONB 컬럼으로 보관한다
type TestSessionRepository struct {
	db *database.DB
}

func NewTestSessionRepository(db *database.DB) *TestSessionRepository {
	return &TestSessionRepository{db: db}
}

// Save 세션 저장 (insert 또는 update)
func (r *TestSessionRepository) Save(session *models.TestSession) error {
	answers, err := json.Marshal(session.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}

	query := `
		INSERT INTO mbti_test_sessions (id, user_id, answers, status, result_mbti, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (id)
		DO UPDATE SET answers = EXCLUDED.answers,
		              status = EXCLUDED.status,
		              result_mbti = EXCLUDED.result_mbti,
		              updated_at = NOW()
	`
	_, err = r.db.Exec(query,
		session.ID, session.UserID, answers, session.Status, session.ResultMBTI, session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save test session: %w", err)
	}
	return nil
}

// FindByID id로 세션 조회. 없으면 nil
func (r *TestSessionRepository) FindByID(id string) (*models.TestSession, error) {
	query := `
		SELECT id, user_id, answers, status, result_mbti, created_at, updated_at
		FROM mbti_test_sessions
		WHERE id = $1
	`
	return r.scanSession(r.db.QueryRow(query, id))
}

// FindInProgressByUserID 유저의 진행 중인 세션 조회. 없으면 nil
func (r *TestSessionRepository) FindInProgressByUserID(userID string) (*models.TestSession, error) {
	query := `
		SELECT id, user_id, answers, status, result_mbti, created_at, updated_at
		FROM mbti_test_sessions
		WHERE user_id = $1 AND status = 'in_progress'
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.scanSession(r.db.QueryRow(query, userID))
}

// DeleteInProgress 유저의 진행 중인 세션 삭제. 삭제 여부 반환
func (r *TestSessionRepository) DeleteInProgress(userID string) (bool, error) {
	query := `
		DELETE FROM mbti_test_sessions
		WHERE user_id = $1 AND status = 'in_progress'
	`
	result, err := r.db.Exec(query, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete test session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check deleted rows: %w", err)
	}
	return affected > 0, nil
}

func (r *TestSessionRepository) scanSession(row *sql.Row) (*models.TestSession, error) {
	session := &models.TestSession{}
	var answers []byte

	err := row.Scan(
		&session.ID,
		&session.UserID,
		&answers,
		&session.Status,
		&session.ResultMBTI,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan test session: %w", err)
	}

	if err := json.Unmarshal(answers, &session.Answers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal answers: %w", err)
	}

	return session, nil
}
