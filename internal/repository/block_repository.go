package repository

import (
	"context"
	"fmt"

	"github.com/mbtimate/mbtimate-backend/internal/models"
	"github.com/mbtimate/mbtimate-backend/pkg/database"
)

// BlockRepository 유저 차단 관계 저장소.
// 매칭 탐색의 차단 필터가 양방향 조회로 사용한다
type BlockRepository struct {
	db *database.DB
}

func NewBlockRepository(db *database.DB) *BlockRepository {
	return &BlockRepository{db: db}
}

// Create 차단 관계 생성 (중복 차단은 무시)
func (r *BlockRepository) Create(blockerID, blockedID string) error {
	query := `
		INSERT INTO blocks (blocker_id, blocked_id)
		VALUES ($1, $2)
		ON CONFLICT (blocker_id, blocked_id) DO NOTHING
	`
	_, err := r.db.Exec(query, blockerID, blockedID)
	if err != nil {
		return fmt.Errorf("failed to create block: %w", err)
	}
	return nil
}

// Delete 차단 해제. 해제 여부 반환
func (r *BlockRepository) Delete(blockerID, blockedID string) (bool, error) {
	query := `
		DELETE FROM blocks
		WHERE blocker_id = $1 AND blocked_id = $2
	`
	result, err := r.db.Exec(query, blockerID, blockedID)
	if err != nil {
		return false, fmt.Errorf("failed to delete block: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check deleted rows: %w", err)
	}
	return affected > 0, nil
}

// IsBlockedEither 두 유저 사이에 어느 방향이든 차단이 있는지 확인
func (r *BlockRepository) IsBlockedEither(ctx context.Context, userA, userB string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM blocks
			WHERE (blocker_id = $1 AND blocked_id = $2)
			   OR (blocker_id = $2 AND blocked_id = $1)
		)
	`

	var blocked bool
	err := r.db.QueryRowContext(ctx, query, userA, userB).Scan(&blocked)
	if err != nil {
		return false, fmt.Errorf("failed to check block relationship: %w", err)
	}
	return blocked, nil
}

// ListBlocked 내가 차단한 유저 목록
func (r *BlockRepository) ListBlocked(blockerID string) ([]models.Block, error) {
	query := `
		SELECT id, blocker_id, blocked_id, created_at
		FROM blocks
		WHERE blocker_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, blockerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocks: %w", err)
	}
	defer rows.Close()

	var blocks []models.Block
	for rows.Next() {
		var b models.Block
		if err := rows.Scan(&b.ID, &b.BlockerID, &b.BlockedID, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan block: %w", err)
		}
		blocks = append(blocks, b)
	}

	return blocks, nil
}
