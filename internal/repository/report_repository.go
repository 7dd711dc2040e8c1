package repository

import (
	"fmt"

	"github.com/mbtimate/mbtimate-backend/internal/models"
	"github.com/mbtimate/mbtimate-backend/pkg/database"
)

type ReportRepository struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Save 신고 저장
func (r *ReportRepository) Save(report models.Report) error {
	query := `
		INSERT INTO reports (id, room_id, reporter_id, reported_id, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(query,
		report.ID, report.RoomID, report.ReporterID, report.ReportedID, report.Reason, report.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// ExistsByRoomAndReporter 같은 방에서 같은 유저가 이미 신고했는지 확인
func (r *ReportRepository) ExistsByRoomAndReporter(roomID, reporterID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM reports WHERE room_id = $1 AND reporter_id = $2
		)
	`

	var exists bool
	if err := r.db.QueryRow(query, roomID, reporterID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check report existence: %w", err)
	}
	return exists, nil
}
