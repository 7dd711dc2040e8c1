package repository

import (
	"fmt"

	"github.com/mbtimate/mbtimate-backend/internal/models"
	"github.com/mbtimate/mbtimate-backend/pkg/database"
)

type RatingRepository struct {
	db *database.DB
}

func NewRatingRepository(db *database.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Save 평가 저장. 같은 방에서 같은 평가자는 점수를 덮어쓴다
func (r *RatingRepository) Save(rating models.Rating) error {
	query := `
		INSERT INTO ratings (id, room_id, rater_id, rated_id, score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (room_id, rater_id)
		DO UPDATE SET score = EXCLUDED.score
	`
	_, err := r.db.Exec(query,
		rating.ID, rating.RoomID, rating.RaterID, rating.RatedID, rating.Score, rating.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save rating: %w", err)
	}
	return nil
}

// AverageScore 해당 유저가 받은 평균 점수. 평가가 없으면 0
func (r *RatingRepository) AverageScore(ratedID string) (float64, error) {
	query := `
		SELECT COALESCE(AVG(score), 0)
		FROM ratings
		WHERE rated_id = $1
	`

	var avg float64
	if err := r.db.QueryRow(query, ratedID).Scan(&avg); err != nil {
		return 0, fmt.Errorf("failed to get average score: %w", err)
	}
	return avg, nil
}
