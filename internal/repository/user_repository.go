package repository

import (
	"database/sql"
	"fmt"

	"github.com/mbtimate/mbtimate-backend/internal/models"
	"github.com/mbtimate/mbtimate-backend/pkg/database"
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 새 사용자 생성
func (r *UserRepository) Create(nickname, email, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (nickname, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, nickname, email, mbti, gender, created_at, updated_at
	`

	user := &models.User{}
	err := r.db.QueryRow(query, nickname, email, passwordHash).Scan(
		&user.ID,
		&user.Nickname,
		&user.Email,
		&user.MBTI,
		&user.Gender,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// FindByEmail 이메일로 사용자 찾기
func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	query := `
		SELECT id, nickname, email, password_hash, mbti, gender, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	user := &models.User{}
	err := r.db.QueryRow(query, email).Scan(
		&user.ID,
		&user.Nickname,
		&user.Email,
		&user.PasswordHash,
		&user.MBTI,
		&user.Gender,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil // 사용자 없음
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// FindByID ID로 사용자 찾기
func (r *UserRepository) FindByID(id string) (*models.User, error) {
	query := `
		SELECT id, nickname, email, password_hash, mbti, gender, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	user := &models.User{}
	err := r.db.QueryRow(query, id).Scan(
		&user.ID,
		&user.Nickname,
		&user.Email,
		&user.PasswordHash,
		&user.MBTI,
		&user.Gender,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// UpdateProfile 닉네임/MBTI/성별 수정
func (r *UserRepository) UpdateProfile(id, nickname string, mbti *models.MBTI, gender *models.Gender) (*models.User, error) {
	query := `
		UPDATE users
		SET nickname = COALESCE(NULLIF($2, ''), nickname),
		    mbti = COALESCE($3, mbti),
		    gender = COALESCE($4, gender),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING id, nickname, email, mbti, gender, created_at, updated_at
	`

	user := &models.User{}
	err := r.db.QueryRow(query, id, nickname, mbti, gender).Scan(
		&user.ID,
		&user.Nickname,
		&user.Email,
		&user.MBTI,
		&user.Gender,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

// UpdateMBTI MBTI만 갱신 (테스트 완료 시 호출)
func (r *UserRepository) UpdateMBTI(id string, mbti models.MBTI) error {
	query := `
		UPDATE users
		SET mbti = $2, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.db.Exec(query, id, mbti)
	if err != nil {
		return fmt.Errorf("failed to update mbti: %w", err)
	}
	return nil
}
