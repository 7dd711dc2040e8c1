package repository

import (
	"database/sql"
	"fmt"

	"github.com/mbtimate/mbtimate-backend/internal/models"
	"github.com/mbtimate/mbtimate-backend/pkg/database"
)

type PostRepository struct {
	db *database.DB
}

func NewPostRepository(db *database.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create 게시글 생성
func (r *PostRepository) Create(id, authorID, title, content string) (*models.Post, error) {
	query := `
		INSERT INTO posts (id, author_id, title, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, author_id, title, content, created_at, updated_at
	`

	post := &models.Post{}
	err := r.db.QueryRow(query, id, authorID, title, content).Scan(
		&post.ID, &post.AuthorID, &post.Title, &post.Content, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return post, nil
}

// FindByID id로 게시글 조회. 없으면 nil
func (r *PostRepository) FindByID(id string) (*models.Post, error) {
	query := `
		SELECT id, author_id, title, content, created_at, updated_at
		FROM posts
		WHERE id = $1
	`

	post := &models.Post{}
	err := r.db.QueryRow(query, id).Scan(
		&post.ID, &post.AuthorID, &post.Title, &post.Content, &post.CreatedAt, &post.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}

	return post, nil
}

// List 게시글 목록 (최신순, 페이지네이션)
func (r *PostRepository) List(limit, offset int) ([]models.Post, error) {
	query := `
		SELECT id, author_id, title, content, created_at, updated_at
		FROM posts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Content, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}

	return posts, nil
}

// Delete 게시글 삭제. 삭제 여부 반환
func (r *PostRepository) Delete(id string) (bool, error) {
	result, err := r.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete post: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check deleted rows: %w", err)
	}
	return affected > 0, nil
}
