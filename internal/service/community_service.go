package service

import (
	"strings"

	"github.com/google/uuid"

	"github.com/mbtimate/mbtimate-backend/internal/models"
	"github.com/mbtimate/mbtimate-backend/internal/repository"
)

// CommunityService 게시글/댓글 도메인
type CommunityService struct {
	postRepo    *repository.PostRepository
	commentRepo *repository.CommentRepository
}

func NewCommunityService(postRepo *repository.PostRepository, commentRepo *repository.CommentRepository) *CommunityService {
	return &CommunityService{postRepo: postRepo, commentRepo: commentRepo}
}

// CreatePost 게시글 작성
func (s *CommunityService) CreatePost(authorID, title, content string) (*models.Post, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, ErrInvalidInput
	}
	return s.postRepo.Create(uuid.NewString(), authorID, title, content)
}

// GetPost 게시글과 댓글 목록 조회
func (s *CommunityService) GetPost(postID string) (*models.Post, []models.Comment, error) {
	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		return nil, nil, err
	}
	if post == nil {
		return nil, nil, ErrPostNotFound
	}

	comments, err := s.commentRepo.FindByPostID(postID)
	if err != nil {
		return nil, nil, err
	}
	return post, comments, nil
}

// ListPosts 게시글 목록 (최신순, 페이지네이션)
func (s *CommunityService) ListPosts(limit, offset int) ([]models.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.postRepo.List(limit, offset)
}

// DeletePost 작성자 본인만 삭제 가능
func (s *CommunityService) DeletePost(postID, userID string) error {
	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.AuthorID != userID {
		return ErrUnauthorized
	}

	if _, err := s.postRepo.Delete(postID); err != nil {
		return err
	}
	return nil
}

// CreateComment 댓글 작성
func (s *CommunityService) CreateComment(postID, authorID, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrInvalidInput
	}

	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	return s.commentRepo.Create(uuid.NewString(), postID, authorID, content)
}

// DeleteComment 작성자 본인만 삭제 가능
func (s *CommunityService) DeleteComment(commentID, userID string) error {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}
	if comment.AuthorID != userID {
		return ErrUnauthorized
	}

	if _, err := s.commentRepo.Delete(commentID); err != nil {
		return err
	}
	return nil
}
