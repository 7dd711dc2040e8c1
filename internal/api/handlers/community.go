package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mbtimate/mbtimate-backend/internal/service"
)

type CommunityHandler struct {
	communityService *service.CommunityService
}

func NewCommunityHandler(communityService *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{
		communityService: communityService,
	}
}

type CreatePostRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=200"`
	Content string `json:"content" binding:"required,min=1"`
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=1000"`
}

// CreatePost 게시글 작성
func (h *CommunityHandler) CreatePost(c *gin.Context) {
	var req CreatePostRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	userId := c.GetString("userId")

	post, err := h.communityService.CreatePost(userId, req.Title, req.Content)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Title and content are required",
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create post",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"post": post,
	})
}

// ListPosts 게시글 목록 (최신순, 페이지네이션)
func (h *CommunityHandler) ListPosts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	posts, err := h.communityService.ListPosts(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list posts",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": posts,
		"total": len(posts),
	})
}

// GetPost 게시글 상세 조회 (댓글 포함)
func (h *CommunityHandler) GetPost(c *gin.Context) {
	postId := c.Param("postId")

	post, comments, err := h.communityService.GetPost(postId)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Post not found",
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get post",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post":     post,
		"comments": comments,
	})
}

// DeletePost 게시글 삭제 (작성자만)
func (h *CommunityHandler) DeletePost(c *gin.Context) {
	userId := c.GetString("userId")
	postId := c.Param("postId")

	if err := h.communityService.DeletePost(postId, userId); err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Post not found",
			})
		case errors.Is(err, service.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Only the author can delete this post",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to delete post",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Post deleted",
	})
}

// CreateComment 댓글 작성
func (h *CommunityHandler) CreateComment(c *gin.Context) {
	var req CreateCommentRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	userId := c.GetString("userId")
	postId := c.Param("postId")

	comment, err := h.communityService.CreateComment(postId, userId, req.Content)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Post not found",
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create comment",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"comment": comment,
	})
}

// DeleteComment 댓글 삭제 (작성자만)
func (h *CommunityHandler) DeleteComment(c *gin.Context) {
	userId := c.GetString("userId")
	commentId := c.Param("commentId")

	if err := h.communityService.DeleteComment(commentId, userId); err != nil {
		switch {
		case errors.Is(err, service.ErrCommentNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Comment not found",
			})
		case errors.Is(err, service.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Only the author can delete this comment",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to delete comment",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment deleted",
	})
}
