package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mbtimate/mbtimate-backend/internal/models"
	"github.com/mbtimate/mbtimate-backend/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetCurrentUser 현재 사용자 정보 조회
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userId, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	user, err := h.userService.GetProfile(userId.(string))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get user",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// UpdateCurrentUser 현재 사용자 정보 수정 (닉네임/MBTI/성별)
func (h *UserHandler) UpdateCurrentUser(c *gin.Context) {
	var req models.UpdateUserRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	userId := c.GetString("userId")

	user, err := h.userService.UpdateProfile(userId, req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid MBTI or gender value",
			})
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update user",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// BlockUser 다른 사용자 차단. 차단된 유저는 매칭 탐색에서 제외된다
func (h *UserHandler) BlockUser(c *gin.Context) {
	userId := c.GetString("userId")
	targetId := c.Param("userId")

	if err := h.userService.BlockUser(userId, targetId); err != nil {
		switch {
		case errors.Is(err, service.ErrSelfBlock):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Cannot block yourself",
			})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to block user",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User blocked",
	})
}

// UnblockUser 차단 해제
func (h *UserHandler) UnblockUser(c *gin.Context) {
	userId := c.GetString("userId")
	targetId := c.Param("userId")

	if err := h.userService.UnblockUser(userId, targetId); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Block not found",
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to unblock user",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User unblocked",
	})
}

// ListBlockedUsers 내가 차단한 사용자 목록
func (h *UserHandler) ListBlockedUsers(c *gin.Context) {
	userId := c.GetString("userId")

	blocks, err := h.userService.BlockedUsers(userId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list blocked users",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"blocks": blocks,
		"total":  len(blocks),
	})
}
