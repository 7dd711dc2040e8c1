package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mbtimate/mbtimate-backend/internal/models"
	"github.com/mbtimate/mbtimate-backend/internal/service"
	"github.com/mbtimate/mbtimate-backend/pkg/logger"
)

type MatchHandler struct {
	matchService *service.MatchOrchestrator
	userService  *service.UserService
}

func NewMatchHandler(matchService *service.MatchOrchestrator, userService *service.UserService) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
		userService:  userService,
	}
}

type MatchRequest struct {
	Level int `json:"level"`
}

// RequestMatch 매칭 요청. 즉시 상대를 찾으면 matched, 없으면 대기열 등록
func (h *MatchHandler) RequestMatch(c *gin.Context) {
	var req MatchRequest

	// level 생략 시 1 (궁합 최우선 단계)
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}
	if req.Level < 1 {
		req.Level = 1
	}

	userId := c.GetString("userId")

	mbti, ok := h.requireMBTI(c, userId)
	if !ok {
		return
	}

	result, err := h.matchService.RequestMatch(c.Request.Context(), userId, mbti, req.Level)
	if err != nil {
		logger.Error("Match request failed", "userId", userId, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to process match request",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// CancelMatch 매칭 취소. 대기열 티켓과 상태를 정리한다
func (h *MatchHandler) CancelMatch(c *gin.Context) {
	userId := c.GetString("userId")

	mbti, ok := h.requireMBTI(c, userId)
	if !ok {
		return
	}

	result, err := h.matchService.CancelMatch(c.Request.Context(), userId, mbti)
	if err != nil {
		logger.Error("Match cancel failed", "userId", userId, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to cancel match",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetMatchStatus 현재 매칭 상태 조회
func (h *MatchHandler) GetMatchStatus(c *gin.Context) {
	userId := c.GetString("userId")

	state, err := h.matchService.MatchStatus(c.Request.Context(), userId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get match status",
		})
		return
	}

	if state == nil {
		c.JSON(http.StatusOK, gin.H{
			"state": nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"state": state,
	})
}

// GetQueueSize 특정 MBTI 대기열 크기 조회
func (h *MatchHandler) GetQueueSize(c *gin.Context) {
	mbti, err := models.ParseMBTI(c.Param("mbti"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid MBTI type",
		})
		return
	}

	count, err := h.matchService.WaitingCount(c.Request.Context(), mbti)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get queue size",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"mbti":      mbti,
		"waitCount": count,
	})
}

// requireMBTI 프로필에 MBTI가 설정된 사용자만 매칭을 쓸 수 있다
func (h *MatchHandler) requireMBTI(c *gin.Context, userId string) (models.MBTI, bool) {
	user, err := h.userService.GetProfile(userId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get user",
		})
		return "", false
	}

	if user.MBTI == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "MBTI must be set before matching",
		})
		return "", false
	}

	return *user.MBTI, true
}
