package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mbtimate/mbtimate-backend/internal/service"
)

type MBTITestHandler struct {
	testService *service.MBTITestService
}

func NewMBTITestHandler(testService *service.MBTITestService) *MBTITestHandler {
	return &MBTITestHandler{
		testService: testService,
	}
}

type TestAnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// StartTest 대화형 MBTI 테스트 시작
func (h *MBTITestHandler) StartTest(c *gin.Context) {
	userId := c.GetString("userId")

	progress, err := h.testService.Start(userId)
	if err != nil {
		if errors.Is(err, service.ErrTestInProgress) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "A test is already in progress",
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to start test",
		})
		return
	}

	c.JSON(http.StatusCreated, progress)
}

// SubmitAnswer 서술형 답변 제출. 마지막 답변이면 결과가 함께 반환된다
func (h *MBTITestHandler) SubmitAnswer(c *gin.Context) {
	var req TestAnswerRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	userId := c.GetString("userId")
	sessionId := c.Param("sessionId")

	progress, err := h.testService.Answer(sessionId, userId, req.Answer)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyAnswer):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Answer must not be empty",
			})
		case errors.Is(err, service.ErrTestNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Test session not found",
			})
		case errors.Is(err, service.ErrTestAlreadyDone):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Test already completed",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to submit answer",
			})
		}
		return
	}

	c.JSON(http.StatusOK, progress)
}

// ResumeTest 진행 중인 테스트 이어하기. 없으면 null
func (h *MBTITestHandler) ResumeTest(c *gin.Context) {
	userId := c.GetString("userId")

	progress, err := h.testService.Resume(userId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to resume test",
		})
		return
	}

	if progress == nil {
		c.JSON(http.StatusOK, gin.H{
			"progress": nil,
		})
		return
	}

	c.JSON(http.StatusOK, progress)
}

// AbandonTest 진행 중인 테스트 포기
func (h *MBTITestHandler) AbandonTest(c *gin.Context) {
	userId := c.GetString("userId")

	if err := h.testService.Abandon(userId); err != nil {
		if errors.Is(err, service.ErrTestNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "No test in progress",
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to abandon test",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Test abandoned",
	})
}
