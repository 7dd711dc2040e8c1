package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mbtimate/mbtimate-backend/internal/service"
	"github.com/mbtimate/mbtimate-backend/pkg/logger"
)

type ConsultHandler struct {
	consultService *service.ConsultService
}

func NewConsultHandler(consultService *service.ConsultService) *ConsultHandler {
	return &ConsultHandler{
		consultService: consultService,
	}
}

type StartConsultRequest struct {
	Topic string `json:"topic" binding:"required,min=1,max=100"`
}

type ConsultMessageRequest struct {
	Content string `json:"content" binding:"required,min=1,max=2000"`
}

// StartSession 새 연애 상담 세션 시작
func (h *ConsultHandler) StartSession(c *gin.Context) {
	var req StartConsultRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	userId := c.GetString("userId")

	session, greeting, err := h.consultService.StartSession(c.Request.Context(), userId, req.Topic)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
			return
		}

		logger.Error("Failed to start consult session", "userId", userId, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to start session",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session":  session,
		"greeting": greeting,
	})
}

// SendMessage 상담 메시지 전송, AI 답변 반환
func (h *ConsultHandler) SendMessage(c *gin.Context) {
	var req ConsultMessageRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	userId := c.GetString("userId")
	sessionId := c.Param("sessionId")

	reply, err := h.consultService.SendMessage(c.Request.Context(), sessionId, userId, req.Content)
	if err != nil {
		if errors.Is(err, service.ErrConsultNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Consult session not found",
			})
			return
		}

		logger.Error("Failed to send consult message", "sessionId", sessionId, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to get counselor reply",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reply": reply,
	})
}

// GetHistory 상담 대화 내역 조회
func (h *ConsultHandler) GetHistory(c *gin.Context) {
	userId := c.GetString("userId")
	sessionId := c.Param("sessionId")

	messages, err := h.consultService.History(sessionId, userId)
	if err != nil {
		if errors.Is(err, service.ErrConsultNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Consult session not found",
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get history",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"total":    len(messages),
	})
}
