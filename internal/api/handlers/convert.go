package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mbtimate/mbtimate-backend/internal/models"
	"github.com/mbtimate/mbtimate-backend/internal/service"
	"github.com/mbtimate/mbtimate-backend/pkg/logger"
)

type ConvertHandler struct {
	convertService *service.ConvertService
	userService    *service.UserService
}

func NewConvertHandler(convertService *service.ConvertService, userService *service.UserService) *ConvertHandler {
	return &ConvertHandler{
		convertService: convertService,
		userService:    userService,
	}
}

type ConvertRequest struct {
	Message      string `json:"message" binding:"required,min=1,max=1000"`
	ReceiverMBTI string `json:"receiverMbti" binding:"required,len=4"`
}

// ConvertTone 메시지를 상대 MBTI에 맞춘 세 가지 어조로 변환
func (h *ConvertHandler) ConvertTone(c *gin.Context) {
	var req ConvertRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	receiverMBTI, err := models.ParseMBTI(req.ReceiverMBTI)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid receiver MBTI type",
		})
		return
	}

	userId := c.GetString("userId")

	user, err := h.userService.GetProfile(userId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get user",
		})
		return
	}
	if user.MBTI == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "MBTI must be set before converting messages",
		})
		return
	}

	messages, err := h.convertService.Convert(c.Request.Context(), req.Message, *user.MBTI, receiverMBTI)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Message must not be empty",
			})
			return
		}

		logger.Error("Tone conversion failed", "userId", userId, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to convert message",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
	})
}
