package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mbtimate/mbtimate-backend/internal/service"
)

type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// ListRooms 내 채팅방 목록 (마지막 메시지와 안 읽은 수 포함)
func (h *ChatHandler) ListRooms(c *gin.Context) {
	userId := c.GetString("userId")

	previews, err := h.chatService.RoomPreviews(userId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list chat rooms",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rooms": previews,
		"total": len(previews),
	})
}

// GetRoom 채팅방 상세 조회
func (h *ChatHandler) GetRoom(c *gin.Context) {
	userId := c.GetString("userId")
	roomId := c.Param("roomId")

	room, err := h.chatService.GetRoom(roomId, userId)
	if err != nil {
		h.writeRoomError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"room": room,
	})
}

// GetHistory 채팅방 메시지 내역 조회
func (h *ChatHandler) GetHistory(c *gin.Context) {
	userId := c.GetString("userId")
	roomId := c.Param("roomId")

	messages, err := h.chatService.History(roomId, userId)
	if err != nil {
		h.writeRoomError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"total":    len(messages),
	})
}

// MarkRead 읽음 처리
func (h *ChatHandler) MarkRead(c *gin.Context) {
	userId := c.GetString("userId")
	roomId := c.Param("roomId")

	if err := h.chatService.MarkRead(roomId, userId); err != nil {
		h.writeRoomError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Marked as read",
	})
}

// LeaveRoom 채팅방 나가기
func (h *ChatHandler) LeaveRoom(c *gin.Context) {
	userId := c.GetString("userId")
	roomId := c.Param("roomId")

	if err := h.chatService.LeaveRoom(roomId, userId); err != nil {
		h.writeRoomError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Left the room",
	})
}

type ReportRequest struct {
	Reason string `json:"reason" binding:"required,min=5,max=500"`
}

// ReportPartner 상대방 신고
func (h *ChatHandler) ReportPartner(c *gin.Context) {
	var req ReportRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	userId := c.GetString("userId")
	roomId := c.Param("roomId")

	report, err := h.chatService.Report(roomId, userId, req.Reason)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyReported) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Already reported this room",
			})
			return
		}
		h.writeRoomError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"report": report,
	})
}

type RatingRequest struct {
	Score int `json:"score" binding:"required,min=1,max=5"`
}

// RatePartner 상대방 매너 평가 (1~5점)
func (h *ChatHandler) RatePartner(c *gin.Context) {
	var req RatingRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	userId := c.GetString("userId")
	roomId := c.Param("roomId")

	rating, err := h.chatService.Rate(roomId, userId, req.Score)
	if err != nil {
		if errors.Is(err, service.ErrInvalidScore) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Score must be between 1 and 5",
			})
			return
		}
		h.writeRoomError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"rating": rating,
	})
}

// GetUserRating 사용자의 평균 매너 점수 조회
func (h *ChatHandler) GetUserRating(c *gin.Context) {
	targetId := c.Param("userId")

	average, err := h.chatService.AverageRating(targetId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get rating",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":  targetId,
		"average": average,
	})
}

func (h *ChatHandler) writeRoomError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Room not found",
		})
	case errors.Is(err, service.ErrNotRoomMember):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Not a member of this room",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to process chat request",
		})
	}
}
