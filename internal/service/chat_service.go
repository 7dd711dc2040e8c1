package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mbtimate/mbtimate-backend/internal/models"
	"github.com/mbtimate/mbtimate-backend/internal/repository"
	"github.com/mbtimate/mbtimate-backend/pkg/logger"
)

// ChatService 1:1 채팅방 도메인.
// 매칭 Orchestrator의 ChatRoomPort 구현체이기도 하다
type ChatService struct {
	roomRepo    *repository.ChatRoomRepository
	messageRepo *repository.ChatMessageRepository
	reportRepo  *repository.ReportRepository
	ratingRepo  *repository.RatingRepository
}

func NewChatService(
	roomRepo *repository.ChatRoomRepository,
	messageRepo *repository.ChatMessageRepository,
	reportRepo *repository.ReportRepository,
	ratingRepo *repository.RatingRepository,
) *ChatService {
	return &ChatService{
		roomRepo:    roomRepo,
		messageRepo: messageRepo,
		reportRepo:  reportRepo,
		ratingRepo:  ratingRepo,
	}
}

// CreateRoom 매칭 성사 페이로드로 채팅방 생성 (ChatRoomPort)
func (s *ChatService) CreateRoom(_ context.Context, room models.RoomCreation) error {
	if len(room.Users) < 2 {
		return fmt.Errorf("chat room requires two users, got %d", len(room.Users))
	}

	if err := s.roomRepo.Create(room.RoomID, room.Users[0].UserID, room.Users[1].UserID, room.Timestamp); err != nil {
		return err
	}

	logger.Info("Chat room created",
		"roomId", room.RoomID, "user1", room.Users[0].UserID, "user2", room.Users[1].UserID)
	return nil
}

// ArePartners 두 유저가 이미 active 채팅방을 공유하는지 확인 (ChatRoomPort)
func (s *ChatService) ArePartners(_ context.Context, userID, otherID string) (bool, error) {
	room, err := s.roomRepo.FindActiveByUsers(userID, otherID)
	if err != nil {
		return false, err
	}
	return room != nil, nil
}

// GetRoom 참여자 검증을 거쳐 채팅방 조회
func (s *ChatService) GetRoom(roomID, userID string) (*models.ChatRoom, error) {
	room, err := s.roomRepo.FindByID(roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	if !room.HasMember(userID) {
		return nil, ErrNotRoomMember
	}
	return room, nil
}

// History 채팅방 메시지 전체 조회 (오래된 순)
func (s *ChatService) History(roomID, userID string) ([]models.ChatMessage, error) {
	if _, err := s.GetRoom(roomID, userID); err != nil {
		return nil, err
	}
	return s.messageRepo.FindByRoomID(roomID)
}

// RoomPreviews 유저의 채팅방 목록 요약 (최신 메시지 + 안 읽은 수)
func (s *ChatService) RoomPreviews(userID string) ([]models.ChatRoomPreview, error) {
	rooms, err := s.roomRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	previews := make([]models.ChatRoomPreview, 0, len(rooms))
	for _, room := range rooms {
		latest, err := s.messageRepo.LatestByRoomID(room.ID)
		if err != nil {
			return nil, err
		}
		unread, err := s.messageRepo.CountUnread(room.ID, userID, room.LastReadAt(userID))
		if err != nil {
			return nil, err
		}

		previews = append(previews, models.ChatRoomPreview{
			ID:            room.ID,
			User1ID:       room.User1ID,
			User2ID:       room.User2ID,
			CreatedAt:     room.CreatedAt,
			LatestMessage: latest,
			UnreadCount:   unread,
		})
	}

	return previews, nil
}

// MarkRead 해당 유저의 읽음 시각 갱신
func (s *ChatService) MarkRead(roomID, userID string) error {
	if _, err := s.GetRoom(roomID, userID); err != nil {
		return err
	}
	return s.roomRepo.MarkRead(roomID, userID, time.Now())
}

// SaveMessage 메시지 저장. 참여자가 아니면 ErrNotRoomMember
func (s *ChatService) SaveMessage(roomID, senderID, content string) (*models.ChatMessage, error) {
	if _, err := s.GetRoom(roomID, senderID); err != nil {
		return nil, err
	}

	message := models.ChatMessage{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.messageRepo.Save(message); err != nil {
		return nil, err
	}
	return &message, nil
}

// LeaveRoom 채팅방 나가기. 상대가 이미 나간 방이면 closed로 전이
func (s *ChatService) LeaveRoom(roomID, userID string) error {
	room, err := s.GetRoom(roomID, userID)
	if err != nil {
		return err
	}
	return s.roomRepo.UpdateStatus(roomID, room.LeftStatusFor(userID))
}

// Report 채팅 상대 신고. 같은 방에서 중복 신고는 거부
func (s *ChatService) Report(roomID, reporterID, reason string) (*models.Report, error) {
	room, err := s.GetRoom(roomID, reporterID)
	if err != nil {
		return nil, err
	}

	exists, err := s.reportRepo.ExistsByRoomAndReporter(roomID, reporterID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReported
	}

	report := models.Report{
		ID:         uuid.NewString(),
		RoomID:     roomID,
		ReporterID: reporterID,
		ReportedID: room.PartnerOf(reporterID),
		Reason:     reason,
		CreatedAt:  time.Now(),
	}
	if err := s.reportRepo.Save(report); err != nil {
		return nil, err
	}

	logger.Info("User reported", "roomId", roomID, "reporterId", reporterID)
	return &report, nil
}

// Rate 채팅 상대 평가 (1~5점). 같은 방에 다시 평가하면 점수를 덮어쓴다
func (s *ChatService) Rate(roomID, raterID string, score int) (*models.Rating, error) {
	if score < 1 || score > 5 {
		return nil, ErrInvalidScore
	}

	room, err := s.GetRoom(roomID, raterID)
	if err != nil {
		return nil, err
	}

	rating := models.Rating{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		RaterID:   raterID,
		RatedID:   room.PartnerOf(raterID),
		Score:     score,
		CreatedAt: time.Now(),
	}
	if err := s.ratingRepo.Save(rating); err != nil {
		return nil, err
	}
	return &rating, nil
}

// AverageRating 유저가 받은 평균 평점
func (s *ChatService) AverageRating(userID string) (float64, error) {
	return s.ratingRepo.AverageScore(userID)
}
