package websocket

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/mbtimate/mbtimate-backend/internal/models"
	"github.com/mbtimate/mbtimate-backend/pkg/logger"
)

// ChatStore 채팅 도메인 포트 (메시지 저장/방 검증)
type ChatStore interface {
	GetRoom(roomID, userID string) (*models.ChatRoom, error)
	SaveMessage(roomID, senderID, content string) (*models.ChatMessage, error)
	MarkRead(roomID, userID string) error
}

// StateSetter 매칭 상태 전이 포트.
// 채팅 접속 시 CHATTING, 연결 종료 시 상태 정리에 사용한다
type StateSetter interface {
	SetChatting(ctx context.Context, userID, roomID string) error
	ClearState(ctx context.Context, userID string) error
}

// Hub WebSocket 연결 관리 및 메시지 전달
type Hub struct {
	// 사용자별 연결 저장 (userID -> *Client)
	clients map[string]*Client
	mu      sync.RWMutex

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client

	chat   ChatStore
	states StateSetter
	logger *zap.Logger
}

// Message WebSocket 메시지
type Message struct {
	UserID  string      `json:"-"` // 수신자 (빈 문자열이면 전체 브로드캐스트)
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// MatchFoundPayload 매칭 성사 알림
type MatchFoundPayload struct {
	RoomID  string              `json:"roomId"`
	Partner models.MatchPartner `json:"partner"`
}

// ChatMessagePayload 채팅 메시지 전달
type ChatMessagePayload struct {
	MessageID string `json:"messageId"`
	RoomID    string `json:"roomId"`
	SenderID  string `json:"senderId"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// ErrorPayload 클라이언트 요청 처리 실패 알림
type ErrorPayload struct {
	Message string `json:"message"`
}

// NewHub Hub 생성
func NewHub(chat ChatStore, states StateSetter) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		chat:       chat,
		states:     states,
		logger:     logger.L(),
	}
}

// Run Hub 실행
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// registerClient 클라이언트 등록
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// 기존 연결이 있으면 닫기
	if oldClient, exists := h.clients[client.userID]; exists {
		close(oldClient.send)
		h.logger.Info("Replaced existing WebSocket connection",
			zap.String("userId", client.userID))
	}

	h.clients[client.userID] = client
	h.logger.Info("WebSocket client registered",
		zap.String("userId", client.userID),
		zap.Int("totalClients", len(h.clients)))
}

// unregisterClient 클라이언트 해제. 채팅 중이던 유저는 상태를 정리한다.
// 재접속으로 교체된 옛 연결의 해제 요청은 현재 등록된 클라이언트와
// 동일할 때만 처리한다. 그렇지 않으면 새 연결을 끊고 이미 닫힌
// 채널을 다시 닫게 된다
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	current, exists := h.clients[client.userID]
	if !exists || current != client {
		return
	}

	delete(h.clients, client.userID)
	close(client.send)
	h.logger.Info("WebSocket client unregistered",
		zap.String("userId", client.userID),
		zap.Int("totalClients", len(h.clients)))

	if client.roomID != "" {
		if err := h.states.ClearState(context.Background(), client.userID); err != nil {
			h.logger.Error("Failed to clear match state on disconnect",
				zap.String("userId", client.userID), zap.Error(err))
		}
	}
}

// broadcastMessage 메시지 전달
func (h *Hub) broadcastMessage(message *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if message.UserID == "" {
		for _, client := range h.clients {
			select {
			case client.send <- message:
			default:
				// 채널이 가득 찬 경우 연결 해제
				h.logger.Warn("Client send channel full, unregistering",
					zap.String("userId", client.userID))
				go func(c *Client) {
					h.unregister <- c
				}(client)
			}
		}
	} else {
		if client, exists := h.clients[message.UserID]; exists {
			select {
			case client.send <- message:
			default:
				h.logger.Warn("Client send channel full",
					zap.String("userId", message.UserID))
			}
		}
	}
}

// SendToUser 특정 사용자에게 메시지 전송
func (h *Hub) SendToUser(userID string, msgType string, payload interface{}) {
	h.broadcast <- &Message{
		UserID:  userID,
		Type:    msgType,
		Payload: payload,
	}
}

// Broadcast 모든 사용자에게 메시지 전송
func (h *Hub) Broadcast(msgType string, payload interface{}) {
	h.broadcast <- &Message{
		UserID:  "",
		Type:    msgType,
		Payload: payload,
	}
}

// NotifyMatch 대기 중이던 유저에게 매칭 성사 알림 (MatchNotifier 구현)
func (h *Hub) NotifyMatch(userID, roomID string, partner models.MatchPartner) {
	h.SendToUser(userID, "match_found", MatchFoundPayload{
		RoomID:  roomID,
		Partner: partner,
	})
}

// IsConnected 해당 유저의 연결 존재 여부
func (h *Hub) IsConnected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, exists := h.clients[userID]
	return exists
}
