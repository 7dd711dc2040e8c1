package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mbtimate/mbtimate-backend/pkg/logger"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: 프로덕션에서는 특정 origin만 허용
		return true
	},
}

// inboundMessage 클라이언트가 보내는 요청
type inboundMessage struct {
	Type    string `json:"type"`
	RoomID  string `json:"roomId"`
	Content string `json:"content"`
}

// Client WebSocket 클라이언트
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan *Message
	userID string
	roomID string // join_room 후 현재 입장한 채팅방
	logger *zap.Logger
}

// NewClient 클라이언트 생성
func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan *Message, 256),
		userID: userID,
		logger: logger.L(),
	}
}

// readPump 클라이언트 요청 읽기 (핑/퐁 유지)
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket read error",
					zap.String("userId", c.userID),
					zap.Error(err))
			}
			break
		}

		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError("invalid message format")
			continue
		}
		c.handleMessage(msg)
	}
}

// handleMessage 요청 타입별 처리
func (c *Client) handleMessage(msg inboundMessage) {
	switch msg.Type {
	case "join_room":
		c.handleJoinRoom(msg.RoomID)
	case "chat_message":
		c.handleChatMessage(msg.RoomID, msg.Content)
	case "read":
		c.handleRead(msg.RoomID)
	default:
		c.sendError("unknown message type")
	}
}

// handleJoinRoom 채팅방 입장. 참여자 검증 후 CHATTING 상태로 전이
func (c *Client) handleJoinRoom(roomID string) {
	if _, err := c.hub.chat.GetRoom(roomID, c.userID); err != nil {
		c.sendError("cannot join room")
		return
	}

	if err := c.hub.states.SetChatting(context.Background(), c.userID, roomID); err != nil {
		c.logger.Error("Failed to set chatting state",
			zap.String("userId", c.userID), zap.Error(err))
	}
	c.roomID = roomID

	select {
	case c.send <- &Message{Type: "room_joined", Payload: map[string]string{"roomId": roomID}}:
	default:
	}
}

// handleChatMessage 메시지 저장 후 방 양쪽 참여자에게 전달
func (c *Client) handleChatMessage(roomID, content string) {
	if content == "" {
		c.sendError("empty message")
		return
	}

	room, err := c.hub.chat.GetRoom(roomID, c.userID)
	if err != nil {
		c.sendError("cannot send to room")
		return
	}

	saved, err := c.hub.chat.SaveMessage(roomID, c.userID, content)
	if err != nil {
		c.logger.Error("Failed to save chat message",
			zap.String("roomId", roomID), zap.Error(err))
		c.sendError("failed to save message")
		return
	}

	payload := ChatMessagePayload{
		MessageID: saved.ID,
		RoomID:    saved.RoomID,
		SenderID:  saved.SenderID,
		Content:   saved.Content,
		Timestamp: saved.CreatedAt.Format(time.RFC3339),
	}
	c.hub.SendToUser(c.userID, "chat_message", payload)
	c.hub.SendToUser(room.PartnerOf(c.userID), "chat_message", payload)
}

// handleRead 읽음 처리
func (c *Client) handleRead(roomID string) {
	if err := c.hub.chat.MarkRead(roomID, c.userID); err != nil {
		c.sendError("failed to mark as read")
	}
}

func (c *Client) sendError(message string) {
	select {
	case c.send <- &Message{Type: "error", Payload: ErrorPayload{Message: message}}:
	default:
	}
}

// writePump Hub로부터 메시지를 받아 클라이언트에게 전송
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub가 채널을 닫음
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(message)
			if err != nil {
				c.logger.Error("Failed to marshal message",
					zap.String("userId", c.userID),
					zap.Error(err))
				continue
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Error("Failed to write message",
					zap.String("userId", c.userID),
					zap.Error(err))
				return
			}

		case <-ticker.C:
			// Ping 전송
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs WebSocket 연결 업그레이드 및 클라이언트 시작
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request, userID string) {
	serveWs(hub, w, r, userID, "")
}

// ServeWsRoom 특정 채팅방에 곧바로 입장하는 WebSocket 연결
func ServeWsRoom(hub *Hub, w http.ResponseWriter, r *http.Request, userID, roomID string) {
	serveWs(hub, w, r, userID, roomID)
}

func serveWs(hub *Hub, w http.ResponseWriter, r *http.Request, userID, roomID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Failed to upgrade WebSocket connection", "error", err)
		return
	}

	client := NewClient(hub, conn, userID)
	client.hub.register <- client

	go client.writePump()

	// 방 지정 연결은 readPump 시작 전에 입장 처리
	if roomID != "" {
		client.handleJoinRoom(roomID)
	}

	go client.readPump()
}
