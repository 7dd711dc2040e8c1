package websocket

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbtimate/mbtimate-backend/internal/models"
)

type stubChatStore struct{}

func (stubChatStore) GetRoom(roomID, userID string) (*models.ChatRoom, error) {
	return &models.ChatRoom{ID: roomID, User1ID: userID}, nil
}

func (stubChatStore) SaveMessage(roomID, senderID, content string) (*models.ChatMessage, error) {
	return &models.ChatMessage{RoomID: roomID, SenderID: senderID, Content: content}, nil
}

func (stubChatStore) MarkRead(roomID, userID string) error { return nil }

type recordingStateSetter struct {
	cleared []string
}

func (r *recordingStateSetter) SetChatting(_ context.Context, userID, roomID string) error {
	return nil
}

func (r *recordingStateSetter) ClearState(_ context.Context, userID string) error {
	r.cleared = append(r.cleared, userID)
	return nil
}

func newTestClient(hub *Hub, userID string) *Client {
	return NewClient(hub, nil, userID)
}

func TestHub_RegisterReplacesExistingConnection(t *testing.T) {
	states := &recordingStateSetter{}
	hub := NewHub(stubChatStore{}, states)

	first := newTestClient(hub, "u1")
	second := newTestClient(hub, "u1")

	hub.registerClient(first)
	hub.registerClient(second)

	// 교체 후에도 접속 상태이고, 살아 있는 쪽은 새 클라이언트다
	assert.True(t, hub.IsConnected("u1"))
	hub.mu.RLock()
	assert.Same(t, second, hub.clients["u1"])
	hub.mu.RUnlock()

	// 옛 연결의 send는 닫혀 writePump가 종료된다
	_, open := <-first.send
	assert.False(t, open)
}

func TestHub_StaleUnregisterDoesNotDropNewConnection(t *testing.T) {
	states := &recordingStateSetter{}
	hub := NewHub(stubChatStore{}, states)

	first := newTestClient(hub, "u1")
	first.roomID = "room-1"
	second := newTestClient(hub, "u1")

	hub.registerClient(first)
	hub.registerClient(second)

	// 옛 연결의 readPump 종료가 뒤늦게 해제를 요청해도
	// 새 연결은 그대로 남아야 하고, 닫힌 채널을 다시 닫으면 안 된다
	require.NotPanics(t, func() {
		hub.unregisterClient(first)
	})

	assert.True(t, hub.IsConnected("u1"))
	hub.mu.RLock()
	assert.Same(t, second, hub.clients["u1"])
	hub.mu.RUnlock()

	// 채팅 중 상태도 옛 연결 때문에 지워지면 안 된다
	assert.Empty(t, states.cleared)

	// 새 연결은 여전히 메시지를 받을 수 있다
	hub.broadcastMessage(&Message{UserID: "u1", Type: "match_found"})
	select {
	case msg := <-second.send:
		assert.Equal(t, "match_found", msg.Type)
	default:
		t.Fatal("expected message on the live connection")
	}
}

func TestHub_UnregisterClearsChattingState(t *testing.T) {
	states := &recordingStateSetter{}
	hub := NewHub(stubChatStore{}, states)

	client := newTestClient(hub, "u1")
	client.roomID = "room-1"

	hub.registerClient(client)
	hub.unregisterClient(client)

	assert.False(t, hub.IsConnected("u1"))
	assert.Equal(t, []string{"u1"}, states.cleared)
}
