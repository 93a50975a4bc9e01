package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradepost/internal/domain/entity"
)

func drain(t *testing.T, client *Client) [][]byte {
	t.Helper()

	var frames [][]byte
	for {
		select {
		case data := <-client.Send:
			frames = append(frames, data)
		default:
			return frames
		}
	}
}

func TestSendToUserReachesAllConnectionsOfThatUserOnly(t *testing.T) {
	registry := NewRegistry()
	broadcaster := NewBroadcaster(registry)

	receiverTab1 := NewClient("receiver", &fakeConn{})
	receiverTab2 := NewClient("receiver", &fakeConn{})
	bystander := NewClient("bystander", &fakeConn{})
	registry.Register(receiverTab1)
	registry.Register(receiverTab2)
	registry.Register(bystander)

	broadcaster.SendToUser("receiver", NewTypingEvent("conv-1", "sender", true))

	assert.Len(t, drain(t, receiverTab1), 1)
	assert.Len(t, drain(t, receiverTab2), 1)
	assert.Empty(t, drain(t, bystander))
}

func TestSendToUserWithoutConnectionsIsSilent(t *testing.T) {
	broadcaster := NewBroadcaster(NewRegistry())

	broadcaster.SendToUser("offline", NewConnectedEvent("offline"))
}

func TestSendToAll(t *testing.T) {
	registry := NewRegistry()
	broadcaster := NewBroadcaster(registry)

	a := NewClient("a", &fakeConn{})
	b := NewClient("b", &fakeConn{})
	registry.Register(a)
	registry.Register(b)

	broadcaster.SendToAll(NewPresenceEvent("a", time.Now()))

	assert.Len(t, drain(t, a), 1)
	assert.Len(t, drain(t, b), 1)
}

func TestClosedConnectionIsSkipped(t *testing.T) {
	registry := NewRegistry()
	broadcaster := NewBroadcaster(registry)

	open := NewClient("user", &fakeConn{})
	stale := NewClient("user", &fakeConn{})
	registry.Register(open)
	registry.Register(stale)
	stale.Close()

	broadcaster.SendToUser("user", NewConnectedEvent("user"))

	assert.Len(t, drain(t, open), 1)
}

func TestMessageEventWireShape(t *testing.T) {
	registry := NewRegistry()
	broadcaster := NewBroadcaster(registry)

	receiver := NewClient("buyer", &fakeConn{})
	registry.Register(receiver)

	message := &entity.Message{
		ID:             "msg-1",
		ConversationID: "conv-1",
		SenderID:       "seller",
		ReceiverID:     "buyer",
		ItemID:         "item-1",
		Content:        "still available",
		CreatedAt:      time.Now(),
	}
	broadcaster.SendToUser("buyer", NewMessageEvent(message))

	frames := drain(t, receiver)
	require.Len(t, frames, 1)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(frames[0], &decoded))

	assert.Equal(t, "message:new", decoded["type"])
	assert.Equal(t, "conv-1", decoded["conversationId"])
	assert.Equal(t, "item-1", decoded["itemId"])

	payload, ok := decoded["message"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "still available", payload["content"])
	assert.Equal(t, "seller", payload["sender_id"])
}
