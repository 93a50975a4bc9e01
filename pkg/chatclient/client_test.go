package chatclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliverIsExactlyOncePerMessageID(t *testing.T) {
	var got []string
	c := New("http://example.test", "tok", Handlers{
		OnMessage: func(m Message) { got = append(got, m.ID) },
	}, nil)

	c.deliver(Message{ID: "m1", Content: "hello"})
	c.deliver(Message{ID: "m1", Content: "hello"})
	c.deliver(Message{ID: "m2", Content: "again"})

	assert.Equal(t, []string{"m1", "m2"}, got)
}

func TestTypingDecaysWithoutRefresh(t *testing.T) {
	var mu sync.Mutex
	var states []bool
	c := New("http://example.test", "tok", Handlers{
		OnTyping: func(conversationID, userID string, isTyping bool) {
			mu.Lock()
			states = append(states, isTyping)
			mu.Unlock()
		},
	}, nil)

	c.handleTyping("conv-1", "user-1", true)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(states) == 2
	}, 5*time.Second, 50*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{true, false}, states)
}

func TestExplicitStopCancelsDecay(t *testing.T) {
	var mu sync.Mutex
	var states []bool
	c := New("http://example.test", "tok", Handlers{
		OnTyping: func(conversationID, userID string, isTyping bool) {
			mu.Lock()
			states = append(states, isTyping)
			mu.Unlock()
		},
	}, nil)

	c.handleTyping("conv-1", "user-1", true)
	c.handleTyping("conv-1", "user-1", false)

	time.Sleep(typingDecay + 500*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{true, false}, states)
}

func envelopeJSON(t *testing.T, data interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	body, err := json.Marshal(map[string]interface{}{
		"success": true,
		"data":    json.RawMessage(raw),
	})
	require.NoError(t, err)
	return body
}

func TestPollMessagesDeduplicatesAgainstPush(t *testing.T) {
	message := Message{ID: "m1", ConversationID: "conv-1", Content: "hello", CreatedAt: time.Now()}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.Equal(t, "/v1/conversations/conv-1/messages", r.URL.Path)
		w.Write(envelopeJSON(t, []Message{message}))
	}))
	defer server.Close()

	var mu sync.Mutex
	var got []string
	c := New(server.URL, "tok", Handlers{
		OnMessage: func(m Message) {
			mu.Lock()
			got = append(got, m.ID)
			mu.Unlock()
		},
	}, nil)
	c.SetActiveConversation("conv-1")

	ctx := context.Background()

	// Push arrives first, then two polls see the same message.
	c.dispatch([]byte(`{"type":"message:new","message":{"id":"m1","conversation_id":"conv-1","content":"hello"}}`))
	c.pollMessages(ctx)
	c.pollMessages(ctx)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"m1"}, got)
}

func TestPollUnread(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/messages/unread-count", r.URL.Path)
		w.Write(envelopeJSON(t, map[string]int64{"unread_count": 7}))
	}))
	defer server.Close()

	var got int64
	c := New(server.URL, "tok", Handlers{
		OnUnread: func(count int64) { got = count },
	}, nil)

	c.pollUnread(context.Background())

	assert.Equal(t, int64(7), got)
}

func TestPollConversations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/conversations", r.URL.Path)
		w.Write(envelopeJSON(t, []Conversation{{ID: "conv-1", ItemID: "item-1"}}))
	}))
	defer server.Close()

	var got []Conversation
	c := New(server.URL, "tok", Handlers{
		OnConversations: func(conversations []Conversation) { got = conversations },
	}, nil)

	c.pollConversations(context.Background())

	require.Len(t, got, 1)
	assert.Equal(t, "conv-1", got[0].ID)
}

func TestRunReceivesPushedMessages(t *testing.T) {
	upgrader := websocket.Upgrader{}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "tok", r.URL.Query().Get("token"))

		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		frame := `{"type":"message:new","message":{"id":"pushed","conversation_id":"conv-1","content":"live"}}`
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))

		// Hold the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write(envelopeJSON(t, []Conversation{}))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	received := make(chan Message, 1)
	c := New(server.URL, "tok", Handlers{
		OnMessage: func(m Message) { received <- m },
	}, &Options{
		ConversationPoll: time.Hour,
		MessagePoll:      time.Hour,
		UnreadPoll:       time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	select {
	case m := <-received:
		assert.Equal(t, "pushed", m.ID)
	case <-time.After(5 * time.Second):
		t.Fatal("no message received over the live channel")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("client did not stop after cancel")
	}
}
