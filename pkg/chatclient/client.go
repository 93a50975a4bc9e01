// Package chatclient is a Go client for the messaging API. It keeps a
// WebSocket open for low-latency events and polls the REST endpoints on
// fixed intervals as a backstop, so a dropped or silently dead socket
// degrades latency instead of losing messages.
package chatclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	defaultConversationPoll = 5 * time.Second
	defaultMessagePoll      = 2 * time.Second
	defaultUnreadPoll       = 15 * time.Second

	// A typing indicator that is not refreshed decays after this long.
	typingDecay = 2500 * time.Millisecond
)

type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	ReceiverID     string    `json:"receiver_id"`
	ItemID         string    `json:"item_id"`
	Content        string    `json:"content"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"created_at"`
}

type Conversation struct {
	ID            string     `json:"id"`
	ItemID        string     `json:"item_id"`
	BuyerID       string     `json:"buyer_id"`
	SellerID      string     `json:"seller_id"`
	LastMessage   string     `json:"last_message,omitempty"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

type wireEvent struct {
	Type           string    `json:"type"`
	UserID         string    `json:"userId"`
	ConversationID string    `json:"conversationId"`
	IsTyping       bool      `json:"isTyping"`
	LastSeen       time.Time `json:"lastSeen"`
	Message        *Message  `json:"message"`
}

// Handlers receives events as they arrive. Nil fields are skipped. The
// callbacks run on the client's internal goroutines and must not block.
type Handlers struct {
	OnMessage       func(Message)
	OnConversations func([]Conversation)
	OnTyping        func(conversationID, userID string, isTyping bool)
	OnPresence      func(userID string, lastSeen time.Time)
	OnUnread        func(count int64)
}

type Options struct {
	ConversationPoll time.Duration
	MessagePoll      time.Duration
	UnreadPoll       time.Duration
	HTTPClient       *http.Client
}

type Client struct {
	baseURL  string
	token    string
	http     *http.Client
	handlers Handlers

	conversationPoll time.Duration
	messagePoll      time.Duration
	unreadPoll       time.Duration

	mu           sync.Mutex
	activeConvo  string
	seen         map[string]struct{}
	typingTimers map[string]*time.Timer
	conn         *websocket.Conn
}

func New(baseURL, token string, handlers Handlers, opts *Options) *Client {
	c := &Client{
		baseURL:          baseURL,
		token:            token,
		http:             http.DefaultClient,
		handlers:         handlers,
		conversationPoll: defaultConversationPoll,
		messagePoll:      defaultMessagePoll,
		unreadPoll:       defaultUnreadPoll,
		seen:             make(map[string]struct{}),
		typingTimers:     make(map[string]*time.Timer),
	}

	if opts != nil {
		if opts.ConversationPoll > 0 {
			c.conversationPoll = opts.ConversationPoll
		}
		if opts.MessagePoll > 0 {
			c.messagePoll = opts.MessagePoll
		}
		if opts.UnreadPoll > 0 {
			c.unreadPoll = opts.UnreadPoll
		}
		if opts.HTTPClient != nil {
			c.http = opts.HTTPClient
		}
	}

	return c
}

// SetActiveConversation selects which conversation the message poller
// watches. Pass "" to stop polling messages.
func (c *Client) SetActiveConversation(conversationID string) {
	c.mu.Lock()
	c.activeConvo = conversationID
	c.mu.Unlock()
}

// Run connects the live channel, starts the pollers and blocks until ctx
// is cancelled. A failed or dropped WebSocket is retried with backoff
// while the pollers keep the client usable.
func (c *Client) Run(ctx context.Context) error {
	go c.pollLoop(ctx, c.conversationPoll, c.pollConversations)
	go c.pollLoop(ctx, c.messagePoll, c.pollMessages)
	go c.pollLoop(ctx, c.unreadPoll, c.pollUnread)

	backoff := time.Second
	for {
		if err := c.runSocket(ctx); err != nil && ctx.Err() == nil {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		backoff = time.Second
	}
}

func (c *Client) runSocket(ctx context.Context) error {
	wsURL := fmt.Sprintf("%s/ws?token=%s", toWebSocketScheme(c.baseURL), c.token)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		conn.Close()
	}()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		c.dispatch(data)
	}
}

// SendTyping pushes a typing indicator over the live channel. Dropped
// silently when the socket is down; typing is not worth queueing.
func (c *Client) SendTyping(conversationID string, isTyping bool) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return
	}

	frame, _ := json.Marshal(map[string]interface{}{
		"type":           "typing",
		"conversationId": conversationID,
		"isTyping":       isTyping,
	})
	_ = conn.WriteMessage(websocket.TextMessage, frame)
}

func (c *Client) dispatch(data []byte) {
	var event wireEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return
	}

	switch event.Type {
	case "message:new":
		if event.Message != nil {
			c.deliver(*event.Message)
		}
	case "typing":
		c.handleTyping(event.ConversationID, event.UserID, event.IsTyping)
	case "presence":
		if c.handlers.OnPresence != nil {
			c.handlers.OnPresence(event.UserID, event.LastSeen)
		}
	}
}

// deliver forwards a message exactly once no matter whether the socket
// push or a poll saw it first.
func (c *Client) deliver(message Message) {
	c.mu.Lock()
	if _, dup := c.seen[message.ID]; dup {
		c.mu.Unlock()
		return
	}
	c.seen[message.ID] = struct{}{}
	c.mu.Unlock()

	if c.handlers.OnMessage != nil {
		c.handlers.OnMessage(message)
	}
}

func (c *Client) handleTyping(conversationID, userID string, isTyping bool) {
	if c.handlers.OnTyping == nil {
		return
	}

	key := conversationID + ":" + userID

	c.mu.Lock()
	if timer, ok := c.typingTimers[key]; ok {
		timer.Stop()
		delete(c.typingTimers, key)
	}
	if isTyping {
		c.typingTimers[key] = time.AfterFunc(typingDecay, func() {
			c.mu.Lock()
			delete(c.typingTimers, key)
			c.mu.Unlock()
			c.handlers.OnTyping(conversationID, userID, false)
		})
	}
	c.mu.Unlock()

	c.handlers.OnTyping(conversationID, userID, isTyping)
}

func (c *Client) pollLoop(ctx context.Context, interval time.Duration, poll func(context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			poll(ctx)
		}
	}
}

func (c *Client) pollConversations(ctx context.Context) {
	if c.handlers.OnConversations == nil {
		return
	}

	var conversations []Conversation
	if err := c.get(ctx, "/v1/conversations", &conversations); err != nil {
		return
	}
	c.handlers.OnConversations(conversations)
}

func (c *Client) pollMessages(ctx context.Context) {
	c.mu.Lock()
	conversationID := c.activeConvo
	c.mu.Unlock()
	if conversationID == "" {
		return
	}

	var messages []Message
	if err := c.get(ctx, "/v1/conversations/"+conversationID+"/messages", &messages); err != nil {
		return
	}
	for _, message := range messages {
		c.deliver(message)
	}
}

func (c *Client) pollUnread(ctx context.Context) {
	if c.handlers.OnUnread == nil {
		return
	}

	var payload struct {
		UnreadCount int64 `json:"unread_count"`
	}
	if err := c.get(ctx, "/v1/messages/unread-count", &payload); err != nil {
		return
	}
	c.handlers.OnUnread(payload.UnreadCount)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return err
	}
	return json.Unmarshal(env.Data, out)
}

func toWebSocketScheme(baseURL string) string {
	switch {
	case len(baseURL) >= 8 && baseURL[:8] == "https://":
		return "wss://" + baseURL[8:]
	case len(baseURL) >= 7 && baseURL[:7] == "http://":
		return "ws://" + baseURL[7:]
	}
	return baseURL
}
