package websocket

import (
	"sync"

	"github.com/gorilla/websocket"

	"tradepost/pkg/logger"
)

// Conn is the subset of *websocket.Conn the channel code needs. Tests swap
// in a fake.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one live connection owned by one user. A user with several open
// tabs holds several Clients.
type Client struct {
	UserID string
	Conn   Conn
	Send   chan []byte

	mu     sync.Mutex
	closed bool
}

func NewClient(userID string, conn Conn) *Client {
	return &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}
}

// TrySend queues data for delivery without blocking. It reports false when
// the client is closed or its buffer is full; delivery is best effort and
// the polling fallback covers the gap.
func (c *Client) TrySend(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// Close makes the client unwritable and releases the underlying connection.
// Safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.Send)
	c.mu.Unlock()

	c.Conn.Close()
}

// ReadPump reads frames until the connection drops, handing each one to
// handle. It returns once the connection is unusable; the caller runs the
// close sequence.
func (c *Client) ReadPump(handle func(*Client, []byte)) {
	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket read for user %s: %v", c.UserID, err)
			}
			return
		}
		handle(c, data)
	}
}

// WritePump drains the Send channel onto the wire. Exits when Close closes
// the channel or a write fails.
func (c *Client) WritePump() {
	for data := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			logger.Warn("websocket write for user %s: %v", c.UserID, err)
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}
