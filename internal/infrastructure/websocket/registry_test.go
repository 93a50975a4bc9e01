package websocket

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeConn satisfies Conn without a network peer.
type fakeConn struct {
	written [][]byte
	closed  bool
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	return 0, nil, errors.New("closed")
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error {
	f.written = append(f.written, data)
	return nil
}

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}

func TestRegisterAndLookup(t *testing.T) {
	registry := NewRegistry()
	client := NewClient("user-1", &fakeConn{})

	assert.False(t, registry.Online("user-1"))

	registry.Register(client)

	assert.True(t, registry.Online("user-1"))
	assert.Len(t, registry.ClientsFor("user-1"), 1)
	assert.Empty(t, registry.ClientsFor("user-2"))
}

func TestRegisterIsIdempotent(t *testing.T) {
	registry := NewRegistry()
	client := NewClient("user-1", &fakeConn{})

	registry.Register(client)
	registry.Register(client)

	assert.Len(t, registry.ClientsFor("user-1"), 1)
}

func TestMultipleConnectionsPerUser(t *testing.T) {
	registry := NewRegistry()
	tab1 := NewClient("user-1", &fakeConn{})
	tab2 := NewClient("user-1", &fakeConn{})

	registry.Register(tab1)
	registry.Register(tab2)

	assert.Len(t, registry.ClientsFor("user-1"), 2)

	registry.Unregister(tab1)

	assert.True(t, registry.Online("user-1"))
	assert.Len(t, registry.ClientsFor("user-1"), 1)

	registry.Unregister(tab2)

	assert.False(t, registry.Online("user-1"))
}

func TestUnregisterUnknownClientIsNoop(t *testing.T) {
	registry := NewRegistry()
	client := NewClient("user-1", &fakeConn{})

	registry.Unregister(client)

	registry.Register(client)
	registry.Unregister(client)
	registry.Unregister(client)

	assert.False(t, registry.Online("user-1"))
}

func TestAllSpansUsers(t *testing.T) {
	registry := NewRegistry()
	registry.Register(NewClient("user-1", &fakeConn{}))
	registry.Register(NewClient("user-2", &fakeConn{}))
	registry.Register(NewClient("user-2", &fakeConn{}))

	assert.Len(t, registry.All(), 3)
}

func TestTrySendAfterCloseReportsFalse(t *testing.T) {
	client := NewClient("user-1", &fakeConn{})

	assert.True(t, client.TrySend([]byte("hello")))

	client.Close()

	assert.False(t, client.TrySend([]byte("late")))
}

func TestCloseIsIdempotent(t *testing.T) {
	conn := &fakeConn{}
	client := NewClient("user-1", conn)

	client.Close()
	client.Close()

	assert.True(t, conn.closed)
}

func TestTrySendDropsWhenBufferFull(t *testing.T) {
	client := NewClient("user-1", &fakeConn{})

	for i := 0; i < cap(client.Send); i++ {
		assert.True(t, client.TrySend([]byte("x")))
	}

	assert.False(t, client.TrySend([]byte("overflow")))
}
