package websocket

import (
	"sync"

	"tradepost/pkg/logger"
)

// Registry tracks the set of live connections per user. It is the only
// shared mutable structure in the realtime core and must tolerate
// concurrent register/unregister/lookup from every channel goroutine.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]map[*Client]struct{}),
	}
}

// Register adds the client to its user's set. Registering the same client
// twice is a no-op.
func (r *Registry) Register(client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.clients[client.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		r.clients[client.UserID] = set
	}
	set[client] = struct{}{}

	logger.Debug("registered connection for user %s (%d open)", client.UserID, len(set))
}

// Unregister removes the client from whichever set holds it and drops the
// set once empty. Calling it for a client that was never registered, or
// twice for the same client, is a no-op.
func (r *Registry) Unregister(client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.clients[client.UserID]
	if !ok {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(r.clients, client.UserID)
	}

	logger.Debug("unregistered connection for user %s", client.UserID)
}

// ClientsFor returns a snapshot of the user's live connections.
func (r *Registry) ClientsFor(userID string) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.clients[userID]
	out := make([]*Client, 0, len(set))
	for client := range set {
		out = append(out, client)
	}
	return out
}

// All returns a snapshot of every registered connection across all users.
func (r *Registry) All() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Client
	for _, set := range r.clients {
		for client := range set {
			out = append(out, client)
		}
	}
	return out
}

// Online reports whether the user has at least one live connection.
func (r *Registry) Online(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients[userID]) > 0
}
