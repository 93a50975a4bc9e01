package websocket

import (
	"encoding/json"

	"tradepost/pkg/logger"
)

// Broadcaster fans events out to live connections. Delivery is best effort:
// a connection that is closed or backed up is skipped, never queued behind.
// The polling fallback is the consistency backstop.
type Broadcaster struct {
	registry *Registry
}

func NewBroadcaster(registry *Registry) *Broadcaster {
	return &Broadcaster{registry: registry}
}

// SendToUsers serializes the event once and delivers it to every live
// connection of every target user. Users with no connections are skipped
// silently. Sends are independent per connection; no ordering across
// recipients.
func (b *Broadcaster) SendToUsers(userIDs []string, event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("broadcast marshal: %v", err)
		return
	}

	for _, userID := range userIDs {
		for _, client := range b.registry.ClientsFor(userID) {
			if !client.TrySend(data) {
				logger.Debug("dropped event for user %s: connection not writable", userID)
			}
		}
	}
}

// SendToAll delivers the event to every registered connection. Used only
// for presence announcements.
func (b *Broadcaster) SendToAll(event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("broadcast marshal: %v", err)
		return
	}

	for _, client := range b.registry.All() {
		if !client.TrySend(data) {
			logger.Debug("dropped event for user %s: connection not writable", client.UserID)
		}
	}
}

// SendToUser is a convenience for a single recipient.
func (b *Broadcaster) SendToUser(userID string, event interface{}) {
	b.SendToUsers([]string{userID}, event)
}
