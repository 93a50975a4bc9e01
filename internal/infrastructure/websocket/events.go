package websocket

import (
	"time"

	"tradepost/internal/domain/entity"
)

// Outbound event types. Every payload carries a "type" discriminator.
const (
	EventConnected  = "connected"
	EventMessageNew = "message:new"
	EventTyping     = "typing"
	EventPresence   = "presence"
)

// Inbound message types accepted on an open channel.
const (
	InboundTyping       = "typing"
	InboundPresencePing = "presence:ping"
)

type ConnectedEvent struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

type MessageNewEvent struct {
	Type           string          `json:"type"`
	ConversationID string          `json:"conversationId"`
	ItemID         string          `json:"itemId"`
	Message        *entity.Message `json:"message"`
}

type TypingEvent struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId"`
	IsTyping       bool   `json:"isTyping"`
}

type PresenceEvent struct {
	Type     string    `json:"type"`
	UserID   string    `json:"userId"`
	LastSeen time.Time `json:"lastSeen"`
}

// InboundEvent is the envelope clients send on the channel.
type InboundEvent struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversationId,omitempty"`
	IsTyping       bool   `json:"isTyping,omitempty"`
}

func NewConnectedEvent(userID string) ConnectedEvent {
	return ConnectedEvent{Type: EventConnected, UserID: userID}
}

func NewMessageEvent(message *entity.Message) MessageNewEvent {
	return MessageNewEvent{
		Type:           EventMessageNew,
		ConversationID: message.ConversationID,
		ItemID:         message.ItemID,
		Message:        message,
	}
}

func NewTypingEvent(conversationID, userID string, isTyping bool) TypingEvent {
	return TypingEvent{
		Type:           EventTyping,
		ConversationID: conversationID,
		UserID:         userID,
		IsTyping:       isTyping,
	}
}

func NewPresenceEvent(userID string, lastSeen time.Time) PresenceEvent {
	return PresenceEvent{Type: EventPresence, UserID: userID, LastSeen: lastSeen}
}
