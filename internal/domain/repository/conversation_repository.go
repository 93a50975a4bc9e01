package repository

import (
	"context"
	"time"

	"tradepost/internal/domain/entity"
)

// ConversationRepository is the messaging half of the Store collaborator:
// conversations plus their owned messages.
type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)
	// GetByItemAndBuyer resolves the unique conversation for an (item, buyer)
	// pair, or NOT_FOUND.
	GetByItemAndBuyer(ctx context.Context, itemID, buyerID string) (*entity.Conversation, error)
	// ListByUser returns every conversation the user participates in, as
	// buyer or seller, most recently active first.
	ListByUser(ctx context.Context, userID string) ([]*entity.Conversation, error)
	// RecordActivity bumps updatedAt/lastMessage/lastMessageAt after a
	// message has been persisted.
	RecordActivity(ctx context.Context, id string, lastMessage string, at time.Time) error
	Delete(ctx context.Context, id string) error

	CreateMessage(ctx context.Context, message *entity.Message) error
	// ListMessages returns the conversation's messages in ascending
	// createdAt order.
	ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error)
	// HasMessageFrom reports whether the conversation already holds at
	// least one message authored by senderID.
	HasMessageFrom(ctx context.Context, conversationID, senderID string) (bool, error)
	// MarkMessagesRead flips read=false to true on every message in the
	// conversation addressed to receiverID. Idempotent.
	MarkMessagesRead(ctx context.Context, conversationID, receiverID string) error
	// CountUnread counts messages across all conversations with
	// receiverId == userID and read == false.
	CountUnread(ctx context.Context, userID string) (int64, error)
}
