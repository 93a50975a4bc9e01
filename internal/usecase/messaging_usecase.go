package usecase

import (
	"context"
	"strings"
	"time"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
	"tradepost/internal/infrastructure/ratelimit"
	ws "tradepost/internal/infrastructure/websocket"
	"tradepost/pkg/errors"
	"tradepost/pkg/logger"
)

// interestMessage is the system-authored line injected when a buyer
// expresses interest in a listing.
const interestMessage = "I'm interested in this listing."

type MessagingUseCase struct {
	conversationRepo repository.ConversationRepository
	userRepo         repository.UserRepository
	itemRepo         repository.ItemRepository
	broadcaster      *ws.Broadcaster
	rateLimiter      *ratelimit.RateLimiter
}

func NewMessagingUseCase(
	conversationRepo repository.ConversationRepository,
	userRepo repository.UserRepository,
	itemRepo repository.ItemRepository,
	broadcaster *ws.Broadcaster,
) *MessagingUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &MessagingUseCase{
		conversationRepo: conversationRepo,
		userRepo:         userRepo,
		itemRepo:         itemRepo,
		broadcaster:      broadcaster,
		rateLimiter:      rateLimiter,
	}
}

type SendMessageInput struct {
	ItemID         string
	ReceiverID     string
	Content        string
	ConversationID string // optional; resolved via find-or-create when empty
}

type MessageResult struct {
	Message      *entity.Message      `json:"message"`
	Conversation *entity.Conversation `json:"conversation"`
}

type ConversationResponse struct {
	*entity.Conversation
	Item      *entity.Item `json:"item,omitempty"`
	OtherUser *entity.User `json:"other_user,omitempty"`
}

// FindOrCreateConversation resolves the unique conversation for an
// (item, buyer) pair, creating it on first contact. A seller cannot open a
// conversation on their own item.
func (uc *MessagingUseCase) FindOrCreateConversation(ctx context.Context, itemID, buyerID string) (*entity.Conversation, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if item.SellerID == buyerID {
		return nil, errors.InvalidOperation("sellers cannot express interest in their own item", nil)
	}

	existing, err := uc.conversationRepo.GetByItemAndBuyer(ctx, itemID, buyerID)
	if err == nil && existing != nil {
		return existing, nil
	}
	if err != nil && !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	now := time.Now()
	conversation := &entity.Conversation{
		ItemID:    itemID,
		BuyerID:   buyerID,
		SellerID:  item.SellerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.conversationRepo.Create(ctx, conversation); err != nil {
		return nil, err
	}

	return conversation, nil
}

// SendMessage appends a message to a conversation and pushes a message:new
// event to the receiver's live connections. The conversation summary update
// is best effort: once the message is persisted, a failing summary write is
// logged, never surfaced.
func (uc *MessagingUseCase) SendMessage(ctx context.Context, senderID string, input SendMessageInput) (*MessageResult, error) {
	if allowed, _ := uc.rateLimiter.Allow(senderID, "send_message"); !allowed {
		return nil, errors.TooManyRequests("You are sending messages too quickly. Please slow down.")
	}

	if strings.TrimSpace(input.Content) == "" {
		return nil, errors.BadRequest("Message content must not be empty", nil)
	}

	var conversation *entity.Conversation
	var err error
	if input.ConversationID != "" {
		conversation, err = uc.conversationRepo.GetByID(ctx, input.ConversationID)
		if err != nil {
			return nil, err
		}
		if !conversation.HasParticipant(senderID) {
			return nil, errors.Forbidden("You are not a participant in this conversation", nil)
		}
	} else {
		conversation, err = uc.FindOrCreateConversation(ctx, input.ItemID, senderID)
		if err != nil {
			return nil, err
		}
	}

	if err := uc.checkSendAllowed(ctx, conversation, senderID); err != nil {
		return nil, err
	}

	receiverID := conversation.OtherParticipant(senderID)
	if input.ReceiverID != "" && input.ReceiverID != receiverID {
		return nil, errors.BadRequest("Receiver is not a participant in this conversation", nil)
	}

	message := &entity.Message{
		ConversationID: conversation.ID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		ItemID:         conversation.ItemID,
		Content:        input.Content,
		Read:           false,
		CreatedAt:      time.Now(),
	}

	if err := uc.conversationRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	uc.recordActivity(ctx, conversation, message.Content, message.CreatedAt)

	uc.broadcaster.SendToUser(receiverID, ws.NewMessageEvent(message))

	return &MessageResult{Message: message, Conversation: conversation}, nil
}

// ExpressInterest creates or refreshes the buyer's conversation on an item
// and injects the interest notice. The seller-engagement gate does not
// apply; the notice is how the buyer asks the seller to engage.
func (uc *MessagingUseCase) ExpressInterest(ctx context.Context, buyerID, itemID string) (*MessageResult, error) {
	if allowed, _ := uc.rateLimiter.Allow(buyerID, "express_interest"); !allowed {
		return nil, errors.TooManyRequests("Too many interest requests. Please wait before trying again.")
	}

	conversation, err := uc.FindOrCreateConversation(ctx, itemID, buyerID)
	if err != nil {
		return nil, err
	}

	message := &entity.Message{
		ConversationID: conversation.ID,
		SenderID:       buyerID,
		ReceiverID:     conversation.SellerID,
		ItemID:         conversation.ItemID,
		Content:        interestMessage,
		Read:           false,
		CreatedAt:      time.Now(),
	}

	if err := uc.conversationRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	uc.recordActivity(ctx, conversation, message.Content, message.CreatedAt)

	uc.broadcaster.SendToUser(conversation.SellerID, ws.NewMessageEvent(message))

	return &MessageResult{Message: message, Conversation: conversation}, nil
}

// checkSendAllowed enforces the contact gate: a buyer may only message once
// the seller has sent something into the conversation. Product policy, not
// an architectural constraint.
func (uc *MessagingUseCase) checkSendAllowed(ctx context.Context, conversation *entity.Conversation, senderID string) error {
	if senderID == conversation.SellerID {
		return nil
	}

	engaged, err := uc.conversationRepo.HasMessageFrom(ctx, conversation.ID, conversation.SellerID)
	if err != nil {
		return err
	}
	if !engaged {
		return errors.InvalidOperation("The seller has not responded yet. Express interest and wait for the seller to reply.", nil)
	}
	return nil
}

// recordActivity bumps the conversation's denormalized summary fields.
// Applied for every persisted message, interest notices included, so the
// conversation list reflects the latest activity.
func (uc *MessagingUseCase) recordActivity(ctx context.Context, conversation *entity.Conversation, lastMessage string, at time.Time) {
	if err := uc.conversationRepo.RecordActivity(ctx, conversation.ID, lastMessage, at); err != nil {
		logger.Warn("failed to update conversation %s summary: %v", conversation.ID, err)
		return
	}
	conversation.UpdatedAt = at
	conversation.LastMessage = lastMessage
	conversation.LastMessageAt = &at
}

// ListConversations returns the caller's conversations, most recently
// active first, decorated with the item and the other participant.
func (uc *MessagingUseCase) ListConversations(ctx context.Context, userID string) ([]*ConversationResponse, error) {
	conversations, err := uc.conversationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*ConversationResponse, 0, len(conversations))
	for _, conversation := range conversations {
		resp := &ConversationResponse{Conversation: conversation}

		if item, err := uc.itemRepo.GetByID(ctx, conversation.ItemID); err == nil {
			resp.Item = item
		} else {
			logger.Warn("item %s missing for conversation %s: %v", conversation.ItemID, conversation.ID, err)
		}

		otherID := conversation.OtherParticipant(userID)
		if other, err := uc.userRepo.GetByID(ctx, otherID); err == nil {
			resp.OtherUser = other
		} else {
			logger.Warn("user %s missing for conversation %s: %v", otherID, conversation.ID, err)
		}

		responses = append(responses, resp)
	}

	return responses, nil
}

// ListMessages returns a conversation's messages in ascending createdAt
// order. Participants only.
func (uc *MessagingUseCase) ListMessages(ctx context.Context, userID, conversationID string) ([]*entity.Message, error) {
	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	if !conversation.HasParticipant(userID) {
		return nil, errors.Forbidden("You are not a participant in this conversation", nil)
	}

	return uc.conversationRepo.ListMessages(ctx, conversationID)
}

// MarkConversationRead flips every unread message addressed to the reader.
// Idempotent; messages addressed to the other participant are untouched.
func (uc *MessagingUseCase) MarkConversationRead(ctx context.Context, userID, conversationID string) error {
	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}

	if !conversation.HasParticipant(userID) {
		return errors.Forbidden("You are not a participant in this conversation", nil)
	}

	return uc.conversationRepo.MarkMessagesRead(ctx, conversationID, userID)
}

// UnreadCount counts unread messages addressed to the user across all
// conversations. Cheap enough to serve the badge poll.
func (uc *MessagingUseCase) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return uc.conversationRepo.CountUnread(ctx, userID)
}

// RelayTyping forwards a typing indicator to the conversation's other
// participant. Unknown conversations and non-participants are ignored
// silently; typing is fire and forget.
func (uc *MessagingUseCase) RelayTyping(ctx context.Context, userID, conversationID string, isTyping bool) {
	if allowed, _ := uc.rateLimiter.Allow(userID, "typing"); !allowed {
		return
	}

	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		logger.Debug("typing relay: conversation %s: %v", conversationID, err)
		return
	}
	if !conversation.HasParticipant(userID) {
		logger.Debug("typing relay: user %s is not in conversation %s", userID, conversationID)
		return
	}

	other := conversation.OtherParticipant(userID)
	uc.broadcaster.SendToUser(other, ws.NewTypingEvent(conversationID, userID, isTyping))
}

// RecordPresence updates the user's lastSeen and announces it to every
// live connection. The persistence write is fire and forget: a slow or
// failing store write must not delay the broadcast.
func (uc *MessagingUseCase) RecordPresence(userID string) time.Time {
	lastSeen := time.Now()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := uc.userRepo.UpdateLastSeen(ctx, userID, lastSeen); err != nil {
			logger.Warn("failed to persist lastSeen for user %s: %v", userID, err)
		}
	}()

	uc.broadcaster.SendToAll(ws.NewPresenceEvent(userID, lastSeen))
	return lastSeen
}
