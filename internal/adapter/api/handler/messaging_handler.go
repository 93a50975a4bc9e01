package handler

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/usecase"
	"tradepost/pkg/errors"
	"tradepost/pkg/response"
)

type MessagingHandler struct {
	messagingUseCase *usecase.MessagingUseCase
}

func NewMessagingHandler(messagingUseCase *usecase.MessagingUseCase) *MessagingHandler {
	return &MessagingHandler{
		messagingUseCase: messagingUseCase,
	}
}

type sendMessageRequest struct {
	ItemID         string `json:"item_id"`
	ReceiverID     string `json:"receiver_id"`
	Content        string `json:"content" validate:"required,max=2000"`
	ConversationID string `json:"conversation_id"`
}

// ListConversations returns the caller's conversations, or the messages of
// one conversation when conversation_id is supplied. The polling clients
// hit this on a fixed interval, so both shapes live on one route.
func (h *MessagingHandler) ListConversations(c echo.Context) error {
	userID := c.Get("uid").(string)

	if conversationID := c.QueryParam("conversation_id"); conversationID != "" {
		messages, err := h.messagingUseCase.ListMessages(c.Request().Context(), userID, conversationID)
		if err != nil {
			return response.Error(c, err)
		}
		return response.Success(c, messages)
	}

	conversations, err := h.messagingUseCase.ListConversations(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, conversations)
}

func (h *MessagingHandler) ListMessages(c echo.Context) error {
	userID := c.Get("uid").(string)

	messages, err := h.messagingUseCase.ListMessages(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

func (h *MessagingHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	senderID := c.Get("uid").(string)

	result, err := h.messagingUseCase.SendMessage(c.Request().Context(), senderID, usecase.SendMessageInput{
		ItemID:         req.ItemID,
		ReceiverID:     req.ReceiverID,
		Content:        req.Content,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, result)
}

type markReadRequest struct {
	MarkAsRead bool `json:"mark_as_read"`
}

func (h *MessagingHandler) MarkConversationRead(c echo.Context) error {
	userID := c.Get("uid").(string)

	// The body is optional. An absent one means mark as read.
	req := markReadRequest{MarkAsRead: true}
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return response.Error(c, errors.BadRequest("Invalid request body", err))
		}
	}
	if !req.MarkAsRead {
		return response.Success(c, map[string]string{"message": "Conversation left unchanged"})
	}

	if err := h.messagingUseCase.MarkConversationRead(c.Request().Context(), userID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Conversation marked as read"})
}

func (h *MessagingHandler) ExpressInterest(c echo.Context) error {
	buyerID := c.Get("uid").(string)

	result, err := h.messagingUseCase.ExpressInterest(c.Request().Context(), buyerID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, result)
}

func (h *MessagingHandler) UnreadCount(c echo.Context) error {
	userID := c.Get("uid").(string)

	count, err := h.messagingUseCase.UnreadCount(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int64{"unread_count": count})
}
