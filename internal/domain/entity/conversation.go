package entity

import "time"

// Conversation groups every message between one buyer and one seller about
// one item. At most one exists per (itemId, buyerId) pair.
type Conversation struct {
	ID       string `json:"id" firestore:"id"`
	ItemID   string `json:"item_id" firestore:"itemId"`
	BuyerID  string `json:"buyer_id" firestore:"buyerId"`
	SellerID string `json:"seller_id" firestore:"sellerId"`

	// Both participant IDs, duplicated for array-contains queries.
	Participants []string `json:"-" firestore:"participants"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`

	// Denormalized summary of the most recent message. Convenience for the
	// conversation list, never the source of truth.
	LastMessage   string     `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty" firestore:"lastMessageAt,omitempty"`
}

func (c *Conversation) HasParticipant(userID string) bool {
	return userID == c.BuyerID || userID == c.SellerID
}

// OtherParticipant returns the participant that is not userID, or "" when
// userID is not a participant at all.
func (c *Conversation) OtherParticipant(userID string) string {
	switch userID {
	case c.BuyerID:
		return c.SellerID
	case c.SellerID:
		return c.BuyerID
	}
	return ""
}
