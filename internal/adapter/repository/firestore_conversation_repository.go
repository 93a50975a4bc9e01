package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
	"tradepost/pkg/errors"
)

type firestoreConversationRepository struct {
	client *firestore.Client
}

func NewFirestoreConversationRepository(client *firestore.Client) repository.ConversationRepository {
	return &firestoreConversationRepository{
		client: client,
	}
}

// conversationDocID derives the document ID from the item and buyer so
// the same pair always maps to the same conversation, even when two
// requests race to create it.
func conversationDocID(itemID, buyerID string) string {
	return itemID + "_" + buyerID
}

func (r *firestoreConversationRepository) Create(ctx context.Context, conversation *entity.Conversation) error {
	if conversation.ID == "" {
		conversation.ID = conversationDocID(conversation.ItemID, conversation.BuyerID)
	}
	conversation.Participants = []string{conversation.BuyerID, conversation.SellerID}

	docRef := r.client.Collection("conversations").Doc(conversation.ID)
	if _, err := docRef.Create(ctx, conversation); err != nil {
		if isAlreadyExists(err) {
			// Lost the race. Adopt the conversation the winner created.
			doc, getErr := docRef.Get(ctx)
			if getErr != nil {
				return errors.Internal("Failed to load existing conversation", getErr)
			}
			if dataErr := doc.DataTo(conversation); dataErr != nil {
				return errors.Internal("Failed to parse conversation data", dataErr)
			}
			conversation.ID = doc.Ref.ID
			return nil
		}
		return storeErr("Failed to create conversation", err)
	}
	return nil
}

func (r *firestoreConversationRepository) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	doc, err := r.client.Collection("conversations").Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.NotFound("Conversation", err)
		}
		return nil, errors.Internal("Failed to get conversation", err)
	}

	var conversation entity.Conversation
	if err := doc.DataTo(&conversation); err != nil {
		return nil, errors.Internal("Failed to parse conversation data", err)
	}
	conversation.ID = doc.Ref.ID

	return &conversation, nil
}

func (r *firestoreConversationRepository) GetByItemAndBuyer(ctx context.Context, itemID, buyerID string) (*entity.Conversation, error) {
	return r.GetByID(ctx, conversationDocID(itemID, buyerID))
}

func (r *firestoreConversationRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	iter := r.client.Collection("conversations").
		Where("participants", "array-contains", userID).
		OrderBy("updatedAt", firestore.Desc).
		Documents(ctx)

	var conversations []*entity.Conversation
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate conversations", err)
		}

		var conversation entity.Conversation
		if err := doc.DataTo(&conversation); err != nil {
			return nil, errors.Internal("Failed to parse conversation data", err)
		}
		conversation.ID = doc.Ref.ID
		conversations = append(conversations, &conversation)
	}

	return conversations, nil
}

func (r *firestoreConversationRepository) RecordActivity(ctx context.Context, id, lastMessage string, at time.Time) error {
	_, err := r.client.Collection("conversations").Doc(id).Update(ctx, []firestore.Update{
		{Path: "lastMessage", Value: lastMessage},
		{Path: "lastMessageAt", Value: at},
		{Path: "updatedAt", Value: at},
	})
	if err != nil {
		return storeErr("Failed to record conversation activity", err)
	}
	return nil
}

func (r *firestoreConversationRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.Collection("conversations").Doc(id).Delete(ctx); err != nil {
		return storeErr("Failed to delete conversation", err)
	}
	return nil
}

func (r *firestoreConversationRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}

	_, err := r.client.Collection("conversations").
		Doc(message.ConversationID).
		Collection("messages").
		Doc(message.ID).
		Set(ctx, message)
	if err != nil {
		return storeErr("Failed to create message", err)
	}
	return nil
}

func (r *firestoreConversationRepository) ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	iter := r.client.Collection("conversations").
		Doc(conversationID).
		Collection("messages").
		OrderBy("createdAt", firestore.Asc).
		Documents(ctx)

	var messages []*entity.Message
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			return nil, errors.Internal("Failed to parse message data", err)
		}
		message.ID = doc.Ref.ID
		messages = append(messages, &message)
	}

	return messages, nil
}

func (r *firestoreConversationRepository) HasMessageFrom(ctx context.Context, conversationID, senderID string) (bool, error) {
	iter := r.client.Collection("conversations").
		Doc(conversationID).
		Collection("messages").
		Where("senderId", "==", senderID).
		Limit(1).
		Documents(ctx)

	_, err := iter.Next()
	if err == iterator.Done {
		return false, nil
	}
	if err != nil {
		return false, errors.Internal("Failed to query messages", err)
	}
	return true, nil
}

func (r *firestoreConversationRepository) MarkMessagesRead(ctx context.Context, conversationID, receiverID string) error {
	iter := r.client.Collection("conversations").
		Doc(conversationID).
		Collection("messages").
		Where("receiverId", "==", receiverID).
		Where("read", "==", false).
		Documents(ctx)

	bulk := r.client.BulkWriter(ctx)
	var jobs []*firestore.BulkWriterJob
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			bulk.End()
			return errors.Internal("Failed to iterate unread messages", err)
		}

		job, err := bulk.Update(doc.Ref, []firestore.Update{
			{Path: "read", Value: true},
		})
		if err != nil {
			bulk.End()
			return storeErr("Failed to mark message read", err)
		}
		jobs = append(jobs, job)
	}
	bulk.End()

	// End only flushes. Each write reports its outcome through its job.
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return storeErr("Failed to mark message read", err)
		}
	}
	return nil
}

func (r *firestoreConversationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	docs, err := r.client.CollectionGroup("messages").
		Where("receiverId", "==", userID).
		Where("read", "==", false).
		Documents(ctx).
		GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to count unread messages", err)
	}

	return int64(len(docs)), nil
}
