package usecase

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"tradepost/internal/domain/entity"
	"tradepost/pkg/errors"
)

// In-memory repositories backing the usecase tests.

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*entity.User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copy := *user
	r.users[user.ID] = &copy
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	copy := *user
	return &copy, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copy := *user
			return &copy, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *memUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return errors.NotFound("User", nil)
	}
	copy := *user
	r.users[user.ID] = &copy
	return nil
}

func (r *memUserRepo) UpdateLastSeen(ctx context.Context, id string, lastSeen time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return errors.NotFound("User", nil)
	}
	user.LastSeen = lastSeen
	return nil
}

func (r *memUserRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.User
	for _, user := range r.users {
		if status == "" || user.Status == status {
			copy := *user
			out = append(out, &copy)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memUserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

type memItemRepo struct {
	mu    sync.Mutex
	items map[string]*entity.Item
	seq   int
}

func newMemItemRepo() *memItemRepo {
	return &memItemRepo{items: make(map[string]*entity.Item)}
}

func (r *memItemRepo) Create(ctx context.Context, item *entity.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID == "" {
		r.seq++
		item.ID = "item-" + strconv.Itoa(r.seq)
	}
	copy := *item
	r.items[item.ID] = &copy
	return nil
}

func (r *memItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, errors.NotFound("Item", nil)
	}
	copy := *item
	return &copy, nil
}

func (r *memItemRepo) matches(item *entity.Item, filter map[string]interface{}) bool {
	for field, value := range filter {
		switch field {
		case "categoryId":
			if item.CategoryID != value {
				return false
			}
		case "status":
			if item.Status != value {
				return false
			}
		case "approvalStatus":
			if item.ApprovalStatus != value {
				return false
			}
		case "sellerId":
			if item.SellerID != value {
				return false
			}
		}
	}
	return true
}

func (r *memItemRepo) List(ctx context.Context, filter map[string]interface{}, sortField string, limit, offset int) ([]*entity.Item, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Item
	for _, item := range r.items {
		if r.matches(item, filter) {
			copy := *item
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, int64(len(out)), nil
}

func (r *memItemRepo) SearchByTitle(ctx context.Context, query string, filter map[string]interface{}, limit, offset int) ([]*entity.Item, int64, error) {
	return r.List(ctx, filter, "", limit, offset)
}

func (r *memItemRepo) ListBySellerID(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Item, int64, error) {
	return r.List(ctx, map[string]interface{}{"sellerId": sellerID}, "", limit, offset)
}

func (r *memItemRepo) Update(ctx context.Context, item *entity.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return errors.NotFound("Item", nil)
	}
	copy := *item
	r.items[item.ID] = &copy
	return nil
}

func (r *memItemRepo) IncrementViews(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return errors.NotFound("Item", nil)
	}
	item.Views++
	return nil
}

func (r *memItemRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

type memCategoryRepo struct {
	mu         sync.Mutex
	categories map[string]*entity.Category
	seq        int
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{categories: make(map[string]*entity.Category)}
}

func (r *memCategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if category.ID == "" {
		r.seq++
		category.ID = "cat-" + strconv.Itoa(r.seq)
	}
	copy := *category
	r.categories[category.ID] = &copy
	return nil
}

func (r *memCategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	category, ok := r.categories[id]
	if !ok {
		return nil, errors.NotFound("Category", nil)
	}
	copy := *category
	return &copy, nil
}

func (r *memCategoryRepo) GetBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, category := range r.categories {
		if category.Slug == slug {
			copy := *category
			return &copy, nil
		}
	}
	return nil, errors.NotFound("Category", nil)
}

func (r *memCategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Category
	for _, category := range r.categories {
		copy := *category
		out = append(out, &copy)
	}
	return out, nil
}

func (r *memCategoryRepo) Update(ctx context.Context, category *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[category.ID]; !ok {
		return errors.NotFound("Category", nil)
	}
	copy := *category
	r.categories[category.ID] = &copy
	return nil
}

func (r *memCategoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.categories, id)
	return nil
}

type memConversationRepo struct {
	mu            sync.Mutex
	conversations map[string]*entity.Conversation
	messages      map[string][]*entity.Message
	msgSeq        int
	markReadErr   error
}

func newMemConversationRepo() *memConversationRepo {
	return &memConversationRepo{
		conversations: make(map[string]*entity.Conversation),
		messages:      make(map[string][]*entity.Message),
	}
}

func (r *memConversationRepo) Create(ctx context.Context, conversation *entity.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conversation.ID == "" {
		conversation.ID = conversation.ItemID + "_" + conversation.BuyerID
	}
	if existing, ok := r.conversations[conversation.ID]; ok {
		*conversation = *existing
		return nil
	}
	conversation.Participants = []string{conversation.BuyerID, conversation.SellerID}
	copy := *conversation
	r.conversations[conversation.ID] = &copy
	return nil
}

func (r *memConversationRepo) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conversation, ok := r.conversations[id]
	if !ok {
		return nil, errors.NotFound("Conversation", nil)
	}
	copy := *conversation
	return &copy, nil
}

func (r *memConversationRepo) GetByItemAndBuyer(ctx context.Context, itemID, buyerID string) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, conversation := range r.conversations {
		if conversation.ItemID == itemID && conversation.BuyerID == buyerID {
			copy := *conversation
			return &copy, nil
		}
	}
	return nil, errors.NotFound("Conversation", nil)
}

func (r *memConversationRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Conversation
	for _, conversation := range r.conversations {
		if conversation.HasParticipant(userID) {
			copy := *conversation
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *memConversationRepo) RecordActivity(ctx context.Context, id, lastMessage string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conversation, ok := r.conversations[id]
	if !ok {
		return errors.NotFound("Conversation", nil)
	}
	conversation.LastMessage = lastMessage
	conversation.LastMessageAt = &at
	conversation.UpdatedAt = at
	return nil
}

func (r *memConversationRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conversations, id)
	delete(r.messages, id)
	return nil
}

func (r *memConversationRepo) CreateMessage(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if message.ID == "" {
		r.msgSeq++
		message.ID = "msg-" + strconv.Itoa(r.msgSeq)
	}
	copy := *message
	r.messages[message.ConversationID] = append(r.messages[message.ConversationID], &copy)
	return nil
}

func (r *memConversationRepo) ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.messages[conversationID]
	out := make([]*entity.Message, 0, len(stored))
	for _, message := range stored {
		copy := *message
		out = append(out, &copy)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memConversationRepo) HasMessageFrom(ctx context.Context, conversationID, senderID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, message := range r.messages[conversationID] {
		if message.SenderID == senderID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memConversationRepo) MarkMessagesRead(ctx context.Context, conversationID, receiverID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.markReadErr != nil {
		return r.markReadErr
	}
	for _, message := range r.messages[conversationID] {
		if message.ReceiverID == receiverID {
			message.Read = true
		}
	}
	return nil
}

func (r *memConversationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, messages := range r.messages {
		for _, message := range messages {
			if message.ReceiverID == userID && !message.Read {
				count++
			}
		}
	}
	return count, nil
}
