package repository

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
	"tradepost/pkg/errors"
)

type firestoreItemRepository struct {
	client *firestore.Client
}

func NewFirestoreItemRepository(client *firestore.Client) repository.ItemRepository {
	return &firestoreItemRepository{
		client: client,
	}
}

func (r *firestoreItemRepository) Create(ctx context.Context, item *entity.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	if _, err := r.client.Collection("items").Doc(item.ID).Set(ctx, item); err != nil {
		return storeErr("Failed to create item", err)
	}
	return nil
}

func (r *firestoreItemRepository) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	doc, err := r.client.Collection("items").Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.NotFound("Item", err)
		}
		return nil, errors.Internal("Failed to get item", err)
	}

	var item entity.Item
	if err := doc.DataTo(&item); err != nil {
		return nil, errors.Internal("Failed to parse item data", err)
	}
	item.ID = doc.Ref.ID

	return &item, nil
}

func (r *firestoreItemRepository) List(ctx context.Context, filter map[string]interface{}, sort string, limit, offset int) ([]*entity.Item, int64, error) {
	query := r.client.Collection("items").Query
	for field, value := range filter {
		query = query.Where(field, "==", value)
	}

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count items", err)
	}
	total := int64(len(countDocs))

	switch sort {
	case "price_asc":
		query = query.OrderBy("price", firestore.Asc)
	case "price_desc":
		query = query.OrderBy("price", firestore.Desc)
	case "views":
		query = query.OrderBy("views", firestore.Desc)
	default:
		query = query.OrderBy("createdAt", firestore.Desc)
	}

	iter := query.Offset(offset).Limit(limit).Documents(ctx)

	var items []*entity.Item
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate items", err)
		}

		var item entity.Item
		if err := doc.DataTo(&item); err != nil {
			return nil, 0, errors.Internal("Failed to parse item data", err)
		}
		item.ID = doc.Ref.ID
		items = append(items, &item)
	}

	return items, total, nil
}

// SearchByTitle filters matching items in memory after applying the
// equality filters. Firestore has no substring queries; fine at this
// collection size, revisit with a search index if listings grow.
func (r *firestoreItemRepository) SearchByTitle(ctx context.Context, queryStr string, filter map[string]interface{}, limit, offset int) ([]*entity.Item, int64, error) {
	query := r.client.Collection("items").Query
	for field, value := range filter {
		query = query.Where(field, "==", value)
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to search items", err)
	}

	needle := strings.ToLower(queryStr)
	var matched []*entity.Item
	for _, doc := range docs {
		var item entity.Item
		if err := doc.DataTo(&item); err != nil {
			return nil, 0, errors.Internal("Failed to parse item data", err)
		}
		item.ID = doc.Ref.ID

		if strings.Contains(strings.ToLower(item.Title), needle) ||
			strings.Contains(strings.ToLower(item.Description), needle) {
			matched = append(matched, &item)
		}
	}

	total := int64(len(matched))
	if offset >= len(matched) {
		return []*entity.Item{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}

	return matched[offset:end], total, nil
}

func (r *firestoreItemRepository) ListBySellerID(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Item, int64, error) {
	query := r.client.Collection("items").Where("sellerId", "==", sellerID)

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count seller items", err)
	}
	total := int64(len(countDocs))

	iter := query.OrderBy("createdAt", firestore.Desc).Offset(offset).Limit(limit).Documents(ctx)

	var items []*entity.Item
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate seller items", err)
		}

		var item entity.Item
		if err := doc.DataTo(&item); err != nil {
			return nil, 0, errors.Internal("Failed to parse item data", err)
		}
		item.ID = doc.Ref.ID
		items = append(items, &item)
	}

	return items, total, nil
}

func (r *firestoreItemRepository) Update(ctx context.Context, item *entity.Item) error {
	item.UpdatedAt = time.Now()
	if _, err := r.client.Collection("items").Doc(item.ID).Set(ctx, item); err != nil {
		return storeErr("Failed to update item", err)
	}
	return nil
}

func (r *firestoreItemRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.client.Collection("items").Doc(id).Update(ctx, []firestore.Update{
		{Path: "views", Value: firestore.Increment(1)},
	})
	if err != nil {
		return storeErr("Failed to increment item views", err)
	}
	return nil
}

func (r *firestoreItemRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.Collection("items").Doc(id).Delete(ctx); err != nil {
		return storeErr("Failed to delete item", err)
	}
	return nil
}
