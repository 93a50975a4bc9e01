package repository

import (
	"context"

	"tradepost/internal/domain/entity"
)

type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// List applies equality filters ("categoryId", "status",
	// "approvalStatus", "sellerId") and sorts by the given field.
	List(ctx context.Context, filter map[string]interface{}, sort string, limit, offset int) ([]*entity.Item, int64, error)
	SearchByTitle(ctx context.Context, query string, filter map[string]interface{}, limit, offset int) ([]*entity.Item, int64, error)
	ListBySellerID(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Item, int64, error)
	Update(ctx context.Context, item *entity.Item) error
	IncrementViews(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
