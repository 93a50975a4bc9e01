package repository

import (
	"context"
	"time"

	"tradepost/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	// UpdateLastSeen touches only the presence timestamp; called on every
	// live-channel open/close and presence ping.
	UpdateLastSeen(ctx context.Context, id string, lastSeen time.Time) error
	List(ctx context.Context, status string, limit, offset int) ([]*entity.User, int64, error)
	Delete(ctx context.Context, id string) error
}
