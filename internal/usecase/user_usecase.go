package usecase

import (
	"context"
	"time"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
	"tradepost/pkg/errors"
)

type UserUseCase struct {
	userRepo repository.UserRepository
}

func NewUserUseCase(userRepo repository.UserRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo}
}

type UpdateProfileInput struct {
	Username  string `json:"username" validate:"omitempty,min=3,max=30"`
	Bio       string `json:"bio" validate:"omitempty,max=500"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Username != "" {
		user.Username = input.Username
	}
	if input.Bio != "" {
		user.Bio = input.Bio
	}
	if input.AvatarURL != "" {
		user.AvatarURL = input.AvatarURL
	}
	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Follow adds targetID to the caller's following list. Following yourself
// is a domain-rule violation, following twice is a no-op.
func (uc *UserUseCase) Follow(ctx context.Context, userID, targetID string) (*entity.User, error) {
	if userID == targetID {
		return nil, errors.InvalidOperation("You cannot follow yourself", nil)
	}

	if _, err := uc.userRepo.GetByID(ctx, targetID); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.IsFollowing(targetID) {
		return user, nil
	}

	user.Following = append(user.Following, targetID)
	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (uc *UserUseCase) Unfollow(ctx context.Context, userID, targetID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !user.IsFollowing(targetID) {
		return user, nil
	}

	following := make([]string, 0, len(user.Following)-1)
	for _, id := range user.Following {
		if id != targetID {
			following = append(following, id)
		}
	}
	user.Following = following
	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ListUsers returns profiles filtered by account status. Admin surface.
func (uc *UserUseCase) ListUsers(ctx context.Context, status string, limit, offset int) ([]*entity.User, int64, error) {
	return uc.userRepo.List(ctx, status, limit, offset)
}

// SetStatus moves an account between pending, approved and suspended.
func (uc *UserUseCase) SetStatus(ctx context.Context, userID, status string) (*entity.User, error) {
	switch status {
	case "pending", "approved", "suspended":
	default:
		return nil, errors.BadRequest("Invalid account status", nil)
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Status = status
	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
