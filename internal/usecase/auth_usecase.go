package usecase

import (
	"context"
	"time"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
	"tradepost/pkg/errors"
)

type AuthUseCase struct {
	authProvider AuthProvider
	userRepo     repository.UserRepository
}

func NewAuthUseCase(authProvider AuthProvider, userRepo repository.UserRepository) *AuthUseCase {
	return &AuthUseCase{
		authProvider: authProvider,
		userRepo:     userRepo,
	}
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Username string `json:"username" validate:"required,min=3,max=30"`
}

type AuthResult struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

// Register creates the identity record and the profile document. New
// accounts start pending until an admin approves them.
func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if _, err := uc.userRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, errors.BadRequest("Email is already registered", nil)
	}

	uid, err := uc.authProvider.CreateUser(ctx, input.Email, input.Password, input.Username)
	if err != nil {
		return nil, errors.Internal("Failed to create user account", err)
	}

	now := time.Now()
	user := &entity.User{
		ID:        uid,
		Email:     input.Email,
		Username:  input.Username,
		Role:      "user",
		Status:    "pending",
		Following: []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		// keep identity and profile in step
		if delErr := uc.authProvider.DeleteUser(ctx, uid); delErr != nil {
			return nil, errors.Internal("Failed to roll back user account", delErr)
		}
		return nil, err
	}

	token, err := uc.authProvider.GenerateToken(ctx, uid)
	if err != nil {
		return nil, errors.Internal("Failed to generate token", err)
	}

	return &AuthResult{Token: token, User: user}, nil
}

// Authenticate resolves a bearer token to the profile behind it.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	uid, err := uc.authProvider.VerifyToken(ctx, token)
	if err != nil {
		return nil, errors.Unauthorized("Invalid or expired token", err)
	}

	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, errors.Unauthorized("User profile not found", err)
	}

	return user, nil
}

// GetProfile loads the profile behind an authenticated user ID.
func (uc *AuthUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

// VerifyToken resolves a bearer token to a user ID without loading the
// profile. Used on the hot auth path.
func (uc *AuthUseCase) VerifyToken(ctx context.Context, token string) (string, error) {
	uid, err := uc.authProvider.VerifyToken(ctx, token)
	if err != nil {
		return "", errors.Unauthorized("Invalid or expired token", err)
	}
	return uid, nil
}
