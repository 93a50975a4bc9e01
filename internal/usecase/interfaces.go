package usecase

import "context"

// AuthProvider abstracts the identity backend so usecases can be tested
// without a Firebase project.
type AuthProvider interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	VerifyToken(ctx context.Context, token string) (string, error)
	GenerateToken(ctx context.Context, uid string) (string, error)
	DeleteUser(ctx context.Context, uid string) error
}
