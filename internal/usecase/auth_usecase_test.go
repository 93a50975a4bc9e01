package usecase

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tradepost/pkg/errors"
)

type fakeAuthProvider struct {
	seq        int
	deleted    []string
	failCreate bool
}

func (f *fakeAuthProvider) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	if f.failCreate {
		return "", errors.New("identity backend down")
	}
	f.seq++
	return "uid-" + strconv.Itoa(f.seq), nil
}

func (f *fakeAuthProvider) VerifyToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", errors.New("empty token")
	}
	return "uid-" + token, nil
}

func (f *fakeAuthProvider) GenerateToken(ctx context.Context, uid string) (string, error) {
	return "token-for-" + uid, nil
}

func (f *fakeAuthProvider) DeleteUser(ctx context.Context, uid string) error {
	f.deleted = append(f.deleted, uid)
	return nil
}

func TestRegisterCreatesPendingProfile(t *testing.T) {
	provider := &fakeAuthProvider{}
	users := newMemUserRepo()
	uc := NewAuthUseCase(provider, users)

	result, err := uc.Register(context.Background(), RegisterInput{
		Email:    "sam@example.com",
		Password: "long-enough",
		Username: "sam",
	})
	require.NoError(t, err)

	assert.Equal(t, "token-for-uid-1", result.Token)
	assert.Equal(t, "pending", result.User.Status)
	assert.Equal(t, "user", result.User.Role)

	stored, err := users.GetByID(context.Background(), result.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "sam@example.com", stored.Email)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	provider := &fakeAuthProvider{}
	users := newMemUserRepo()
	uc := NewAuthUseCase(provider, users)

	input := RegisterInput{Email: "sam@example.com", Password: "long-enough", Username: "sam"}

	_, err := uc.Register(context.Background(), input)
	require.NoError(t, err)

	_, err = uc.Register(context.Background(), input)
	assert.True(t, apperrors.Is(err, "BAD_REQUEST"))
}

func TestRegisterFailsWhenProviderDown(t *testing.T) {
	provider := &fakeAuthProvider{failCreate: true}
	uc := NewAuthUseCase(provider, newMemUserRepo())

	_, err := uc.Register(context.Background(), RegisterInput{
		Email: "sam@example.com", Password: "long-enough", Username: "sam",
	})
	assert.True(t, apperrors.Is(err, "INTERNAL_ERROR"))
}

func TestAuthenticate(t *testing.T) {
	provider := &fakeAuthProvider{}
	users := newMemUserRepo()
	uc := NewAuthUseCase(provider, users)

	result, err := uc.Register(context.Background(), RegisterInput{
		Email: "sam@example.com", Password: "long-enough", Username: "sam",
	})
	require.NoError(t, err)

	// The fake maps token "1" to "uid-1".
	user, err := uc.Authenticate(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, user.ID)

	_, err = uc.Authenticate(context.Background(), "")
	assert.True(t, apperrors.Is(err, "UNAUTHORIZED"))
}
