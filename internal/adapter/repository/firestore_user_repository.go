package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
	"tradepost/pkg/errors"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	if _, err := r.client.Collection("users").Doc(user.ID).Set(ctx, user); err != nil {
		return storeErr("Failed to create user", err)
	}
	return nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.client.Collection("users").Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.Internal("Failed to get user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	user.ID = doc.Ref.ID

	return &user, nil
}

func (r *firestoreUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	iter := r.client.Collection("users").Where("email", "==", email).Limit(1).Documents(ctx)
	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("User", nil)
	}
	if err != nil {
		return nil, errors.Internal("Failed to query user by email", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	user.ID = doc.Ref.ID

	return &user, nil
}

func (r *firestoreUserRepository) Update(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now()
	if _, err := r.client.Collection("users").Doc(user.ID).Set(ctx, user); err != nil {
		return storeErr("Failed to update user", err)
	}
	return nil
}

func (r *firestoreUserRepository) UpdateLastSeen(ctx context.Context, id string, lastSeen time.Time) error {
	_, err := r.client.Collection("users").Doc(id).Update(ctx, []firestore.Update{
		{Path: "lastSeen", Value: lastSeen},
	})
	if err != nil {
		return storeErr("Failed to update last seen", err)
	}
	return nil
}

func (r *firestoreUserRepository) List(ctx context.Context, status string, limit, offset int) ([]*entity.User, int64, error) {
	query := r.client.Collection("users").Query
	if status != "" {
		query = query.Where("status", "==", status)
	}

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count users", err)
	}
	total := int64(len(countDocs))

	iter := query.OrderBy("createdAt", firestore.Desc).Offset(offset).Limit(limit).Documents(ctx)

	var users []*entity.User
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate users", err)
		}

		var user entity.User
		if err := doc.DataTo(&user); err != nil {
			return nil, 0, errors.Internal("Failed to parse user data", err)
		}
		user.ID = doc.Ref.ID
		users = append(users, &user)
	}

	return users, total, nil
}

func (r *firestoreUserRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.Collection("users").Doc(id).Delete(ctx); err != nil {
		return storeErr("Failed to delete user", err)
	}
	return nil
}
