package mongostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/khoahotran/devconnect/internal/domain/user"
)

type userRepo struct {
	coll *mongo.Collection
}

func NewUserRepo(db *mongo.Database) user.Repository {
	return &userRepo{coll: db.Collection(usersCollection)}
}

func (r *userRepo) Create(ctx context.Context, u *user.User) error {
	u.Email = user.NormalizeEmail(u.Email)
	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.ErrEmailTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *userRepo) findOne(ctx context.Context, filter bson.M) (*user.User, error) {
	var u user.User
	if err := r.coll.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("error when query user: %w", err)
	}
	return &u, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, bson.M{"email": user.NormalizeEmail(email)})
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userRepo) UpdateAvatar(ctx context.Context, id uuid.UUID, avatar string) error {
	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{"avatar": avatar}})
	if err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}
	if res.MatchedCount == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
