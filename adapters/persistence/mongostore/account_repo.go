package mongostore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/khoahotran/devconnect/internal/domain/account"
)

type accountRemover struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewAccountRemover needs a replica set or sharded cluster: the cascade runs in a
// multi-document transaction.
func NewAccountRemover(client *mongo.Client, db *mongo.Database) account.Remover {
	return &accountRemover{client: client, db: db}
}

func (r *accountRemover) RemoveAccount(ctx context.Context, userID uuid.UUID) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.db.Collection(postsCollection).DeleteMany(sc, bson.M{"user_id": userID}); err != nil {
			return nil, fmt.Errorf("failed to delete posts: %w", err)
		}
		if _, err := r.db.Collection(profilesCollection).DeleteOne(sc, bson.M{"user_id": userID}); err != nil {
			return nil, fmt.Errorf("failed to delete profile: %w", err)
		}
		if _, err := r.db.Collection(usersCollection).DeleteOne(sc, bson.M{"_id": userID}); err != nil {
			return nil, fmt.Errorf("failed to delete user: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("cascade delete failed: %w", err)
	}
	return nil
}
