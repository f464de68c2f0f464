package mongostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/khoahotran/devconnect/internal/domain/post"
)

type postRepo struct {
	coll *mongo.Collection
}

func NewPostRepo(db *mongo.Database) post.Repository {
	return &postRepo{coll: db.Collection(postsCollection)}
}

func (r *postRepo) Save(ctx context.Context, p *post.Post) error {
	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

func (r *postRepo) FindByID(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	var p post.Post
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, post.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to query post: %w", err)
	}
	return &p, nil
}

func (r *postRepo) List(ctx context.Context) ([]*post.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer cur.Close(ctx)

	posts := make([]*post.Post, 0)
	for cur.Next(ctx) {
		var p post.Post
		if err := cur.Decode(&p); err != nil {
			return nil, fmt.Errorf("failed to decode post: %w", err)
		}
		posts = append(posts, &p)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}
	return posts, nil
}

func (r *postRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return post.ErrPostNotFound
	}
	return nil
}
