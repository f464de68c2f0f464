package post

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrPostNotFound = errors.New("post not found")

// Post keeps a snapshot of the author's name and avatar taken at creation time.
type Post struct {
	ID        uuid.UUID `json:"id" bson:"_id"`
	UserID    uuid.UUID `json:"user_id" bson:"user_id"`
	Text      string    `json:"text" bson:"text"`
	Name      string    `json:"name" bson:"name"`
	Avatar    string    `json:"avatar" bson:"avatar"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type Repository interface {
	Save(ctx context.Context, post *Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*Post, error)
	List(ctx context.Context) ([]*Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
