package user

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

type User struct {
	ID           uuid.UUID `json:"_id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Avatar       string    `json:"avatar" bson:"avatar"`
	CreatedAt    time.Time `json:"date" bson:"created_at"`
}

// AvatarFolder is the media-storage folder uploaded avatars live in.
const AvatarFolder = "devconnect/avatars"

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GravatarURL is the default avatar for a new account: 200px, pg-rated, mystery-person fallback.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(NormalizeEmail(email)))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=200&r=pg&d=mm", hex.EncodeToString(sum[:]))
}

// AvatarPublicID is the full media-storage id of the user's uploaded avatar.
func AvatarPublicID(id uuid.UUID) string {
	return AvatarFolder + "/" + id.String()
}

type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	UpdateAvatar(ctx context.Context, id uuid.UUID, avatar string) error
}
