package post

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnect/internal/domain/post"
	"github.com/khoahotran/devconnect/internal/domain/user"
	"github.com/khoahotran/devconnect/pkg/apperror"
	"github.com/khoahotran/devconnect/pkg/logger"
)

var tracer = otel.Tracer("post_usecase")

type CreatePostUseCase struct {
	postRepo post.Repository
	userRepo user.Repository
	logger   logger.Logger
}

func NewCreatePostUseCase(pRepo post.Repository, uRepo user.Repository, log logger.Logger) *CreatePostUseCase {
	return &CreatePostUseCase{
		postRepo: pRepo,
		userRepo: uRepo,
		logger:   log,
	}
}

type CreatePostInput struct {
	UserID uuid.UUID
	Text   string
}

// Execute snapshots the author's current name and avatar onto the post.
func (uc *CreatePostUseCase) Execute(ctx context.Context, input CreatePostInput) (*post.Post, error) {
	ctx, span := tracer.Start(ctx, "CreatePost")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", input.UserID.String()))

	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, apperror.NewValidation(apperror.FieldError{Msg: "Text is required", Param: "text"})
	}

	author, err := uc.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, apperror.NewNotFound("User not found", input.UserID.String())
		}
		uc.logger.Error("Failed to load post author", err, zap.String("user_id", input.UserID.String()))
		return nil, apperror.NewInternal("find user", err)
	}

	p := &post.Post{
		ID:        uuid.New(),
		UserID:    author.ID,
		Text:      text,
		Name:      author.Name,
		Avatar:    author.Avatar,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.postRepo.Save(ctx, p); err != nil {
		span.RecordError(err)
		uc.logger.Error("Failed to save post", err, zap.String("user_id", input.UserID.String()))
		return nil, apperror.NewInternal("save post", err)
	}
	return p, nil
}
