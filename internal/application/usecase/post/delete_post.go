package post

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnect/internal/domain/post"
	"github.com/khoahotran/devconnect/pkg/apperror"
	"github.com/khoahotran/devconnect/pkg/logger"
)

type DeletePostUseCase struct {
	postRepo post.Repository
	logger   logger.Logger
}

func NewDeletePostUseCase(pRepo post.Repository, log logger.Logger) *DeletePostUseCase {
	return &DeletePostUseCase{postRepo: pRepo, logger: log}
}

type DeletePostInput struct {
	PostID uuid.UUID
	UserID uuid.UUID
}

// Execute only lets the author delete a post.
func (uc *DeletePostUseCase) Execute(ctx context.Context, input DeletePostInput) error {
	ctx, span := tracer.Start(ctx, "DeletePost")
	defer span.End()
	span.SetAttributes(attribute.String("post_id", input.PostID.String()), attribute.String("user_id", input.UserID.String()))

	p, err := uc.postRepo.FindByID(ctx, input.PostID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, post.ErrPostNotFound) {
			return apperror.NewNotFound("Post not found", input.PostID.String())
		}
		uc.logger.Error("Failed to load post", err, zap.String("post_id", input.PostID.String()))
		return apperror.NewInternal("find post", err)
	}

	if p.UserID != input.UserID {
		err := apperror.NewPermissionDenied("post belongs to another user")
		span.RecordError(err)
		return err
	}

	if err := uc.postRepo.Delete(ctx, input.PostID); err != nil {
		span.RecordError(err)
		if errors.Is(err, post.ErrPostNotFound) {
			return apperror.NewNotFound("Post not found", input.PostID.String())
		}
		uc.logger.Error("Failed to delete post", err, zap.String("post_id", input.PostID.String()))
		return apperror.NewInternal("delete post", err)
	}
	return nil
}
