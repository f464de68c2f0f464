package post

import (
	"context"

	"github.com/khoahotran/devconnect/internal/domain/post"
	"github.com/khoahotran/devconnect/pkg/apperror"
	"github.com/khoahotran/devconnect/pkg/logger"
)

type ListPostsUseCase struct {
	postRepo post.Repository
	logger   logger.Logger
}

func NewListPostsUseCase(pRepo post.Repository, log logger.Logger) *ListPostsUseCase {
	return &ListPostsUseCase{postRepo: pRepo, logger: log}
}

// Execute returns every post, newest first.
func (uc *ListPostsUseCase) Execute(ctx context.Context) ([]*post.Post, error) {
	ctx, span := tracer.Start(ctx, "ListPosts")
	defer span.End()

	posts, err := uc.postRepo.List(ctx)
	if err != nil {
		span.RecordError(err)
		uc.logger.Error("Failed to list posts", err)
		return nil, apperror.NewInternal("list posts", err)
	}
	return posts, nil
}
