package auth

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnect/internal/application/service"
	"github.com/khoahotran/devconnect/internal/domain/user"
	"github.com/khoahotran/devconnect/pkg/apperror"
	"github.com/khoahotran/devconnect/pkg/logger"
)

type UserUseCase struct {
	userRepo user.Repository
	uploader service.Uploader
	logger   logger.Logger
}

// NewUserUseCase accepts a nil uploader; avatar uploads then fail as a server error.
func NewUserUseCase(repo user.Repository, uploader service.Uploader, log logger.Logger) *UserUseCase {
	return &UserUseCase{
		userRepo: repo,
		uploader: uploader,
		logger:   log,
	}
}

// Current returns the authenticated user. A token can outlive its account, which
// is reported as NotFound.
func (uc *UserUseCase) Current(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	ctx, span := tracer.Start(ctx, "CurrentUser")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", userID.String()))

	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, apperror.NewNotFound("User not found", userID.String())
		}
		uc.logger.Error("Failed to load user", err, zap.String("user_id", userID.String()))
		return nil, apperror.NewInternal("find user", err)
	}
	return u, nil
}

type UploadAvatarInput struct {
	UserID uuid.UUID
	File   io.Reader
}

// UploadAvatar stores the image under a per-user public id, so a new upload
// replaces the old asset, then points the user's avatar at it.
func (uc *UserUseCase) UploadAvatar(ctx context.Context, input UploadAvatarInput) (*user.User, error) {
	ctx, span := tracer.Start(ctx, "UploadAvatar")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", input.UserID.String()))

	if uc.uploader == nil {
		return nil, apperror.NewInternal("media storage not configured", nil)
	}

	if _, err := uc.Current(ctx, input.UserID); err != nil {
		return nil, err
	}

	url, err := uc.uploader.Upload(ctx, input.File, user.AvatarFolder, input.UserID.String())
	if err != nil {
		span.RecordError(err)
		uc.logger.Error("Failed to upload avatar", err, zap.String("user_id", input.UserID.String()))
		return nil, apperror.NewInternal("upload avatar", err)
	}

	if err := uc.userRepo.UpdateAvatar(ctx, input.UserID, url); err != nil {
		span.RecordError(err)
		go func() {
			if err := uc.uploader.Delete(context.Background(), user.AvatarPublicID(input.UserID)); err != nil {
				uc.logger.Warn("Failed to delete orphaned avatar", zap.Error(err))
			}
		}()
		return nil, apperror.NewInternal("update avatar", err)
	}

	return uc.Current(ctx, input.UserID)
}
