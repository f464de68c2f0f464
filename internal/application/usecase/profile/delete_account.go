package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnect/internal/application/service"
	"github.com/khoahotran/devconnect/internal/domain/account"
	"github.com/khoahotran/devconnect/internal/domain/profile"
	"github.com/khoahotran/devconnect/internal/domain/user"
	"github.com/khoahotran/devconnect/pkg/apperror"
	"github.com/khoahotran/devconnect/pkg/logger"
)

type DeleteAccountUseCase struct {
	remover     account.Remover
	profileRepo profile.Repository
	publisher   service.EventPublisher
	logger      logger.Logger
}

func NewDeleteAccountUseCase(remover account.Remover, repo profile.Repository, publisher service.EventPublisher, log logger.Logger) *DeleteAccountUseCase {
	return &DeleteAccountUseCase{
		remover:     remover,
		profileRepo: repo,
		publisher:   publisher,
		logger:      log,
	}
}

// Execute removes the user's posts, profile and user record as one unit. Nothing is
// deleted when it fails. Cleanup of the avatar asset and cached repos is handed to
// the worker through an account.deleted event.
func (uc *DeleteAccountUseCase) Execute(ctx context.Context, userID uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "DeleteAccount")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", userID.String()))

	var githubUsername string
	p, err := uc.profileRepo.FindByUserID(ctx, userID)
	switch {
	case err == nil:
		githubUsername = p.GitHubUsername
	case !errors.Is(err, profile.ErrProfileNotFound):
		uc.logger.Warn("Failed to read profile before account deletion", zap.String("user_id", userID.String()), zap.Error(err))
	}

	if err := uc.remover.RemoveAccount(ctx, userID); err != nil {
		span.RecordError(err)
		uc.logger.Error("Account deletion rolled back", err, zap.String("user_id", userID.String()))
		return apperror.NewInternal("remove account", err)
	}

	evt := service.ProfileEvent{
		EventType:      service.ProfileEventAccountDeleted,
		UserID:         userID,
		GitHubUsername: githubUsername,
		AvatarPublicID: user.AvatarPublicID(userID),
		OccurredAt:     time.Now().UTC(),
	}
	go func() {
		if err := uc.publisher.PublishProfileEvent(context.Background(), evt); err != nil {
			uc.logger.Error("Failed to publish account.deleted event", err, zap.String("user_id", userID.String()))
		}
	}()
	return nil
}
