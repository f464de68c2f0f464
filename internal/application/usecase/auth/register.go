package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnect/internal/domain/user"
	"github.com/khoahotran/devconnect/pkg/apperror"
	"github.com/khoahotran/devconnect/pkg/auth"
	"github.com/khoahotran/devconnect/pkg/logger"
)

const msgUserExists = "User already exists"

type RegisterUseCase struct {
	userRepo user.Repository
	jwtSvc   *auth.JWTService
	logger   logger.Logger
}

func NewRegisterUseCase(repo user.Repository, jwtSvc *auth.JWTService, log logger.Logger) *RegisterUseCase {
	return &RegisterUseCase{
		userRepo: repo,
		jwtSvc:   jwtSvc,
		logger:   log,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Execute creates the account with a Gravatar default avatar and signs the caller in.
func (uc *RegisterUseCase) Execute(ctx context.Context, input RegisterInput) (*TokenOutput, error) {
	ctx, span := tracer.Start(ctx, "Register")
	defer span.End()

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("hash password", err)
	}

	u := &user.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        user.NormalizeEmail(input.Email),
		PasswordHash: hash,
		Avatar:       user.GravatarURL(input.Email),
		CreatedAt:    time.Now().UTC(),
	}

	if err := uc.userRepo.Create(ctx, u); err != nil {
		span.RecordError(err)
		if errors.Is(err, user.ErrEmailTaken) {
			return nil, apperror.NewConflict(msgUserExists, u.Email)
		}
		uc.logger.Error("Failed to create user", err)
		return nil, apperror.NewInternal("create user", err)
	}
	span.SetAttributes(attribute.String("user_id", u.ID.String()))

	token, err := uc.jwtSvc.GenerateToken(u.ID)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("user_id", u.ID.String()))
		return nil, apperror.NewInternal("failed to generate token", err)
	}
	return &TokenOutput{Token: token}, nil
}
