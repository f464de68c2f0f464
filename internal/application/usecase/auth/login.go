package auth

import (
	"context"
	"errors"

	"github.com/khoahotran/devconnect/internal/domain/user"
	"github.com/khoahotran/devconnect/pkg/apperror"
	"github.com/khoahotran/devconnect/pkg/auth"
	"github.com/khoahotran/devconnect/pkg/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const msgInvalidCredentials = "Invalid Credentials"

type LoginUseCase struct {
	userRepo user.Repository
	jwtSvc   *auth.JWTService
	logger   logger.Logger
}

func NewLoginUseCase(repo user.Repository, jwtSvc *auth.JWTService, log logger.Logger) *LoginUseCase {
	return &LoginUseCase{
		userRepo: repo,
		jwtSvc:   jwtSvc,
		logger:   log,
	}
}

type LoginInput struct {
	Email    string
	Password string
}

type TokenOutput struct {
	Token string `json:"token"`
}

var tracer = otel.Tracer("auth_usecase")

// Execute answers the same way for an unknown email and a wrong password.
func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*TokenOutput, error) {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	u, err := uc.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			err = apperror.NewValidation(apperror.FieldError{Msg: msgInvalidCredentials})
			span.RecordError(err)
			return nil, err
		}
		uc.logger.Error("Failed to load user for login", err)
		span.RecordError(err)
		return nil, apperror.NewInternal("find user", err)
	}

	if !auth.CheckPasswordHash(input.Password, u.PasswordHash) {
		err := apperror.NewValidation(apperror.FieldError{Msg: msgInvalidCredentials})
		span.RecordError(err)
		return nil, err
	}

	token, err := uc.jwtSvc.GenerateToken(u.ID)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("user_id", u.ID.String()))
		err = apperror.NewInternal("failed to generate token", err)
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("user_id", u.ID.String()))
	return &TokenOutput{Token: token}, nil
}
