package profile

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnect/internal/application/service"
	"github.com/khoahotran/devconnect/internal/domain/profile"
	"github.com/khoahotran/devconnect/pkg/apperror"
	"github.com/khoahotran/devconnect/pkg/logger"
)

const (
	msgNoProfile       = "There is no profile for this user"
	msgProfileNotFound = "Profile not found"
)

var tracer = otel.Tracer("profile_usecase")

// ProfileUseCase loads a profile, mutates it through the domain rules and writes
// the whole document back. The cycle is not serialized: two requests mutating the
// same profile concurrently resolve last-write-wins.
type ProfileUseCase struct {
	profileRepo profile.Repository
	publisher   service.EventPublisher
	logger      logger.Logger
	now         func() time.Time
}

func NewProfileUseCase(repo profile.Repository, publisher service.EventPublisher, log logger.Logger) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: repo,
		publisher:   publisher,
		logger:      log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (uc *ProfileUseCase) storageError(action string, err error) error {
	uc.logger.Error("Profile storage failure", err, zap.String("action", action))
	return apperror.NewInternal(action, err)
}

// load returns NotFound with msg when the user has no profile.
func (uc *ProfileUseCase) load(ctx context.Context, userID uuid.UUID, msg string) (*profile.Profile, error) {
	p, err := uc.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return nil, apperror.NewNotFound(msg, userID.String())
		}
		return nil, uc.storageError("find profile", err)
	}
	return p, nil
}

// reload re-reads after a write so the response carries the joined owner.
func (uc *ProfileUseCase) reload(ctx context.Context, p *profile.Profile) *profile.Profile {
	fresh, err := uc.profileRepo.FindByUserID(ctx, p.UserID)
	if err != nil {
		uc.logger.Warn("Failed to reload profile after write", zap.String("user_id", p.UserID.String()), zap.Error(err))
		return p
	}
	return fresh
}

func (uc *ProfileUseCase) GetMine(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "GetMine")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", userID.String()))

	p, err := uc.load(ctx, userID, msgNoProfile)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return p, nil
}

func (uc *ProfileUseCase) GetByUser(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "GetByUser")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", userID.String()))

	p, err := uc.load(ctx, userID, msgProfileNotFound)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return p, nil
}

func (uc *ProfileUseCase) List(ctx context.Context) ([]*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "List")
	defer span.End()

	profiles, err := uc.profileRepo.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, uc.storageError("list profiles", err)
	}
	return profiles, nil
}

type UpsertInput struct {
	UserID uuid.UUID
	Fields profile.Fields
}

func validateUpsert(f profile.Fields) error {
	var fields []apperror.FieldError
	if f.Status == nil || *f.Status == "" {
		fields = append(fields, apperror.FieldError{Msg: "Status is required", Param: "status"})
	}
	if f.Skills == nil || len(profile.ParseSkills(*f.Skills)) == 0 {
		fields = append(fields, apperror.FieldError{Msg: "Skills is required", Param: "skills"})
	}
	if len(fields) > 0 {
		return apperror.NewValidation(fields...)
	}
	return nil
}

// Upsert creates the caller's profile on first use and partially merges into it afterwards.
func (uc *ProfileUseCase) Upsert(ctx context.Context, input UpsertInput) (*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "Upsert")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", input.UserID.String()))

	if err := validateUpsert(input.Fields); err != nil {
		span.RecordError(err)
		return nil, err
	}

	now := uc.now()
	p, err := uc.profileRepo.FindByUserID(ctx, input.UserID)
	switch {
	case errors.Is(err, profile.ErrProfileNotFound):
		p = profile.New(input.UserID, now)
		span.SetAttributes(attribute.Bool("created", true))
	case err != nil:
		span.RecordError(err)
		return nil, uc.storageError("find profile", err)
	}

	p.Apply(input.Fields, now)

	if err := uc.profileRepo.Save(ctx, p); err != nil {
		span.RecordError(err)
		return nil, uc.storageError("save profile", err)
	}

	uc.publish(service.ProfileEvent{
		EventType:      service.ProfileEventUpserted,
		UserID:         p.UserID,
		GitHubUsername: p.GitHubUsername,
		OccurredAt:     now,
	})
	return uc.reload(ctx, p), nil
}

// mutate runs fn against the stored profile and writes the result back.
func (uc *ProfileUseCase) mutate(ctx context.Context, userID uuid.UUID, fn func(p *profile.Profile)) (*profile.Profile, error) {
	p, err := uc.load(ctx, userID, msgNoProfile)
	if err != nil {
		return nil, err
	}

	fn(p)
	p.UpdatedAt = uc.now()

	if err := uc.profileRepo.Save(ctx, p); err != nil {
		return nil, uc.storageError("save profile", err)
	}
	return uc.reload(ctx, p), nil
}

func (uc *ProfileUseCase) publish(evt service.ProfileEvent) {
	go func() {
		if err := uc.publisher.PublishProfileEvent(context.Background(), evt); err != nil {
			uc.logger.Error("Failed to publish profile event", err,
				zap.String("event_type", string(evt.EventType)),
				zap.String("user_id", evt.UserID.String()))
		}
	}()
}
