package profile

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/khoahotran/devconnect/internal/domain/profile"
	"github.com/khoahotran/devconnect/pkg/apperror"
)

type AddExperienceInput struct {
	UserID uuid.UUID
	Entry  profile.ExperienceEntry
}

type AddEducationInput struct {
	UserID uuid.UUID
	Entry  profile.EducationEntry
}

type RemoveEntryInput struct {
	UserID  uuid.UUID
	EntryID uuid.UUID
}

func required(fields []apperror.FieldError, ok bool, msg, param string) []apperror.FieldError {
	if ok {
		return fields
	}
	return append(fields, apperror.FieldError{Msg: msg, Param: param})
}

func validateExperience(e profile.ExperienceEntry) error {
	var fields []apperror.FieldError
	fields = required(fields, e.Title != "", "Title is required", "title")
	fields = required(fields, e.Company != "", "Company is required", "company")
	fields = required(fields, !e.From.IsZero(), "From date is required", "from")
	if len(fields) > 0 {
		return apperror.NewValidation(fields...)
	}
	return nil
}

func validateEducation(e profile.EducationEntry) error {
	var fields []apperror.FieldError
	fields = required(fields, e.School != "", "School is required", "school")
	fields = required(fields, e.Degree != "", "Degree is required", "degree")
	fields = required(fields, e.FieldOfStudy != "", "Field of study is required", "fieldofstudy")
	fields = required(fields, !e.From.IsZero(), "From date is required", "from")
	if len(fields) > 0 {
		return apperror.NewValidation(fields...)
	}
	return nil
}

func (uc *ProfileUseCase) AddExperience(ctx context.Context, input AddExperienceInput) (*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "AddExperience")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", input.UserID.String()))

	if err := validateExperience(input.Entry); err != nil {
		span.RecordError(err)
		return nil, err
	}

	p, err := uc.mutate(ctx, input.UserID, func(p *profile.Profile) {
		added := p.AddExperience(input.Entry)
		span.SetAttributes(attribute.String("entry_id", added.ID.String()))
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return p, nil
}

// RemoveExperience answers with the unchanged profile when no entry has the id.
func (uc *ProfileUseCase) RemoveExperience(ctx context.Context, input RemoveEntryInput) (*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "RemoveExperience")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", input.UserID.String()), attribute.String("entry_id", input.EntryID.String()))

	p, err := uc.mutate(ctx, input.UserID, func(p *profile.Profile) {
		span.SetAttributes(attribute.Bool("removed", p.RemoveExperience(input.EntryID)))
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return p, nil
}

func (uc *ProfileUseCase) AddEducation(ctx context.Context, input AddEducationInput) (*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "AddEducation")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", input.UserID.String()))

	if err := validateEducation(input.Entry); err != nil {
		span.RecordError(err)
		return nil, err
	}

	p, err := uc.mutate(ctx, input.UserID, func(p *profile.Profile) {
		added := p.AddEducation(input.Entry)
		span.SetAttributes(attribute.String("entry_id", added.ID.String()))
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return p, nil
}

func (uc *ProfileUseCase) RemoveEducation(ctx context.Context, input RemoveEntryInput) (*profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "RemoveEducation")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", input.UserID.String()), attribute.String("entry_id", input.EntryID.String()))

	p, err := uc.mutate(ctx, input.UserID, func(p *profile.Profile) {
		span.SetAttributes(attribute.Bool("removed", p.RemoveEducation(input.EntryID)))
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return p, nil
}
