package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/devconnect/internal/application/service"
	"github.com/khoahotran/devconnect/internal/domain/post"
	"github.com/khoahotran/devconnect/internal/domain/profile"
	"github.com/khoahotran/devconnect/internal/domain/user"
	"github.com/khoahotran/devconnect/internal/testutil/memory"
	"github.com/khoahotran/devconnect/pkg/apperror"
	"github.com/khoahotran/devconnect/pkg/logger"
)

type fixture struct {
	store     *memory.Store
	publisher *memory.Publisher
	uc        *ProfileUseCase
	owner     *user.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	publisher := memory.NewPublisher()
	owner := &user.User{ID: uuid.New(), Name: "Ada", Email: "ada@example.com", Avatar: "a.png", CreatedAt: time.Now()}
	require.NoError(t, store.Users().Create(context.Background(), owner))
	return &fixture{
		store:     store,
		publisher: publisher,
		uc:        NewProfileUseCase(store.Profiles(), publisher, logger.NewNopLogger()),
		owner:     owner,
	}
}

func baseFields() profile.Fields {
	return profile.Fields{
		Status: profile.StringField("Developer"),
		Skills: profile.StringField("node, react ,  css"),
	}
}

func (f *fixture) seedProfile(t *testing.T) *profile.Profile {
	t.Helper()
	p, err := f.uc.Upsert(context.Background(), UpsertInput{UserID: f.owner.ID, Fields: baseFields()})
	require.NoError(t, err)
	return p
}

func TestUpsert_CreatesThenMerges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := f.seedProfile(t)
	assert.Equal(t, []string{"node", "react", "css"}, created.Skills)
	require.NotNil(t, created.Owner)
	assert.Equal(t, "Ada", created.Owner.Name)

	withBio := baseFields()
	withBio.Bio = profile.StringField("x")
	_, err := f.uc.Upsert(ctx, UpsertInput{UserID: f.owner.ID, Fields: withBio})
	require.NoError(t, err)
	_, err = f.uc.Upsert(ctx, UpsertInput{UserID: f.owner.ID, Fields: withBio})
	require.NoError(t, err)

	withCompany := baseFields()
	withCompany.Company = profile.StringField("y")
	merged, err := f.uc.Upsert(ctx, UpsertInput{UserID: f.owner.ID, Fields: withCompany})
	require.NoError(t, err)

	assert.Equal(t, created.ID, merged.ID, "one profile per user")
	assert.Equal(t, "x", merged.Bio)
	assert.Equal(t, "y", merged.Company)
	assert.Equal(t, "Developer", merged.Status)

	all, err := f.uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpsert_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fields := baseFields()
	fields.Social = map[profile.SocialPlatform]*string{profile.YouTube: profile.StringField("https://youtube.com/ada")}

	first, err := f.uc.Upsert(ctx, UpsertInput{UserID: f.owner.ID, Fields: fields})
	require.NoError(t, err)
	second, err := f.uc.Upsert(ctx, UpsertInput{UserID: f.owner.ID, Fields: fields})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Skills, second.Skills)
	assert.Equal(t, first.Social, second.Social)
	assert.Equal(t, first.Status, second.Status)
}

func TestUpsert_RequiresStatusAndSkills(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Upsert(context.Background(), UpsertInput{
		UserID: f.owner.ID,
		Fields: profile.Fields{Skills: profile.StringField(" , ")},
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	assert.Equal(t, []apperror.FieldError{
		{Msg: "Status is required", Param: "status"},
		{Msg: "Skills is required", Param: "skills"},
	}, appErr.Fields)

	_, err = f.store.Profiles().FindByUserID(context.Background(), f.owner.ID)
	assert.ErrorIs(t, err, profile.ErrProfileNotFound, "validation runs before any write")
}

func TestUpsert_PublishesEvent(t *testing.T) {
	f := newFixture(t)
	fields := baseFields()
	fields.GitHubUsername = profile.StringField("ada")

	_, err := f.uc.Upsert(context.Background(), UpsertInput{UserID: f.owner.ID, Fields: fields})
	require.NoError(t, err)

	events := f.publisher.Wait(1, time.Second)
	require.Len(t, events, 1)
	assert.Equal(t, service.ProfileEventUpserted, events[0].EventType)
	assert.Equal(t, "ada", events[0].GitHubUsername)
	assert.Equal(t, f.owner.ID, events[0].UserID)
}

func TestUpsert_PublishFailureIsNotSurfaced(t *testing.T) {
	f := newFixture(t)
	f.publisher.Err = errors.New("broker down")

	_, err := f.uc.Upsert(context.Background(), UpsertInput{UserID: f.owner.ID, Fields: baseFields()})
	assert.NoError(t, err)
	f.publisher.Wait(1, time.Second)
}

func TestGetMine_NoProfile(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.GetMine(context.Background(), f.owner.ID)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, "There is no profile for this user", appErr.Message)
}

func TestGetByUser(t *testing.T) {
	f := newFixture(t)
	f.seedProfile(t)

	p, err := f.uc.GetByUser(context.Background(), f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, f.owner.ID, p.UserID)

	_, err = f.uc.GetByUser(context.Background(), uuid.New())
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Profile not found", appErr.Message)
}

func TestExperience_HeadInsertAndRemove(t *testing.T) {
	f := newFixture(t)
	f.seedProfile(t)
	ctx := context.Background()
	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.AddExperience(ctx, AddExperienceInput{UserID: f.owner.ID, Entry: profile.ExperienceEntry{Title: "A", Company: "Acme", From: from}})
	require.NoError(t, err)
	p, err := f.uc.AddExperience(ctx, AddExperienceInput{UserID: f.owner.ID, Entry: profile.ExperienceEntry{Title: "B", Company: "Acme", From: from}})
	require.NoError(t, err)
	require.Len(t, p.Experience, 2)
	assert.Equal(t, "B", p.Experience[0].Title)
	assert.Equal(t, "A", p.Experience[1].Title)

	unchanged, err := f.uc.RemoveExperience(ctx, RemoveEntryInput{UserID: f.owner.ID, EntryID: uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, p.Experience, unchanged.Experience)

	after, err := f.uc.RemoveExperience(ctx, RemoveEntryInput{UserID: f.owner.ID, EntryID: p.Experience[0].ID})
	require.NoError(t, err)
	require.Len(t, after.Experience, 1)
	assert.Equal(t, "A", after.Experience[0].Title)
}

func TestExperience_Validation(t *testing.T) {
	f := newFixture(t)
	f.seedProfile(t)

	_, err := f.uc.AddExperience(context.Background(), AddExperienceInput{UserID: f.owner.ID, Entry: profile.ExperienceEntry{Company: "Acme"}})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, []apperror.FieldError{
		{Msg: "Title is required", Param: "title"},
		{Msg: "From date is required", Param: "from"},
	}, appErr.Fields)
}

func TestSubRecords_WithoutProfileIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.RemoveExperience(ctx, RemoveEntryInput{UserID: f.owner.ID, EntryID: uuid.New()})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.uc.AddEducation(ctx, AddEducationInput{UserID: f.owner.ID, Entry: profile.EducationEntry{
		School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: time.Now(),
	}})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestEducation_AddRemoveAndValidation(t *testing.T) {
	f := newFixture(t)
	f.seedProfile(t)
	ctx := context.Background()

	_, err := f.uc.AddEducation(ctx, AddEducationInput{UserID: f.owner.ID, Entry: profile.EducationEntry{School: "MIT"}})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Len(t, appErr.Fields, 3)

	p, err := f.uc.AddEducation(ctx, AddEducationInput{UserID: f.owner.ID, Entry: profile.EducationEntry{
		School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: time.Now(),
	}})
	require.NoError(t, err)
	require.Len(t, p.Education, 1)

	p, err = f.uc.RemoveEducation(ctx, RemoveEntryInput{UserID: f.owner.ID, EntryID: p.Education[0].ID})
	require.NoError(t, err)
	assert.Empty(t, p.Education)
}

func TestDeleteAccount_Cascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fields := baseFields()
	fields.GitHubUsername = profile.StringField("ada")
	_, err := f.uc.Upsert(ctx, UpsertInput{UserID: f.owner.ID, Fields: fields})
	require.NoError(t, err)
	f.publisher.Wait(1, time.Second)

	mine := &post.Post{ID: uuid.New(), UserID: f.owner.ID, Text: "hi", CreatedAt: time.Now()}
	require.NoError(t, f.store.Posts().Save(ctx, mine))

	uc := NewDeleteAccountUseCase(f.store, f.store.Profiles(), f.publisher, logger.NewNopLogger())
	require.NoError(t, uc.Execute(ctx, f.owner.ID))

	_, err = f.store.Users().FindByID(ctx, f.owner.ID)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	_, err = f.store.Profiles().FindByUserID(ctx, f.owner.ID)
	assert.ErrorIs(t, err, profile.ErrProfileNotFound)
	_, err = f.store.Posts().FindByID(ctx, mine.ID)
	assert.ErrorIs(t, err, post.ErrPostNotFound)

	events := f.publisher.Wait(2, time.Second)
	require.Len(t, events, 2)
	deleted := events[1]
	assert.Equal(t, service.ProfileEventAccountDeleted, deleted.EventType)
	assert.Equal(t, "ada", deleted.GitHubUsername)
	assert.Equal(t, user.AvatarPublicID(f.owner.ID), deleted.AvatarPublicID)
}

func TestDeleteAccount_FailureKeepsEverything(t *testing.T) {
	f := newFixture(t)
	f.seedProfile(t)
	f.store.FailRemove = memory.ErrInjected

	uc := NewDeleteAccountUseCase(f.store, f.store.Profiles(), f.publisher, logger.NewNopLogger())
	err := uc.Execute(context.Background(), f.owner.ID)

	assert.ErrorIs(t, err, apperror.ErrInternal)
	_, err = f.store.Users().FindByID(context.Background(), f.owner.ID)
	assert.NoError(t, err)
	_, err = f.store.Profiles().FindByUserID(context.Background(), f.owner.ID)
	assert.NoError(t, err)
}

// Both requests read the same document before either writes: the second Save
// overwrites the first one's entry. No concurrency control corrects this.
func TestConcurrentAdds_LastWriteWins(t *testing.T) {
	f := newFixture(t)
	f.seedProfile(t)
	ctx := context.Background()
	repo := f.store.Profiles()

	first, err := repo.FindByUserID(ctx, f.owner.ID)
	require.NoError(t, err)
	second, err := repo.FindByUserID(ctx, f.owner.ID)
	require.NoError(t, err)

	first.AddExperience(profile.ExperienceEntry{Title: "first"})
	second.AddExperience(profile.ExperienceEntry{Title: "second"})
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	stored, err := f.uc.GetMine(ctx, f.owner.ID)
	require.NoError(t, err)
	require.Len(t, stored.Experience, 1)
	assert.Equal(t, "second", stored.Experience[0].Title)
}
