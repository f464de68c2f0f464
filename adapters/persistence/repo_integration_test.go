package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/khoahotran/devconnect/internal/domain/account"
	"github.com/khoahotran/devconnect/internal/domain/post"
	"github.com/khoahotran/devconnect/internal/domain/profile"
	"github.com/khoahotran/devconnect/internal/domain/user"
)

type RepoIntegrationTestSuite struct {
	suite.Suite
	dbPool      *pgxpool.Pool
	pgContainer *postgres.PostgresContainer
	userRepo    user.Repository
	profileRepo profile.Repository
	postRepo    post.Repository
	remover     account.Remover
}

func (s *RepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(1*time.Minute),
		),
	)
	if err != nil {
		s.T().Fatalf("Failed to start postgres container: %s", err)
	}
	s.pgContainer = pgContainer

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}

	m, err := migrate.New("file://../../migrations", dsn)
	if err != nil {
		s.T().Fatalf("Failed to create migrate instance: %s", err)
	}
	if err := m.Up(); err != nil {
		s.T().Fatalf("Failed to run migrations: %s", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		s.T().Fatalf("Failed to create pgxpool: %s", err)
	}
	s.dbPool = pool

	s.userRepo = NewPostgresUserRepo(pool)
	s.profileRepo = NewPostgresProfileRepo(pool)
	s.postRepo = NewPostgresPostRepo(pool)
	s.remover = NewPostgresAccountRemover(pool)
}

func (s *RepoIntegrationTestSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate postgres container: %s", err)
		}
	}
}

func TestRepoIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(RepoIntegrationTestSuite))
}

func (s *RepoIntegrationTestSuite) seedUser(email string) *user.User {
	u := &user.User{
		ID:           uuid.New(),
		Name:         "Tester",
		Email:        email,
		PasswordHash: "hashedpassword",
		Avatar:       "https://cdn.example.com/a.png",
		CreatedAt:    time.Now().UTC(),
	}
	s.Require().NoError(s.userRepo.Create(context.Background(), u))
	return u
}

func (s *RepoIntegrationTestSuite) Test_User_CreateAndFind() {
	ctx := context.Background()
	u := s.seedUser("find@example.com")

	byEmail, err := s.userRepo.FindByEmail(ctx, "  FIND@example.com ")
	s.Require().NoError(err)
	s.Equal(u.ID, byEmail.ID)
	s.Equal("hashedpassword", byEmail.PasswordHash)

	err = s.userRepo.Create(ctx, &user.User{ID: uuid.New(), Email: "find@example.com", CreatedAt: time.Now()})
	s.ErrorIs(err, user.ErrEmailTaken)

	_, err = s.userRepo.FindByID(ctx, uuid.New())
	s.ErrorIs(err, user.ErrUserNotFound)

	s.Require().NoError(s.userRepo.UpdateAvatar(ctx, u.ID, "https://cdn.example.com/b.png"))
	byID, err := s.userRepo.FindByID(ctx, u.ID)
	s.Require().NoError(err)
	s.Equal("https://cdn.example.com/b.png", byID.Avatar)
}

func (s *RepoIntegrationTestSuite) Test_Profile_SaveIsUpsertByUser() {
	ctx := context.Background()
	u := s.seedUser("upsert@example.com")
	now := time.Now().UTC().Truncate(time.Microsecond)

	p := profile.New(u.ID, now)
	p.Apply(profile.Fields{
		Status: profile.StringField("Developer"),
		Skills: profile.StringField("go, sql"),
		Social: map[profile.SocialPlatform]*string{profile.Twitter: profile.StringField("https://twitter.com/t")},
	}, now)
	p.AddExperience(profile.ExperienceEntry{Title: "Engineer", Company: "Acme", From: now})
	s.Require().NoError(s.profileRepo.Save(ctx, p))
	firstID := p.ID

	// A second document for the same user replaces the first row instead of adding one.
	again := profile.New(u.ID, now)
	again.Apply(profile.Fields{Status: profile.StringField("Lead"), Skills: profile.StringField("go")}, now)
	s.Require().NoError(s.profileRepo.Save(ctx, again))
	s.Equal(firstID, again.ID)

	found, err := s.profileRepo.FindByUserID(ctx, u.ID)
	s.Require().NoError(err)
	s.Equal("Lead", found.Status)
	s.Equal([]string{"go"}, found.Skills)
	s.Require().NotNil(found.Owner)
	s.Equal("Tester", found.Owner.Name)

	all, err := s.profileRepo.List(ctx)
	s.Require().NoError(err)
	count := 0
	for _, item := range all {
		if item.UserID == u.ID {
			count++
		}
	}
	s.Equal(1, count)
}

func (s *RepoIntegrationTestSuite) Test_Profile_RoundTripsSubRecords() {
	ctx := context.Background()
	u := s.seedUser("records@example.com")
	now := time.Now().UTC().Truncate(time.Microsecond)

	p := profile.New(u.ID, now)
	p.Status = "Developer"
	p.Skills = []string{"go"}
	to := now.Add(24 * time.Hour)
	a := p.AddExperience(profile.ExperienceEntry{Title: "A", Company: "Acme", From: now, To: &to})
	b := p.AddExperience(profile.ExperienceEntry{Title: "B", Company: "Acme", From: now, Current: true})
	edu := p.AddEducation(profile.EducationEntry{School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: now})
	s.Require().NoError(s.profileRepo.Save(ctx, p))

	found, err := s.profileRepo.FindByUserID(ctx, u.ID)
	s.Require().NoError(err)
	s.Require().Len(found.Experience, 2)
	s.Equal(b.ID, found.Experience[0].ID)
	s.Equal(a.ID, found.Experience[1].ID)
	s.Require().NotNil(found.Experience[1].To)
	s.True(to.Equal(*found.Experience[1].To))
	s.Require().Len(found.Education, 1)
	s.Equal(edu.ID, found.Education[0].ID)
	s.Equal("CS", found.Education[0].FieldOfStudy)
}

func (s *RepoIntegrationTestSuite) Test_Profile_NotFound() {
	_, err := s.profileRepo.FindByUserID(context.Background(), uuid.New())
	s.ErrorIs(err, profile.ErrProfileNotFound)
}

// Two read-modify-write cycles interleave: the later Save wins and the earlier
// sub-record is lost. Nothing serializes these updates.
func (s *RepoIntegrationTestSuite) Test_Profile_ConcurrentAddIsLastWriteWins() {
	ctx := context.Background()
	u := s.seedUser("race@example.com")
	now := time.Now().UTC()

	base := profile.New(u.ID, now)
	base.Status = "Developer"
	base.Skills = []string{"go"}
	s.Require().NoError(s.profileRepo.Save(ctx, base))

	first, err := s.profileRepo.FindByUserID(ctx, u.ID)
	s.Require().NoError(err)
	second, err := s.profileRepo.FindByUserID(ctx, u.ID)
	s.Require().NoError(err)

	first.AddExperience(profile.ExperienceEntry{Title: "from-first", Company: "Acme", From: now})
	second.AddExperience(profile.ExperienceEntry{Title: "from-second", Company: "Acme", From: now})
	s.Require().NoError(s.profileRepo.Save(ctx, first))
	s.Require().NoError(s.profileRepo.Save(ctx, second))

	stored, err := s.profileRepo.FindByUserID(ctx, u.ID)
	s.Require().NoError(err)
	s.Require().Len(stored.Experience, 1)
	s.Equal("from-second", stored.Experience[0].Title)
}

func (s *RepoIntegrationTestSuite) Test_Post_CRUD() {
	ctx := context.Background()
	u := s.seedUser("poster@example.com")

	p := &post.Post{ID: uuid.New(), UserID: u.ID, Text: "hello", Name: u.Name, Avatar: u.Avatar, CreatedAt: time.Now().UTC()}
	s.Require().NoError(s.postRepo.Save(ctx, p))

	found, err := s.postRepo.FindByID(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("hello", found.Text)

	s.Require().NoError(s.postRepo.Delete(ctx, p.ID))
	s.ErrorIs(s.postRepo.Delete(ctx, p.ID), post.ErrPostNotFound)
	_, err = s.postRepo.FindByID(ctx, p.ID)
	s.ErrorIs(err, post.ErrPostNotFound)
}

func (s *RepoIntegrationTestSuite) Test_RemoveAccount_Cascades() {
	ctx := context.Background()
	u := s.seedUser("leaving@example.com")
	other := s.seedUser("staying@example.com")
	now := time.Now().UTC()

	p := profile.New(u.ID, now)
	p.Status = "Developer"
	s.Require().NoError(s.profileRepo.Save(ctx, p))
	mine := &post.Post{ID: uuid.New(), UserID: u.ID, Text: "bye", CreatedAt: now}
	theirs := &post.Post{ID: uuid.New(), UserID: other.ID, Text: "hi", CreatedAt: now}
	s.Require().NoError(s.postRepo.Save(ctx, mine))
	s.Require().NoError(s.postRepo.Save(ctx, theirs))

	s.Require().NoError(s.remover.RemoveAccount(ctx, u.ID))

	_, err := s.userRepo.FindByID(ctx, u.ID)
	s.ErrorIs(err, user.ErrUserNotFound)
	_, err = s.profileRepo.FindByUserID(ctx, u.ID)
	s.ErrorIs(err, profile.ErrProfileNotFound)
	_, err = s.postRepo.FindByID(ctx, mine.ID)
	s.ErrorIs(err, post.ErrPostNotFound)

	_, err = s.postRepo.FindByID(ctx, theirs.ID)
	s.NoError(err)
	_, err = s.userRepo.FindByID(ctx, other.ID)
	s.NoError(err)
}
