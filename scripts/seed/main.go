package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/khoahotran/devconnect/adapters/event"
	"github.com/khoahotran/devconnect/adapters/persistence"
	authUC "github.com/khoahotran/devconnect/internal/application/usecase/auth"
	profileUC "github.com/khoahotran/devconnect/internal/application/usecase/profile"
	"github.com/khoahotran/devconnect/internal/config"
	"github.com/khoahotran/devconnect/internal/domain/profile"
	"github.com/khoahotran/devconnect/pkg/apperror"
	"github.com/khoahotran/devconnect/pkg/auth"
	"github.com/khoahotran/devconnect/pkg/logger"
)

// seed registers a demo developer with a profile so a fresh database has something to browse.
func main() {
	fmt.Println("adding demo developer into database...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	appLogger := logger.NewNopLogger()
	ctx := context.Background()

	pool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		log.Fatalf("cannot connect DB: %v", err)
	}
	defer pool.Close()

	email := os.Getenv("SEED_EMAIL")
	password := os.Getenv("SEED_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("SEED_EMAIL and SEED_PASSWORD are required")
	}

	users := persistence.NewPostgresUserRepo(pool)
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	register := authUC.NewRegisterUseCase(users, jwtSvc, appLogger)
	if _, err := register.Execute(ctx, authUC.RegisterInput{Name: "Demo Developer", Email: email, Password: password}); err != nil {
		if !errors.Is(err, apperror.ErrConflict) {
			log.Fatalf("cannot register demo user: %v", err)
		}
		fmt.Println("demo user already exists, updating profile")
	}

	u, err := users.FindByEmail(ctx, email)
	if err != nil {
		log.Fatalf("cannot load demo user: %v", err)
	}

	profiles := profileUC.NewProfileUseCase(persistence.NewPostgresProfileRepo(pool), event.NopPublisher{}, appLogger)
	_, err = profiles.Upsert(ctx, profileUC.UpsertInput{
		UserID: u.ID,
		Fields: profile.Fields{
			Status:   profile.StringField("Developer"),
			Skills:   profile.StringField("Go, PostgreSQL, Kafka"),
			Bio:      profile.StringField("Seeded account for local development."),
			Location: profile.StringField("Remote"),
		},
	})
	if err != nil {
		log.Fatalf("cannot upsert demo profile: %v", err)
	}

	fmt.Printf("seeded demo developer %s (%s)\n", email, u.ID)
}
