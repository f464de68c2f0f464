package main

import (
	"errors"
	"flag"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnect/internal/config"
	"github.com/khoahotran/devconnect/pkg/logger"
)

func main() {
	dir := flag.String("dir", "migrations", "directory holding the SQL migrations")
	down := flag.Bool("down", false, "roll back every migration instead of applying them")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}
	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	if cfg.DB.Driver != config.DriverPostgres {
		appLogger.Info("Nothing to migrate", zap.String("driver", cfg.DB.Driver))
		return
	}

	m, err := migrate.New("file://"+*dir, cfg.DB.DSN)
	if err != nil {
		appLogger.Fatal("Cannot open migrations", err)
	}
	defer m.Close()

	if *down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		appLogger.Fatal("Migration failed", err)
	}

	version, dirty, _ := m.Version()
	appLogger.Info("Migrations applied", zap.Uint("version", version), zap.Bool("dirty", dirty))
}
