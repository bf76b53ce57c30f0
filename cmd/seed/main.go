package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	appservice "hireme/internal/applications/service"
	appstore "hireme/internal/applications/store"
	jobservice "hireme/internal/jobs/service"
	jobstore "hireme/internal/jobs/store"
	"hireme/internal/platform/config"
	"hireme/internal/platform/logger"
	"hireme/internal/platform/postgres"
	"hireme/internal/seed"
	userservice "hireme/internal/users/service"
	userstore "hireme/internal/users/store"
)

// main loads SEED_FILE (default cmd/seed/seed.yaml) into the database named
// by DATABASE_URL.
func main() {
	// .env is optional
	_ = godotenv.Load()
	cfg := config.FromEnv()
	log := logger.New(cfg.IsDevelopment())
	ctx := context.Background()

	path := os.Getenv("SEED_FILE")
	if path == "" {
		path = "cmd/seed/seed.yaml"
	}
	file, err := seed.Load(path)
	if err != nil {
		log.Error("failed to load seed file", "path", path, "error", err)
		os.Exit(1)
	}

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		log.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	if db == nil {
		log.Error("DATABASE_URL must be set to seed")
		os.Exit(1)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Error("failed to apply schema", "error", err)
		os.Exit(1)
	}

	users := userservice.New(userstore.NewPostgres(db), userservice.WithLogger(log))
	jobs := jobservice.New(jobstore.NewPostgres(db), jobservice.WithLogger(log))
	apps := appservice.New(appstore.NewPostgres(db), jobs, appservice.WithUsers(users), appservice.WithLogger(log))

	sum, err := seed.New(users, jobs, apps, log).Run(ctx, file)
	if err != nil {
		log.Error("seeding failed", "error", err)
		os.Exit(1)
	}
	log.Info("seeding complete",
		"users_created", sum.UsersCreated,
		"users_reused", sum.UsersReused,
		"jobs_created", sum.JobsCreated,
		"applications_created", sum.ApplicationsCreated,
		"applications_skipped", sum.ApplicationsSkipped,
	)
}
