package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/fortuna/danglers/internal/logger"
	"github.com/fortuna/danglers/internal/schedule"
	"github.com/fortuna/danglers/internal/store"
	"github.com/joho/godotenv"
)

// Loads a schedule JSON file into the schedule_games table, replacing its contents
func main() {
	_ = godotenv.Load()

	var (
		dsn    = flag.String("dsn", os.Getenv("SCHEDULE_DSN"), "PostgreSQL DSN")
		path   = flag.String("file", getEnv("SCHEDULE_PATH", "schedule.json"), "Schedule JSON file")
		dryRun = flag.Bool("dry-run", false, "Validate the file without writing")
	)
	flag.Parse()

	log := logger.New(getEnv("LOG_LEVEL", "info"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	records, err := schedule.NewFileSource(*path).Records(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("read schedule")
	}

	// Parse once so malformed rows are reported before they land in the table
	games, err := schedule.NewStore(schedule.StaticSource(records), log).LoadGames(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("parse schedule")
	}
	log.Info().Int("records", len(records)).Int("valid", len(games)).Msg("schedule parsed")

	if *dryRun {
		return
	}
	if *dsn == "" {
		log.Fatal().Msg("specify --dsn or SCHEDULE_DSN")
	}

	db, err := store.NewDatabase(ctx, *dsn, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer db.Close()

	if err := db.RunMigrations(ctx); err != nil {
		log.Fatal().Err(err).Msg("migrations")
	}
	if err := store.NewScheduleRepository(db).ReplaceAll(ctx, records); err != nil {
		log.Fatal().Err(err).Msg("import schedule")
	}

	log.Info().Int("records", len(records)).Msg("schedule imported")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
