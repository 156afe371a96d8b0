package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/trivia-api/db/migrations"
	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/db"
)

func main() {
	command := flag.String("command", "up", "Migration command: up, down, reset, status or version")
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall timeout for the command")
	flag.Parse()

	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Str("app", "trivia-migrator").Logger()

	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load("configs/.env"); err != nil {
			log.Warn().Err(err).Msg("could not load .env file")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	database, err := db.Open(ctx, cfg.Postgres, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Str("host", cfg.Postgres.Host).Int("port", cfg.Postgres.Port).Msg("failed to open database connection")
	}
	defer database.Close()

	migrations.SetLogger(log.Logger)

	switch *command {
	case "up":
		if err := migrations.Up(ctx, database.SQL); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations up")
		}
		log.Info().Msg("migrations applied successfully")

	case "down":
		if err := migrations.Down(ctx, database.SQL); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations down")
		}
		log.Info().Msg("migrations rolled back successfully")

	case "reset":
		if err := migrations.Reset(ctx, database.SQL); err != nil {
			log.Fatal().Err(err).Msg("failed to reset migrations")
		}
		log.Info().Msg("all migrations rolled back")

	case "status":
		if err := migrations.Status(ctx, database.SQL); err != nil {
			log.Fatal().Err(err).Msg("failed to get migration status")
		}

	case "version":
		version, err := migrations.Version(ctx, database.SQL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to read schema version")
		}
		log.Info().Int64("version", version).Msg("current schema version")

	default:
		log.Fatal().Str("command", *command).Msg("unknown command. Use: up, down, reset, status or version")
	}
}
