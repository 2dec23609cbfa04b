package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/impromptu-bank/internal/config"
	"github.com/gokatarajesh/impromptu-bank/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/impromptu-bank/internal/db/sqlc"
	"github.com/gokatarajesh/impromptu-bank/internal/question"
	"github.com/gokatarajesh/impromptu-bank/internal/seed"
)

func main() {
	var (
		file    = flag.String("file", "db/seed/questions.yaml", "YAML question bank to import")
		replace = flag.Bool("replace", false, "Delete every existing question and template first")
		dryRun  = flag.Bool("dry-run", false, "Validate the file without writing")
	)
	flag.Parse()

	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("failed to open bank")
	}
	bank, err := seed.Parse(f)
	f.Close()
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("invalid bank")
	}
	if *dryRun {
		log.Info().Int("levels", len(bank.Questions)).Int("templates", len(bank.Templates)).Msg("bank is valid")
		return
	}

	if err := godotenv.Load("configs/.env"); err != nil {
		log.Debug().Err(err).Msg("no configs/.env; using process environment")
	}
	var pg config.Postgres
	if err := env.ParseWithOptions(&pg, env.Options{RequiredIfNoDef: true}); err != nil {
		log.Fatal().Err(err).Msg("invalid database configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, pg.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	queries := sqlcgen.New(pool)
	svc := question.NewService(
		repository.NewQuestionRepository(queries),
		repository.NewTemplateRepository(queries),
		repository.NewHistoryRepository(queries, pool),
		nil,
		log.Logger,
	)

	res, err := seed.Load(ctx, svc, bank, *replace)
	if err != nil {
		log.Fatal().Err(err).Int("questions", res.Questions).Int("templates", res.Templates).Msg("import failed")
	}
	log.Info().
		Int64("removed", res.Removed).
		Int("questions", res.Questions).
		Int("templates", res.Templates).
		Msg("import complete")
}
