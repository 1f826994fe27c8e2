package main

import (
	"context"
	"fmt"
	"time"

	stdlog "github.com/rs/zerolog/log"
	"github.com/stemsi/trivia-backend/internal/config"
	"github.com/stemsi/trivia-backend/internal/database"
	"github.com/stemsi/trivia-backend/internal/logger"
	"github.com/stemsi/trivia-backend/internal/repository"
	"github.com/stemsi/trivia-backend/internal/seed"
	"github.com/stemsi/trivia-backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatal().Err(err).Msg("Invalid configuration")
	}
	log := logger.Component(logger.Setup(cfg.LogLevel, cfg.LogFormat), "seed")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	categoryService := service.NewCategoryService(repository.NewCategoryRepository(pool), rdb, log)

	cats, err := seed.Categories()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load seed data")
	}

	fmt.Printf("=== Seeding %d Categories ===\n", len(cats))

	failed := 0
	for i := range cats {
		c := &cats[i]
		if err := categoryService.Upsert(ctx, c); err != nil {
			log.Error().Err(err).Str("category_id", c.ID).Msg("Failed to seed category")
			failed++
			continue
		}
		fmt.Printf("  %-12s %d questions\n", c.ID, len(c.Questions))
	}

	if failed > 0 {
		log.Fatal().Int("failed", failed).Msg("Seeding finished with errors")
	}
	fmt.Println("Done.")
}
