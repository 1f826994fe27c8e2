package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/trivia-backend/internal/config"
	"github.com/stemsi/trivia-backend/internal/model"
	"github.com/stemsi/trivia-backend/internal/quiz"
	"github.com/stemsi/trivia-backend/internal/repository"
)

// ErrCategoryNotFound is returned when a category ID is unknown.
var ErrCategoryNotFound = errors.New("category not found")

const categoryListTTL = 5 * time.Minute

// CategoryService serves the category catalogue through a Redis cache.
type CategoryService struct {
	repo *repository.CategoryRepository
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo *repository.CategoryRepository, rdb *redis.Client, log zerolog.Logger) *CategoryService {
	return &CategoryService{
		repo: repo,
		rdb:  rdb,
		log:  log.With().Str("component", "category_service").Logger(),
	}
}

// GetCategory returns a category with its answer key. Redis is tried first;
// on a miss the category is loaded from PostgreSQL and written back.
func (s *CategoryService) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	key := config.CacheKey.CategoryPayloadKey(id)

	data, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var c model.Category
		if err := json.Unmarshal(data, &c); err == nil {
			return &c, nil
		}
		s.log.Warn().Str("category_id", id).Msg("Corrupt cached payload, reloading")
	case !errors.Is(err, redis.Nil):
		s.log.Warn().Err(err).Str("category_id", id).Msg("Cache read failed, using database")
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	if err := s.WarmCategoryCache(ctx, c); err != nil {
		s.log.Warn().Err(err).Str("category_id", id).Msg("Failed to self-heal cache")
	}
	return c, nil
}

// GetForPlayer returns a category without its answer key.
func (s *CategoryService) GetForPlayer(ctx context.Context, id string) (*model.CategoryForPlayer, error) {
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	p := c.ForPlayer()
	return &p, nil
}

// ListSummaries returns the catalogue listing.
func (s *CategoryService) ListSummaries(ctx context.Context) ([]model.CategorySummary, error) {
	key := config.CacheKey.CategoryListKey()

	if data, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
		var list []model.CategorySummary
		if err := json.Unmarshal(data, &list); err == nil {
			return list, nil
		}
	}

	list, err := s.repo.ListSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	if raw, err := json.Marshal(list); err == nil {
		if err := s.rdb.Set(ctx, key, raw, categoryListTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("Failed to cache category list")
		}
	}
	return list, nil
}

// Upsert validates and stores a category, then refreshes its cache.
func (s *CategoryService) Upsert(ctx context.Context, c *model.Category) error {
	if err := quiz.ValidateCategory(c); err != nil {
		return fmt.Errorf("category %q: %w", c.ID, err)
	}
	if err := s.repo.Upsert(ctx, c); err != nil {
		return fmt.Errorf("upsert category %q: %w", c.ID, err)
	}
	if err := s.rdb.Del(ctx, config.CacheKey.CategoryListKey()).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Failed to invalidate category list")
	}
	return s.WarmCategoryCache(ctx, c)
}

// WarmCategoryCache writes a category's full payload to Redis.
func (s *CategoryService) WarmCategoryCache(ctx context.Context, c *model.Category) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	if err := s.rdb.Set(ctx, config.CacheKey.CategoryPayloadKey(c.ID), payload, 0).Err(); err != nil {
		return fmt.Errorf("cache to redis: %w", err)
	}

	s.log.Debug().
		Str("category_id", c.ID).
		Int("questions", len(c.Questions)).
		Msg("Cache warmed")
	return nil
}

// PrewarmAllCaches loads every category into Redis on startup.
func (s *CategoryService) PrewarmAllCaches(ctx context.Context) error {
	ids, err := s.repo.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}

	if len(ids) == 0 {
		s.log.Info().Msg("No categories to prewarm")
		return nil
	}

	s.log.Info().Int("count", len(ids)).Msg("Prewarming categories...")

	warmed := 0
	for _, id := range ids {
		c, err := s.repo.GetByID(ctx, id)
		if err == nil {
			err = s.WarmCategoryCache(ctx, c)
		}
		if err != nil {
			s.log.Warn().
				Err(err).
				Str("category_id", id).
				Msg("Failed to warm category, skipping")
			continue
		}
		warmed++
	}

	s.log.Info().
		Int("warmed", warmed).
		Int("total", len(ids)).
		Msg("Prewarming complete")
	return nil
}
