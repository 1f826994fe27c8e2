package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/trivia-backend/internal/config"
	"github.com/stemsi/trivia-backend/internal/model"
	"github.com/stemsi/trivia-backend/internal/quiz"
)

const recordTimeout = 3 * time.Second

// ResultService hands completed play-throughs to the persistence worker.
type ResultService struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewResultService creates a new ResultService.
func NewResultService(rdb *redis.Client, log zerolog.Logger) *ResultService {
	return &ResultService{
		rdb: rdb,
		log: log.With().Str("component", "result_service").Logger(),
	}
}

// Record queues a summary for userID. It never fails the caller: errors are
// logged and the result is dropped.
func (s *ResultService) Record(ctx context.Context, userID uuid.UUID, sum quiz.Summary) {
	msg := NewQueuedResult(userID, sum)

	raw, err := json.Marshal(msg)
	if err != nil {
		s.log.Error().Err(err).Msg("Marshal result failed")
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, raw).Err(); err != nil {
		s.log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("category_id", sum.CategoryID).
			Msg("Failed to queue result")
		return
	}

	s.log.Debug().
		Str("result_id", msg.ID.String()).
		Str("user_id", userID.String()).
		Int("score", sum.Score).
		Msg("Result queued")
}

// NewQueuedResult builds the queue message for a finished session.
// The ID is assigned here so redelivery cannot create duplicates.
func NewQueuedResult(userID uuid.UUID, sum quiz.Summary) model.QueuedResult {
	date := sum.CompletedAt
	if date.IsZero() {
		date = time.Now()
	}
	return model.QueuedResult{
		ID:             uuid.New(),
		UserID:         userID,
		CategoryID:     sum.CategoryID,
		Score:          sum.Score,
		TotalQuestions: sum.Total,
		TimeSpent:      sum.TimeSpent,
		Date:           date.UTC(),
	}
}
