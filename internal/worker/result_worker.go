package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stemsi/trivia-backend/internal/config"
	"github.com/stemsi/trivia-backend/internal/model"
)

const (
	ResultPollTimeout = 1 * time.Second
	errorBackoff      = 1 * time.Second
)

// ResultStore is satisfied by *repository.ResultRepository.
type ResultStore interface {
	InsertBatch(ctx context.Context, results []model.QuizResult) error
	Insert(ctx context.Context, res *model.QuizResult) error
}

// ResultWorker moves queued results into PostgreSQL in batches.
type ResultWorker struct {
	store        ResultStore
	queue        Queue
	batchSize    int
	batchTimeout time.Duration
	pollTimeout  time.Duration
	retryBackoff time.Duration
	log          zerolog.Logger
}

// NewResultWorker creates a new ResultWorker.
func NewResultWorker(store ResultStore, queue Queue, cfg config.ResultsConfig, log zerolog.Logger) *ResultWorker {
	return &ResultWorker{
		store:        store,
		queue:        queue,
		batchSize:    cfg.BatchSize,
		batchTimeout: cfg.FlushInterval,
		pollTimeout:  ResultPollTimeout,
		retryBackoff: errorBackoff,
		log:          log.With().Str("component", "result_worker").Logger(),
	}
}

// pending is a decoded message plus its raw form for requeueing.
type pending struct {
	raw    string
	result model.QuizResult
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

// Start runs until ctx is cancelled, then flushes and drains the queue.
func (w *ResultWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ResultWorker started")

	// Writes outlive cancellation so a batch in flight is not lost.
	storeCtx := context.WithoutCancel(ctx)

	batch := make([]pending, 0, w.batchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= w.batchSize || time.Since(lastFlush) >= w.batchTimeout) {

			requeued := w.flush(storeCtx, batch)
			batch = batch[:0]
			lastFlush = time.Now()

			// Requeued rows come straight back from Pop.
			if requeued > 0 {
				sleepCtx(ctx, w.retryBackoff)
			}
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flush(storeCtx, batch)
			w.drain(storeCtx)
			w.log.Info().Msg("ResultWorker stopped")
			return

		default:
			raw, err := w.queue.Pop(ctx, w.pollTimeout)
			if err != nil {
				if !errors.Is(err, ErrQueueEmpty) && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("Queue pop error")
					sleepCtx(ctx, w.retryBackoff)
				}
				continue
			}

			p, err := decodeResult(raw)
			if err != nil {
				w.log.Error().Err(err).Str("payload", raw).Msg("Dropping invalid payload")
				continue
			}
			if len(batch) == 0 {
				lastFlush = time.Now()
			}
			batch = append(batch, p)
		}
	}
}

// ----------------------------------------------------------------
// Batch insert with single-row fallback
// ----------------------------------------------------------------

// flush stores batch, falling back to row-by-row inserts. Rows that fail
// transiently go back on the queue; constraint violations are dropped.
// It returns the number of rows requeued.
func (w *ResultWorker) flush(ctx context.Context, batch []pending) int {
	if len(batch) == 0 {
		return 0
	}

	rows := make([]model.QuizResult, len(batch))
	for i, p := range batch {
		rows[i] = p.result
	}

	err := w.store.InsertBatch(ctx, rows)
	if err == nil {
		w.log.Debug().Int("count", len(rows)).Msg("Results persisted")
		return 0
	}
	w.log.Warn().Err(err).Int("count", len(rows)).Msg("Bulk insert failed, using fallback")

	requeued := 0
	for i := range batch {
		res := batch[i].result
		err := w.store.Insert(ctx, &res)
		if err == nil {
			continue
		}

		if isPermanent(err) {
			w.log.Error().Err(err).
				Str("result_id", res.ID.String()).
				Msg("Result rejected by database, dropping")
			continue
		}

		w.log.Error().Err(err).Str("result_id", res.ID.String()).Msg("Insert failed, requeueing")
		if err := w.queue.Push(ctx, batch[i].raw); err != nil {
			w.log.Error().Err(err).Str("result_id", res.ID.String()).Msg("Requeue failed, result lost")
			continue
		}
		requeued++
	}
	return requeued
}

// drain empties the queue before shutdown. It stops early if rows start
// coming back, since the database is then unavailable.
func (w *ResultWorker) drain(ctx context.Context) {
	drained := 0
	for {
		batch := make([]pending, 0, w.batchSize)
		for len(batch) < w.batchSize {
			raw, err := w.queue.TryPop(ctx)
			if err != nil {
				if !errors.Is(err, ErrQueueEmpty) {
					w.log.Error().Err(err).Msg("Drain pop error")
				}
				break
			}
			p, err := decodeResult(raw)
			if err != nil {
				w.log.Error().Err(err).Msg("Drain: dropping invalid payload")
				continue
			}
			batch = append(batch, p)
		}

		if len(batch) == 0 {
			break
		}
		requeued := w.flush(ctx, batch)
		drained += len(batch) - requeued
		if requeued > 0 {
			w.log.Warn().Int("requeued", requeued).Msg("Drain stopped, database unavailable")
			break
		}
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}

// ----------------------------------------------------------------
// Helpers
// ----------------------------------------------------------------

func decodeResult(raw string) (pending, error) {
	var q model.QueuedResult
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		return pending{}, fmt.Errorf("unmarshal: %w", err)
	}

	switch {
	case q.ID == uuid.Nil:
		return pending{}, errors.New("missing id")
	case q.UserID == uuid.Nil:
		return pending{}, errors.New("missing user_id")
	case q.CategoryID == "":
		return pending{}, errors.New("missing category_id")
	case q.TotalQuestions <= 0 || q.Score < 0 || q.Score > q.TotalQuestions:
		return pending{}, fmt.Errorf("score %d/%d out of range", q.Score, q.TotalQuestions)
	}

	return pending{raw: raw, result: q.Result()}, nil
}

// isPermanent reports integrity constraint violations (SQLSTATE class 23)
// and data exceptions (class 22), which retrying cannot fix.
func isPermanent(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return strings.HasPrefix(pgErr.Code, "23") || strings.HasPrefix(pgErr.Code, "22")
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
