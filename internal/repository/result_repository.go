package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/trivia-backend/internal/model"
)

// ResultRepository handles quiz result data access.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// Insert stores a single result. ID and CreatedAt are kept when set.
func (r *ResultRepository) Insert(ctx context.Context, res *model.QuizResult) error {
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO quiz_results (id, user_id, category_id, score, total_questions, time_spent, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()))
		 ON CONFLICT (id) DO NOTHING
		 RETURNING created_at`,
		res.ID, res.UserID, res.CategoryID, res.Score, res.TotalQuestions, res.TimeSpent, nullTime(res),
	).Scan(&res.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// Already stored by an earlier attempt.
		return nil
	}
	return err
}

// InsertBatch stores many results with one UNNEST statement.
// Rows whose ID already exists are skipped, so a retried batch is harmless.
func (r *ResultRepository) InsertBatch(ctx context.Context, results []model.QuizResult) error {
	n := len(results)
	if n == 0 {
		return nil
	}

	ids := make([]uuid.UUID, n)
	users := make([]uuid.UUID, n)
	categories := make([]string, n)
	scores := make([]int32, n)
	totals := make([]int32, n)
	spent := make([]int32, n)
	createdAts := make([]*time.Time, n)

	for i, res := range results {
		ids[i] = res.ID
		users[i] = res.UserID
		categories[i] = res.CategoryID
		scores[i] = int32(res.Score)
		totals[i] = int32(res.TotalQuestions)
		spent[i] = int32(res.TimeSpent)
		createdAts[i] = nullTime(&results[i])
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO quiz_results (id, user_id, category_id, score, total_questions, time_spent, created_at)
		SELECT u.id, u.user_id, u.category_id, u.score, u.total_questions, u.time_spent, COALESCE(u.created_at, NOW())
		FROM UNNEST(
			$1::uuid[],
			$2::uuid[],
			$3::text[],
			$4::int[],
			$5::int[],
			$6::int[],
			$7::timestamptz[]
		) AS u (id, user_id, category_id, score, total_questions, time_spent, created_at)
		ON CONFLICT (id) DO NOTHING`,
		ids, users, categories, scores, totals, spent, createdAts,
	)
	return err
}

// ListByUser returns a page of a user's results, newest first, and the total count.
func (r *ResultRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.QuizResult, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM quiz_results WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, category_id, score, total_questions, time_spent, created_at
		 FROM quiz_results WHERE user_id = $1
		 ORDER BY created_at DESC, id
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	results := []model.QuizResult{}
	for rows.Next() {
		var res model.QuizResult
		if err := rows.Scan(&res.ID, &res.UserID, &res.CategoryID, &res.Score, &res.TotalQuestions, &res.TimeSpent, &res.CreatedAt); err != nil {
			return nil, 0, err
		}
		results = append(results, res)
	}
	return results, total, rows.Err()
}

// Stats aggregates a user's play history.
func (r *ResultRepository) Stats(ctx context.Context, userID uuid.UUID) (model.ResultStats, error) {
	var s model.ResultStats
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(score), 0),
		        COALESCE(SUM(total_questions), 0),
		        COALESCE(MAX(ROUND(100.0 * score / NULLIF(total_questions, 0)))::int, 0)
		 FROM quiz_results WHERE user_id = $1`, userID,
	).Scan(&s.QuizzesPlayed, &s.TotalCorrect, &s.TotalAnswered, &s.BestPercentage)
	return s, err
}

func nullTime(res *model.QuizResult) *time.Time {
	if res.CreatedAt.IsZero() {
		return nil
	}
	t := res.CreatedAt
	return &t
}
