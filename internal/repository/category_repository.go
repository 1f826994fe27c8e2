package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/trivia-backend/internal/model"
)

// CategoryRepository handles category and question data access.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// ListSummaries returns every category with its question count, ordered by title.
func (r *CategoryRepository) ListSummaries(ctx context.Context) ([]model.CategorySummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.title, c.description, c.icon, COUNT(q.id)
		 FROM categories c
		 LEFT JOIN questions q ON q.category_id = c.id
		 GROUP BY c.id
		 ORDER BY c.title`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []model.CategorySummary{}
	for rows.Next() {
		var s model.CategorySummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.Icon, &s.QuestionCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// ListIDs returns the IDs of every category.
func (r *CategoryRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// GetByID retrieves a category with its questions in play order.
// Returns pgx.ErrNoRows if the category does not exist.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*model.Category, error) {
	c := &model.Category{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, description, icon FROM categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Title, &c.Description, &c.Icon)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, question_text, options, correct_answer, order_num
		 FROM questions WHERE category_id = $1
		 ORDER BY order_num, id`, id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	c.Questions = []model.Question{}
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.Prompt, &q.Options, &q.CorrectAnswer, &q.OrderNum); err != nil {
			return nil, err
		}
		c.Questions = append(c.Questions, q)
	}
	return c, rows.Err()
}

// Upsert writes a category and replaces its question set in one transaction.
// Question order follows the slice order.
func (r *CategoryRepository) Upsert(ctx context.Context, c *model.Category) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`INSERT INTO categories (id, title, description, icon)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE
		 SET title = EXCLUDED.title,
		     description = EXCLUDED.description,
		     icon = EXCLUDED.icon,
		     updated_at = CURRENT_TIMESTAMP`,
		c.ID, c.Title, c.Description, c.Icon,
	); err != nil {
		return fmt.Errorf("upsert category: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM questions WHERE category_id = $1`, c.ID); err != nil {
		return fmt.Errorf("clear questions: %w", err)
	}

	batch := &pgx.Batch{}
	for i, q := range c.Questions {
		batch.Queue(
			`INSERT INTO questions (id, category_id, question_text, options, correct_answer, order_num)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			q.ID, c.ID, q.Prompt, q.Options, q.CorrectAnswer, i+1,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert questions: %w", err)
	}

	return tx.Commit(ctx)
}
