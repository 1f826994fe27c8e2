package model

import (
	"time"

	"github.com/google/uuid"
)

// QuizResult is a completed play-through persisted for a signed-in user.
type QuizResult struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	CategoryID     string    `json:"category_id"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	TimeSpent      int       `json:"time_spent"` // seconds
	CreatedAt      time.Time `json:"created_at"`
}

// ListResultsQuery holds the pagination parameters for result history.
type ListResultsQuery struct {
	Page    int `form:"page" binding:"omitempty,min=1"`
	PerPage int `form:"per_page" binding:"omitempty,min=1,max=100"`
}

// ResultStats aggregates a user's history.
type ResultStats struct {
	QuizzesPlayed  int `json:"quizzes_played"`
	TotalCorrect   int `json:"total_correct"`
	TotalAnswered  int `json:"total_answered"`
	BestPercentage int `json:"best_percentage"`
}

// QueuedResult is a completed play-through waiting in the persistence queue.
type QueuedResult struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	CategoryID     string    `json:"category_id"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	TimeSpent      int       `json:"time_spent"`
	Date           time.Time `json:"date"`
}

// Result converts the queue message into a storable row.
func (q QueuedResult) Result() QuizResult {
	return QuizResult{
		ID:             q.ID,
		UserID:         q.UserID,
		CategoryID:     q.CategoryID,
		Score:          q.Score,
		TotalQuestions: q.TotalQuestions,
		TimeSpent:      q.TimeSpent,
		CreatedAt:      q.Date,
	}
}
