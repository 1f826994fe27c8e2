package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/trivia-backend/internal/quiz"
)

func TestNewQueuedResult(t *testing.T) {
	user := uuid.New()
	done := time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("X", 3600))
	sum := quiz.Summary{CategoryID: "science", Score: 7, Total: 10, TimeSpent: 95, CompletedAt: done}

	a := NewQueuedResult(user, sum)
	b := NewQueuedResult(user, sum)

	if a.ID == uuid.Nil || a.ID == b.ID {
		t.Fatalf("ids = %s, %s", a.ID, b.ID)
	}
	if a.UserID != user || a.CategoryID != "science" || a.Score != 7 || a.TotalQuestions != 10 || a.TimeSpent != 95 {
		t.Fatalf("record = %+v", a)
	}
	if !a.Date.Equal(done) || a.Date.Location() != time.UTC {
		t.Fatalf("date = %s", a.Date)
	}

	row := a.Result()
	if row.ID != a.ID || row.CreatedAt != a.Date || row.TotalQuestions != 10 {
		t.Fatalf("row = %+v", row)
	}
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		page, perPage, wantPage, wantPer int
	}{
		{0, 0, 1, 10},
		{3, 20, 3, 20},
		{-1, 500, 1, 100},
	}
	for _, tt := range tests {
		p, pp := normalizePage(tt.page, tt.perPage)
		if p != tt.wantPage || pp != tt.wantPer {
			t.Errorf("normalizePage(%d,%d) = %d,%d", tt.page, tt.perPage, p, pp)
		}
	}
}
