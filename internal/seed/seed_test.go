package seed

import (
	"regexp"
	"testing"

	"github.com/stemsi/trivia-backend/internal/quiz"
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

func TestCategoriesArePlayable(t *testing.T) {
	cats, err := Categories()
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) == 0 {
		t.Fatal("no seed categories")
	}

	seenCat := map[string]bool{}
	for i := range cats {
		c := &cats[i]
		if !idPattern.MatchString(c.ID) {
			t.Errorf("category id %q is not routable", c.ID)
		}
		if seenCat[c.ID] {
			t.Errorf("duplicate category %q", c.ID)
		}
		seenCat[c.ID] = true

		if c.Title == "" {
			t.Errorf("%s: missing title", c.ID)
		}
		if err := quiz.ValidateCategory(c); err != nil {
			t.Errorf("%s: %v", c.ID, err)
		}

		seenQ := map[string]bool{}
		for j, q := range c.Questions {
			if seenQ[q.ID] {
				t.Errorf("%s: duplicate question %q", c.ID, q.ID)
			}
			seenQ[q.ID] = true
			if q.OrderNum != j+1 {
				t.Errorf("%s/%s: order_num = %d, want %d", c.ID, q.ID, q.OrderNum, j+1)
			}
		}
	}
}
