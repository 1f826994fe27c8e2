package model

// Category is a playable set of questions. Question order is play order.
type Category struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Questions   []Question `json:"questions"`
}

// CategorySummary is the catalogue listing entry.
type CategorySummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Icon          string `json:"icon"`
	QuestionCount int    `json:"question_count"`
}

// CategoryForPlayer is a category as sent to clients (no correct answers).
type CategoryForPlayer struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Icon        string              `json:"icon"`
	Questions   []QuestionForPlayer `json:"questions"`
}

// ForPlayer strips the answer key from the category.
func (c *Category) ForPlayer() CategoryForPlayer {
	out := CategoryForPlayer{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Icon:        c.Icon,
		Questions:   make([]QuestionForPlayer, len(c.Questions)),
	}
	for i, q := range c.Questions {
		out.Questions[i] = QuestionForPlayer{ID: q.ID, Prompt: q.Prompt, Options: q.Options}
	}
	return out
}

// Summary returns the listing entry for the category.
func (c *Category) Summary() CategorySummary {
	return CategorySummary{
		ID:            c.ID,
		Title:         c.Title,
		Description:   c.Description,
		Icon:          c.Icon,
		QuestionCount: len(c.Questions),
	}
}
