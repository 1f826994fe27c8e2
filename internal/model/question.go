package model

// Question represents a single multiple-choice trivia question.
type Question struct {
	ID            string   `json:"id"`
	Prompt        string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"` // Index into Options.
	OrderNum      int      `json:"order_num"`
}

// QuestionForPlayer is a question without the correct answer, sent to players.
type QuestionForPlayer struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"question"`
	Options []string `json:"options"`
}
