package quiz

import (
	"fmt"
	"sync"
	"time"

	"github.com/stemsi/trivia-backend/internal/model"
)

// Phase is the session's state-machine state.
type Phase string

const (
	PhaseNotStarted     Phase = "NOT_STARTED"
	PhaseInProgress     Phase = "IN_PROGRESS"
	PhaseAnswerRevealed Phase = "ANSWER_REVEALED"
	PhaseComplete       Phase = "COMPLETE"
)

const (
	DefaultQuestionTime = 30 * time.Second
	DefaultRevealDelay  = 1500 * time.Millisecond

	tickInterval = time.Second
)

// Options configures a Session. Zero values take the defaults.
type Options struct {
	QuestionTime time.Duration // Rounded down to whole seconds, minimum one.
	RevealDelay  time.Duration
	Clock        Clock

	// OnChange receives a snapshot after every state change, in order.
	// OnComplete receives the summary once the last question is settled.
	// Both run without the session lock held but must not call the
	// session's mutating methods.
	OnChange   func(Snapshot)
	OnComplete func(Summary)
}

// AnswerRecord is the outcome of one question.
type AnswerRecord struct {
	QuestionID string `json:"question_id"`
	Selected   *int   `json:"selected,omitempty"`
	Correct    bool   `json:"correct"`
	TimedOut   bool   `json:"timed_out"`
}

// Summary is the terminal result of a play-through.
type Summary struct {
	CategoryID  string         `json:"category_id"`
	Score       int            `json:"score"`
	Total       int            `json:"total"`
	Percentage  int            `json:"percentage"`
	Tier        Tier           `json:"tier"`
	Message     string         `json:"message"`
	Answers     []AnswerRecord `json:"answers"`
	TimeSpent   int            `json:"time_spent"` // seconds
	CompletedAt time.Time      `json:"completed_at"`
}

// QuestionView is the active question as shown to the player.
type QuestionView struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"question"`
	Options []string `json:"options"`
}

// Snapshot is a point-in-time view of a Session.
type Snapshot struct {
	CategoryID       string        `json:"category_id"`
	Phase            Phase         `json:"phase"`
	QuestionIndex    int           `json:"question_index"`
	TotalQuestions   int           `json:"total_questions"`
	Question         *QuestionView `json:"question,omitempty"`
	RemainingSeconds int           `json:"remaining_seconds"`
	Score            int           `json:"score"`
	SelectedOption   *int          `json:"selected_option,omitempty"`
	IsCorrect        *bool         `json:"is_correct,omitempty"`
	CorrectAnswer    *int          `json:"correct_answer,omitempty"`
	Summary          *Summary      `json:"summary,omitempty"`
}

// Session is one play-through of a category. It is safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	notifyMu sync.Mutex

	categoryID string
	questions  []model.Question
	opts       Options
	seconds    int

	phase     Phase
	index     int
	selected  *int
	correct   bool
	score     int
	remaining int
	answers   []AnswerRecord
	startedAt time.Time
	summary   *Summary
	closed    bool

	epoch  uint64
	tick   Timer
	reveal Timer
}

// NewSession validates the category and returns a session in NotStarted.
func NewSession(category *model.Category, opts Options) (*Session, error) {
	if err := ValidateCategory(category); err != nil {
		return nil, err
	}

	if opts.QuestionTime <= 0 {
		opts.QuestionTime = DefaultQuestionTime
	}
	if opts.RevealDelay <= 0 {
		opts.RevealDelay = DefaultRevealDelay
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock
	}

	seconds := int(opts.QuestionTime / time.Second)
	if seconds < 1 {
		seconds = 1
	}

	return &Session{
		categoryID: category.ID,
		questions:  category.Questions,
		opts:       opts,
		seconds:    seconds,
		phase:      PhaseNotStarted,
		remaining:  seconds,
	}, nil
}

// ValidateCategory reports whether a session could be played to completion.
func ValidateCategory(category *model.Category) error {
	if category == nil || len(category.Questions) == 0 {
		return ErrEmptyCategory
	}
	for _, q := range category.Questions {
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: question %q has %d options", ErrInvalidQuestion, q.ID, len(q.Options))
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return fmt.Errorf("%w: question %q correct answer %d out of range", ErrInvalidQuestion, q.ID, q.CorrectAnswer)
		}
	}
	return nil
}

// Start begins the first question. Valid only from NotStarted.
func (s *Session) Start() error {
	return s.mutate(func() (*Summary, error) {
		if s.phase != PhaseNotStarted {
			return nil, ErrInvalidPhase
		}
		s.begin()
		return nil, nil
	})
}

// SelectAnswer answers the active question. The first answer is binding.
func (s *Session) SelectAnswer(option int) error {
	return s.mutate(func() (*Summary, error) {
		return nil, s.selectAnswer(option)
	})
}

// SelectAnswerAt answers question questionIndex, failing with
// ErrStaleQuestion if the session has already moved past it.
func (s *Session) SelectAnswerAt(questionIndex, option int) error {
	return s.mutate(func() (*Summary, error) {
		if (s.phase == PhaseInProgress || s.phase == PhaseAnswerRevealed) && questionIndex != s.index {
			return nil, ErrStaleQuestion
		}
		return nil, s.selectAnswer(option)
	})
}

// Restart aborts whatever is in flight and starts again from question one.
func (s *Session) Restart() error {
	return s.mutate(func() (*Summary, error) {
		s.begin()
		return nil, nil
	})
}

// Close cancels all timers. Pending callbacks become no-ops and every later
// operation returns ErrSessionClosed. Close returns after any in-flight
// notification has been delivered.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.stopTimers()
	s.mu.Unlock()

	// Wait out a delivery that started before closed was set.
	s.notifyMu.Lock()
	s.notifyMu.Unlock()
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// ─── Transitions (s.mu held) ───────────────────────────────────────────────

func (s *Session) begin() {
	s.stopTimers()
	s.startedAt = s.opts.Clock.Now()
	s.index = 0
	s.score = 0
	s.answers = make([]AnswerRecord, 0, len(s.questions))
	s.summary = nil
	s.enterQuestion()
}

func (s *Session) enterQuestion() {
	s.phase = PhaseInProgress
	s.selected = nil
	s.correct = false
	s.remaining = s.seconds
	s.armTick()
}

func (s *Session) selectAnswer(option int) error {
	switch s.phase {
	case PhaseAnswerRevealed:
		return ErrAlreadyAnswered
	case PhaseInProgress:
	default:
		return ErrInvalidPhase
	}
	if s.remaining <= 0 {
		return ErrTimeExpired
	}

	q := s.questions[s.index]
	if option < 0 || option >= len(q.Options) {
		return ErrOptionOutOfRange
	}

	s.stopTimers()

	sel := option
	s.selected = &sel
	s.correct = option == q.CorrectAnswer
	if s.correct {
		s.score++
	}
	s.answers = append(s.answers, AnswerRecord{
		QuestionID: q.ID,
		Selected:   &sel,
		Correct:    s.correct,
	})
	s.phase = PhaseAnswerRevealed

	epoch := s.epoch
	s.reveal = s.opts.Clock.AfterFunc(s.opts.RevealDelay, func() { s.onReveal(epoch) })
	return nil
}

// advance moves to the next question, or completes the session after the
// last one and returns its summary.
func (s *Session) advance() *Summary {
	s.stopTimers()

	if s.index >= len(s.questions)-1 {
		return s.complete()
	}

	s.index++
	s.enterQuestion()
	return nil
}

func (s *Session) complete() *Summary {
	s.phase = PhaseComplete
	s.selected = nil
	s.correct = false

	now := s.opts.Clock.Now()
	total := len(s.questions)
	pct := Percentage(s.score, total)
	tier := TierFor(pct)

	answers := make([]AnswerRecord, len(s.answers))
	copy(answers, s.answers)

	s.summary = &Summary{
		CategoryID:  s.categoryID,
		Score:       s.score,
		Total:       total,
		Percentage:  pct,
		Tier:        tier,
		Message:     tier.Message(),
		Answers:     answers,
		TimeSpent:   int(now.Sub(s.startedAt) / time.Second),
		CompletedAt: now,
	}
	return s.summary
}

// ─── Timers ────────────────────────────────────────────────────────────────

func (s *Session) armTick() {
	epoch := s.epoch
	s.tick = s.opts.Clock.AfterFunc(tickInterval, func() { s.onTick(epoch) })
}

// stopTimers cancels both timers and invalidates callbacks already queued.
func (s *Session) stopTimers() {
	s.epoch++
	if s.tick != nil {
		s.tick.Stop()
		s.tick = nil
	}
	if s.reveal != nil {
		s.reveal.Stop()
		s.reveal = nil
	}
}

func (s *Session) onTick(epoch uint64) {
	_ = s.mutate(func() (*Summary, error) {
		if epoch != s.epoch || s.phase != PhaseInProgress {
			return nil, errIgnored
		}

		s.remaining--
		if s.remaining > 0 {
			s.armTick()
			return nil, nil
		}

		// Timed out with no answer: counts as incorrect.
		s.remaining = 0
		s.answers = append(s.answers, AnswerRecord{
			QuestionID: s.questions[s.index].ID,
			TimedOut:   true,
		})
		return s.advance(), nil
	})
}

func (s *Session) onReveal(epoch uint64) {
	_ = s.mutate(func() (*Summary, error) {
		if epoch != s.epoch || s.phase != PhaseAnswerRevealed {
			return nil, errIgnored
		}
		return s.advance(), nil
	})
}

// ─── Locking & notification ────────────────────────────────────────────────

// mutate runs fn under the state lock. On success the resulting snapshot
// (and summary, if fn completed the session) is delivered to the callbacks.
// notifyMu is taken before the state lock is released so deliveries keep
// mutation order.
func (s *Session) mutate(fn func() (*Summary, error)) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}

	sum, err := fn()
	if err != nil {
		s.mu.Unlock()
		return err
	}

	snap := s.snapshotLocked()
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	if s.opts.OnChange != nil {
		s.opts.OnChange(snap)
	}
	if sum != nil && s.opts.OnComplete != nil {
		s.opts.OnComplete(*sum)
	}
	return nil
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		CategoryID:       s.categoryID,
		Phase:            s.phase,
		QuestionIndex:    s.index,
		TotalQuestions:   len(s.questions),
		RemainingSeconds: s.remaining,
		Score:            s.score,
	}

	switch s.phase {
	case PhaseInProgress, PhaseAnswerRevealed:
		q := s.questions[s.index]
		opts := make([]string, len(q.Options))
		copy(opts, q.Options)
		snap.Question = &QuestionView{ID: q.ID, Prompt: q.Prompt, Options: opts}

		if s.phase == PhaseAnswerRevealed && s.selected != nil {
			sel := *s.selected
			correct := s.correct
			answer := q.CorrectAnswer
			snap.SelectedOption = &sel
			snap.IsCorrect = &correct
			snap.CorrectAnswer = &answer
		}
	case PhaseComplete:
		if s.summary != nil {
			sum := *s.summary
			snap.Summary = &sum
		}
	}

	return snap
}
