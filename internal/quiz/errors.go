package quiz

import "errors"

// Construction errors.
var (
	ErrEmptyCategory   = errors.New("category has no questions")
	ErrInvalidQuestion = errors.New("invalid question")
)

// Operation errors. None of them change session state.
var (
	ErrInvalidPhase     = errors.New("operation not valid in current phase")
	ErrAlreadyAnswered  = errors.New("question already answered")
	ErrOptionOutOfRange = errors.New("option index out of range")
	ErrStaleQuestion    = errors.New("answer targets a question that is no longer active")
	ErrTimeExpired      = errors.New("time for this question has expired")
	ErrSessionClosed    = errors.New("session closed")
)

// errIgnored marks a timer callback that found its target state gone.
var errIgnored = errors.New("stale timer")
