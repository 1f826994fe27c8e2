package websocket

import "github.com/stemsi/trivia-backend/internal/quiz"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionStart   Action = "start"
	ActionSelect  Action = "select"
	ActionRestart Action = "restart"
	ActionPing    Action = "ping"
)

// Request is any client message. QIndex and Option are only read for
// ActionSelect, where both are required: QIndex names the question the
// answer is meant for.
type Request struct {
	Action Action `json:"action"`
	QIndex *int   `json:"q_index,omitempty"`
	Option *int   `json:"option,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventState    Event = "state"
	EventComplete Event = "complete"
	EventError    Event = "error"
	EventPong     Event = "pong"
)

// StateResponse carries a session snapshot. Sent on connect, on every
// transition, and on every countdown tick.
type StateResponse struct {
	Event Event `json:"event"`
	quiz.Snapshot
}

// CompleteResponse carries the final summary.
type CompleteResponse struct {
	Event Event `json:"event"`
	quiz.Summary
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}

func NewState(s quiz.Snapshot) StateResponse {
	return StateResponse{Event: EventState, Snapshot: s}
}

func NewComplete(s quiz.Summary) CompleteResponse {
	return CompleteResponse{Event: EventComplete, Summary: s}
}

func NewError(code, msg string) ErrorResponse {
	return ErrorResponse{Event: EventError, Code: code, Error: msg}
}
