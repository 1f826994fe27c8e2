package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/trivia-backend/internal/middleware"
	"github.com/stemsi/trivia-backend/internal/model"
	"github.com/stemsi/trivia-backend/internal/quiz"
	"github.com/stemsi/trivia-backend/internal/response"
	"github.com/stemsi/trivia-backend/internal/service"
	ws "github.com/stemsi/trivia-backend/internal/websocket"
)

const outboundBuffer = 64

// CategorySource is satisfied by *service.CategoryService.
type CategorySource interface {
	GetCategory(ctx context.Context, id string) (*model.Category, error)
}

// ResultRecorder is satisfied by *service.ResultService.
type ResultRecorder interface {
	Record(ctx context.Context, userID uuid.UUID, sum quiz.Summary)
}

// PlayOptions configures the sessions a PlayHandler creates.
type PlayOptions struct {
	QuestionTime   time.Duration
	RevealDelay    time.Duration
	Clock          quiz.Clock // nil means the system clock
	AllowedOrigins []string
}

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// PlayHandler runs one quiz session per WebSocket connection.
type PlayHandler struct {
	categories CategorySource
	results    ResultRecorder
	opts       PlayOptions
	log        zerolog.Logger
	upgrader   websocket.Upgrader
}

// NewPlayHandler creates a new PlayHandler.
func NewPlayHandler(categories CategorySource, results ResultRecorder, opts PlayOptions, log zerolog.Logger) *PlayHandler {
	return &PlayHandler{
		categories: categories,
		results:    results,
		opts:       opts,
		log:        log.With().Str("component", "play_handler").Logger(),
		upgrader:   buildUpgrader(opts.AllowedOrigins),
	}
}

// outbound is one message for the connection's writer goroutine.
type outbound struct {
	payload any
	summary *quiz.Summary // set on completion, for persistence
}

// Play godoc
// WS /ws/v1/play/:category_id[?token=...]
// Guests may play; results are stored only for signed-in users.
func (h *PlayHandler) Play(c *gin.Context) {
	id := c.Param("category_id")
	if !validCategoryID(id) {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	category, err := h.categories.GetCategory(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrCategoryNotFound)
			return
		}
		h.log.Error().Err(err).Str("category_id", id).Msg("Load category failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	var userID uuid.UUID
	if claims := middleware.GetClaims(c); claims != nil {
		userID = claims.UserID
	}

	out := make(chan outbound, outboundBuffer)
	wsLog := h.log.With().
		Str("category_id", id).
		Str("user_id", userID.String()).
		Logger()

	// Callbacks never block the engine; a client too slow to drain
	// outboundBuffer messages loses ticks rather than stalling timers.
	push := func(m outbound) bool {
		select {
		case out <- m:
			return true
		default:
			wsLog.Warn().Msg("Outbound buffer full, dropping message")
			return false
		}
	}

	session, err := quiz.NewSession(category, quiz.Options{
		QuestionTime: h.opts.QuestionTime,
		RevealDelay:  h.opts.RevealDelay,
		Clock:        h.opts.Clock,
		OnChange: func(s quiz.Snapshot) {
			push(outbound{payload: ws.NewState(s)})
		},
		OnComplete: func(sum quiz.Summary) {
			if !push(outbound{payload: ws.NewComplete(sum), summary: &sum}) && userID != uuid.Nil {
				h.results.Record(context.Background(), userID, sum)
			}
		},
	})
	if err != nil {
		wsLog.Warn().Err(err).Msg("Category cannot be played")
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrInvalidCategory)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		session.Close()
		wsLog.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	conn.SetReadLimit(ws.MaxMessageBytes)

	writerDone := make(chan struct{})
	go h.writeLoop(conn, out, userID, wsLog, writerDone)

	defer func() {
		// Close waits out in-flight callbacks, so nothing sends on out after it.
		session.Close()
		close(out)
		<-writerDone
		_ = conn.Close()
	}()

	wsLog.Info().Int("questions", len(category.Questions)).Msg("Player connected")
	push(outbound{payload: ws.NewState(session.Snapshot())})

	for {
		data, err := ws.ReadMessage(conn)
		if err != nil {
			if ws.IsClosed(err) {
				wsLog.Debug().Msg("Connection closed")
			} else {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			}
			return
		}

		var req ws.Request
		if err := json.Unmarshal(data, &req); err != nil {
			push(errorMessage(response.ErrInvalidPayload))
			continue
		}

		if reply, ok := h.dispatch(session, req); ok {
			push(reply)
		}
	}
}

// dispatch applies one client request to the session. It returns a direct
// reply when the request does not produce an engine notification.
func (h *PlayHandler) dispatch(session *quiz.Session, req ws.Request) (outbound, bool) {
	var err error
	switch req.Action {
	case ws.ActionStart:
		err = session.Start()
	case ws.ActionSelect:
		// Unpinned selects could land on the question after a timeout.
		if req.Option == nil || req.QIndex == nil {
			return errorMessage(response.ErrInvalidPayload), true
		}
		err = session.SelectAnswerAt(*req.QIndex, *req.Option)
	case ws.ActionRestart:
		err = session.Restart()
	case ws.ActionPing:
		return outbound{payload: ws.PongResponse{Event: ws.EventPong}}, true
	default:
		return errorMessage(response.ErrUnknownAction), true
	}

	if err != nil {
		return errorMessage(engineErrCode(err)), true
	}
	return outbound{}, false
}

// writeLoop is the connection's only writer. After a write failure it keeps
// draining so completions are still recorded.
func (h *PlayHandler) writeLoop(conn *websocket.Conn, out <-chan outbound, userID uuid.UUID, log zerolog.Logger, done chan<- struct{}) {
	defer close(done)

	broken := false
	for m := range out {
		if !broken {
			if err := ws.WriteTyped(conn, m.payload); err != nil {
				log.Debug().Err(err).Msg("Write failed")
				broken = true
				// Unblock the reader.
				_ = conn.Close()
			}
		}

		if m.summary != nil {
			log.Info().
				Int("score", m.summary.Score).
				Int("total", m.summary.Total).
				Str("tier", string(m.summary.Tier)).
				Msg("Quiz completed")
			if userID != uuid.Nil {
				h.results.Record(context.Background(), userID, *m.summary)
			}
		}
	}
}

func errorMessage(code response.ErrCode) outbound {
	return outbound{payload: ws.NewError(string(code), response.GetMessage(code))}
}

func engineErrCode(err error) response.ErrCode {
	switch {
	case errors.Is(err, quiz.ErrInvalidPhase):
		return response.ErrInvalidPhase
	case errors.Is(err, quiz.ErrAlreadyAnswered):
		return response.ErrAlreadyAnswered
	case errors.Is(err, quiz.ErrOptionOutOfRange):
		return response.ErrOptionOutOfRange
	case errors.Is(err, quiz.ErrStaleQuestion):
		return response.ErrStaleQuestion
	case errors.Is(err, quiz.ErrTimeExpired):
		return response.ErrTimeExpired
	default:
		return response.ErrInternal
	}
}
