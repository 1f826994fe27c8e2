package router

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/trivia-backend/internal/config"
	"github.com/stemsi/trivia-backend/internal/handler"
	"github.com/stemsi/trivia-backend/internal/model"
	"github.com/stemsi/trivia-backend/internal/quiz"
	"github.com/stemsi/trivia-backend/internal/response"
	"github.com/stemsi/trivia-backend/internal/service"
)

const validToken = "good-token"

// stub satisfies every dependency the router's handlers take.
type stub struct {
	sessionErr error
}

func (s *stub) ValidateToken(tokenStr string) (*service.Claims, error) {
	if tokenStr != validToken {
		return nil, errors.New("bad token")
	}
	return &service.Claims{UserID: uuid.New(), Username: "ana"}, nil
}

func (s *stub) ValidateSession(context.Context, *service.Claims) error { return s.sessionErr }

func (s *stub) SignUp(context.Context, model.SignUpRequest) (*model.User, error) {
	return &model.User{}, nil
}

func (s *stub) SignIn(context.Context, model.LoginRequest) (*service.TokenPair, error) {
	return &service.TokenPair{}, nil
}

func (s *stub) SignOut(context.Context, string) error { return nil }

func (s *stub) GetUser(context.Context, uuid.UUID) (*model.User, error) {
	return &model.User{}, nil
}

func (s *stub) ListSummaries(context.Context) ([]model.CategorySummary, error) {
	return []model.CategorySummary{}, nil
}

func (s *stub) GetForPlayer(context.Context, string) (*model.CategoryForPlayer, error) {
	return nil, service.ErrCategoryNotFound
}

func (s *stub) GetProfile(context.Context, uuid.UUID) (*service.Profile, error) {
	return &service.Profile{}, nil
}

func (s *stub) ListResults(context.Context, uuid.UUID, int, int) ([]model.QuizResult, *response.Pagination, error) {
	return nil, response.NewPagination(1, 10, 0), nil
}

func (s *stub) Check(context.Context) (map[string]string, bool) {
	return map[string]string{"postgres": "ok", "redis": "ok"}, true
}

func (s *stub) GetCategory(context.Context, string) (*model.Category, error) {
	return nil, service.ErrCategoryNotFound
}

func (s *stub) Record(context.Context, uuid.UUID, quiz.Summary) {}

func newTestRouter(t *testing.T, s *stub) *gin.Engine {
	t.Helper()
	log := zerolog.New(io.Discard)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	handlers := &Handlers{
		Auth:     handler.NewAuthHandler(s, s, log),
		Category: handler.NewCategoryHandler(s, log),
		Profile:  handler.NewProfileHandler(s, log),
		Health:   handler.NewHealthHandler(s),
		Play:     handler.NewPlayHandler(s, s, handler.PlayOptions{}, log),
	}
	cfg := &config.Config{GinMode: gin.TestMode}
	return SetupRouter(ctx, s, handlers, cfg, log)
}

func serve(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoutes(t *testing.T) {
	r := newTestRouter(t, &stub{})

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"category list", http.MethodGet, "/api/v1/categories", "", http.StatusOK},
		{"unknown category", http.MethodGet, "/api/v1/categories/nope", "", http.StatusNotFound},
		{"profile needs token", http.MethodGet, "/api/v1/profile", "", http.StatusUnauthorized},
		{"profile with token", http.MethodGet, "/api/v1/profile", validToken, http.StatusOK},
		{"results with token", http.MethodGet, "/api/v1/profile/results", validToken, http.StatusOK},
		{"me needs token", http.MethodGet, "/api/v1/auth/me", "", http.StatusUnauthorized},
		{"guest reaches play", http.MethodGet, "/ws/v1/play/nope", "", http.StatusNotFound},
		{"no route", http.MethodGet, "/api/v1/exams", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, tt.method, tt.path, tt.token)
			if w.Code != tt.want {
				t.Errorf("%s %s = %d, want %d (%s)", tt.method, tt.path, w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestCacheHeaders(t *testing.T) {
	r := newTestRouter(t, &stub{})

	if got := serve(r, http.MethodGet, "/api/v1/categories", "").Header().Get("Cache-Control"); got != "public, max-age=60" {
		t.Errorf("catalog Cache-Control = %q", got)
	}
	if got := serve(r, http.MethodGet, "/api/v1/profile", validToken).Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("profile Cache-Control = %q", got)
	}
}

func TestSignedOutTokenRejected(t *testing.T) {
	r := newTestRouter(t, &stub{sessionErr: service.ErrSessionInvalidated})

	if w := serve(r, http.MethodGet, "/api/v1/profile", validToken); w.Code != http.StatusUnauthorized {
		t.Errorf("profile = %d, want 401", w.Code)
	}
	if w := serve(r, http.MethodGet, "/ws/v1/play/science", validToken); w.Code != http.StatusUnauthorized {
		t.Errorf("play = %d, want 401", w.Code)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	r := newTestRouter(t, &stub{})
	if id := serve(r, http.MethodGet, "/health", "").Header().Get("X-Request-ID"); id == "" {
		t.Error("missing X-Request-ID")
	}
}
