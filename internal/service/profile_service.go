package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stemsi/trivia-backend/internal/model"
	"github.com/stemsi/trivia-backend/internal/repository"
	"github.com/stemsi/trivia-backend/internal/response"
)

// ErrUserNotFound is returned when the token's user no longer exists.
var ErrUserNotFound = errors.New("user not found")

const recentResultsLimit = 5

// Profile is a user's account data plus their play history overview.
type Profile struct {
	User          *model.User        `json:"user"`
	Stats         model.ResultStats  `json:"stats"`
	RecentResults []model.QuizResult `json:"recent_results"`
}

// ProfileService serves account and history data.
type ProfileService struct {
	userRepo   *repository.UserRepository
	resultRepo *repository.ResultRepository
	log        zerolog.Logger
}

// NewProfileService creates a new ProfileService.
func NewProfileService(userRepo *repository.UserRepository, resultRepo *repository.ResultRepository, log zerolog.Logger) *ProfileService {
	return &ProfileService{
		userRepo:   userRepo,
		resultRepo: resultRepo,
		log:        log.With().Str("component", "profile_service").Logger(),
	}
}

// GetUser returns the account for id.
func (s *ProfileService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetProfile returns the account, aggregate stats, and the latest results.
func (s *ProfileService) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	stats, err := s.resultRepo.Stats(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("result stats: %w", err)
	}

	recent, _, err := s.resultRepo.ListByUser(ctx, id, recentResultsLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("recent results: %w", err)
	}

	return &Profile{User: u, Stats: stats, RecentResults: recent}, nil
}

// ListResults returns a page of the user's results, newest first.
func (s *ProfileService) ListResults(ctx context.Context, id uuid.UUID, page, perPage int) ([]model.QuizResult, *response.Pagination, error) {
	page, perPage = normalizePage(page, perPage)

	results, total, err := s.resultRepo.ListByUser(ctx, id, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, fmt.Errorf("list results: %w", err)
	}
	if results == nil {
		results = []model.QuizResult{}
	}

	return results, response.NewPagination(page, perPage, total), nil
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage
}
