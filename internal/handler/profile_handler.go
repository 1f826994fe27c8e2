package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/trivia-backend/internal/middleware"
	"github.com/stemsi/trivia-backend/internal/model"
	"github.com/stemsi/trivia-backend/internal/response"
	"github.com/stemsi/trivia-backend/internal/service"
	"github.com/stemsi/trivia-backend/internal/validator"
)

// ProfileReader is satisfied by *service.ProfileService.
type ProfileReader interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*service.Profile, error)
	ListResults(ctx context.Context, id uuid.UUID, page, perPage int) ([]model.QuizResult, *response.Pagination, error)
}

// ProfileHandler serves the signed-in user's profile and history.
type ProfileHandler struct {
	profiles ProfileReader
	log      zerolog.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles ProfileReader, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		log:      log.With().Str("component", "profile_handler").Logger(),
	}
}

// Get godoc
// GET /api/v1/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	profile, err := h.profiles.GetProfile(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		h.log.Error().Err(err).Str("user_id", claims.UserID.String()).Msg("Get profile failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

// ListResults godoc
// GET /api/v1/profile/results?page=&per_page=
func (h *ProfileHandler) ListResults(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var q model.ListResultsQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	results, pagination, err := h.profiles.ListResults(c.Request.Context(), claims.UserID, q.Page, q.PerPage)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", claims.UserID.String()).Msg("List results failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, results, pagination)
}
