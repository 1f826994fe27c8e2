package handler

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/trivia-backend/internal/model"
	"github.com/stemsi/trivia-backend/internal/response"
	"github.com/stemsi/trivia-backend/internal/service"
)

var categoryIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// Catalog is satisfied by *service.CategoryService.
type Catalog interface {
	ListSummaries(ctx context.Context) ([]model.CategorySummary, error)
	GetForPlayer(ctx context.Context, id string) (*model.CategoryForPlayer, error)
}

// CategoryHandler serves the category catalogue.
type CategoryHandler struct {
	catalog Catalog
	log     zerolog.Logger
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(catalog Catalog, log zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{
		catalog: catalog,
		log:     log.With().Str("component", "category_handler").Logger(),
	}
}

// List godoc
// GET /api/v1/categories
func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.catalog.ListSummaries(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("List categories failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, list)
}

// Get godoc
// GET /api/v1/categories/:category_id
// Returns the category and its questions without the answer key.
func (h *CategoryHandler) Get(c *gin.Context) {
	id := c.Param("category_id")
	if !validCategoryID(id) {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	cat, err := h.catalog.GetForPlayer(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrCategoryNotFound)
			return
		}
		h.log.Error().Err(err).Str("category_id", id).Msg("Get category failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, cat)
}

func validCategoryID(id string) bool {
	return categoryIDPattern.MatchString(id)
}
