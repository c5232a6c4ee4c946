package search

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docqa-backend/internal/engine"
	"docqa-backend/internal/shared/server/respond"
)

// Handler exposes the search endpoint.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches search routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.search)
}

func (h *Handler) search(c *gin.Context) {
	result, err := h.Svc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond.OK(c, result)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	var exitErr *engine.ExitError
	var malformed *engine.MalformedOutputError

	switch {
	case errors.Is(err, ErrEmptyQuery):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrMissingAPIKey):
		respond.Error(c, http.StatusInternalServerError, "configuration_error", err.Error(), nil)
	case errors.As(err, &exitErr):
		respond.Error(c, http.StatusInternalServerError, "engine_failure", "error running search", exitErr.Stderr)
	case errors.As(err, &malformed):
		respond.Error(c, http.StatusInternalServerError, "malformed_engine_output", "invalid output from search engine", malformed.Raw)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "server error while searching", nil)
	}
}
