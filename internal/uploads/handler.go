package uploads

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"docqa-backend/internal/engine"
	"docqa-backend/internal/shared/server/middleware"
	"docqa-backend/internal/shared/server/respond"
)

const maxUploadSize = 50 << 20 // generous; the page cap is the real limit

// Handler accepts document uploads.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches upload routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload/file", h.upload)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("document")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "no file uploaded", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	result, err := h.Svc.Submit(c.Request.Context(), userID, fileHeader.Filename, data)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Set("documentId", result.DocumentID)
	respond.OK(c, gin.H{
		"message":    "file uploaded, indexed, and metadata saved successfully",
		"documentId": result.DocumentID,
		"numPages":   result.NumPages,
		"numChunks":  result.NumChunks,
	})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	var pageErr *PageLimitError
	var exitErr *engine.ExitError

	switch {
	case errors.Is(err, ErrNoFile), errors.Is(err, ErrUnreadableDocument):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrTooManyDocuments):
		respond.Error(c, http.StatusBadRequest, "limit_exceeded", err.Error(), nil)
	case errors.As(err, &pageErr):
		respond.Error(c, http.StatusBadRequest, "limit_exceeded", pageErr.Error(), nil)
	case errors.As(err, &exitErr):
		respond.Error(c, http.StatusInternalServerError, "engine_failure", "error processing document in ingestion pipeline", exitErr.Stderr)
	case errors.Is(err, ErrPersistence):
		respond.Error(c, http.StatusInternalServerError, "persistence_failure", "failed to save document metadata", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "server error while uploading file", nil)
	}
}
