package exports

import (
	"errors"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"resume-editor/internal/resumes"
	"resume-editor/internal/shared/server/middleware"
	"resume-editor/internal/shared/server/respond"
	"resume-editor/internal/shared/storage/object"
	"resume-editor/resume/render"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches export routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes/:id/exports", h.create)
	rg.GET("/exports/download", h.download)
}

type exportRequest struct {
	Templates []string `json:"templates"`
	Formats   []string `json:"formats"`
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	artifacts, err := h.Svc.Export(c.Request.Context(), userID, c.Param("id"), Request{
		Templates: req.Templates,
		Formats:   req.Formats,
	})
	if err != nil {
		switch {
		case errors.Is(err, resumes.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
		case errors.Is(err, render.ErrUnknownTemplate):
			respond.Error(c, http.StatusNotFound, "template_not_found", err.Error(), nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to export resume", nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"artifacts": artifacts})
}

func (h *Handler) download(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
		return
	}

	key := c.Query("key")
	link, ok, err := h.Svc.DownloadURL(c.Request.Context(), userID, key)
	if err != nil {
		writeDownloadError(c, err)
		return
	}
	if ok {
		c.Redirect(http.StatusFound, link)
		return
	}

	reader, contentType, err := h.Svc.Open(c.Request.Context(), userID, key)
	if err != nil {
		writeDownloadError(c, err)
		return
	}
	defer reader.Close()

	respond.Attachment(c, path.Base(key), contentType, reader)
}

func writeDownloadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "access denied", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, object.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "export not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load export", nil)
	}
}
