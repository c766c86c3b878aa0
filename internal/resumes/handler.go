package resumes

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-editor/internal/shared/metrics"
	"resume-editor/internal/shared/server/middleware"
	"resume-editor/internal/shared/server/respond"
	"resume-editor/resume/model"
	"resume-editor/resume/render"
)

const maxDocumentSize = 1 << 20 // 1MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc       *Service
	Templates *render.Registry
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, templates *render.Registry) *Handler {
	return &Handler{Svc: svc, Templates: templates}
}

// RegisterRoutes attaches resume and template routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/templates", h.templates)
	rg.GET("/resumes", h.list)
	rg.POST("/resumes", h.create)
	rg.GET("/resumes/:id", h.get)
	rg.PUT("/resumes/:id", h.update)
	rg.PATCH("/resumes/:id/title", h.updateTitle)
	rg.DELETE("/resumes/:id", h.delete)
	rg.GET("/resumes/:id/render/:template", h.render)
}

func (h *Handler) templates(c *gin.Context) {
	respond.JSON(c, http.StatusOK, h.Templates.Templates())
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if limit > 100 {
		limit = 100
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	items, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list resumes", nil)
		return
	}

	resp := make([]summaryResponse, 0, len(items))
	for _, s := range items {
		resp = append(resp, toSummaryResponse(s))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}

	doc, err := h.Svc.Create(c.Request.Context(), userID, CreateInput{
		Mode:     req.Mode,
		Title:    req.Title,
		JobID:    req.JobID,
		JobTitle: req.JobTitle,
	})
	if err != nil {
		h.fail(c, err, "failed to create resume")
		return
	}
	respond.JSON(c, http.StatusCreated, doc)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	doc, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to fetch resume")
		return
	}
	respond.JSON(c, http.StatusOK, doc)
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxDocumentSize)
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read request body", nil)
		return
	}
	if err := ValidateDocumentJSON(raw); err != nil {
		h.fail(c, err, "failed to update resume")
		return
	}

	var doc model.Document
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&doc); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	saved, err := h.Svc.Update(c.Request.Context(), userID, c.Param("id"), doc)
	if err != nil {
		h.fail(c, err, "failed to update resume")
		return
	}
	respond.JSON(c, http.StatusOK, saved)
}

func (h *Handler) updateTitle(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req titleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	id := c.Param("id")
	title, updatedAt, err := h.Svc.UpdateTitle(c.Request.Context(), userID, id, req.Title)
	if err != nil {
		h.fail(c, err, "failed to rename resume")
		return
	}
	respond.JSON(c, http.StatusOK, titleResponse{ID: id, Title: title, UpdatedAt: updatedAt})
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.fail(c, err, "failed to delete resume")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) render(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	doc, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.fail(c, err, "failed to fetch resume")
		return
	}
	out, err := h.Templates.Project(&doc, c.Param("template"))
	if err != nil {
		WriteRenderError(c, err)
		return
	}
	metrics.IncProjections()
	WriteProjection(c, out, c.Query("format"))
}

func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	case IsInvalid(err):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), validationDetails(err))
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

// WriteRenderError maps projection failures onto HTTP errors.
func WriteRenderError(c *gin.Context, err error) {
	if errors.Is(err, render.ErrUnknownTemplate) {
		respond.Error(c, http.StatusNotFound, "template_not_found", err.Error(), nil)
		return
	}
	respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to render resume", nil)
}

// WriteProjection writes a projected document as JSON, HTML or plain text.
func WriteProjection(c *gin.Context, out render.RenderableDocument, format string) {
	var buf bytes.Buffer
	switch format {
	case "", render.FormatJSON:
		respond.JSON(c, http.StatusOK, out)
		return
	case render.FormatHTML:
		if err := render.WriteHTML(&buf, out); err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to render resume", nil)
			return
		}
		respond.Body(c, "text/html; charset=utf-8", buf.Bytes())
	case render.FormatText:
		if err := render.WriteText(&buf, out); err != nil {
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to render resume", nil)
			return
		}
		respond.Body(c, "text/plain; charset=utf-8", buf.Bytes())
	default:
		respond.Error(c, http.StatusBadRequest, "validation_error", "unsupported format "+strconv.Quote(format), nil)
	}
}
