package editing

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-editor/internal/resumes"
	"resume-editor/internal/shared/server/middleware"
	"resume-editor/internal/shared/server/respond"
	"resume-editor/resume/model"
	"resume-editor/resume/ordering"
	"resume-editor/resume/session"
)

const maxPatchSize = 256 << 10 // 256KB

// Handler exposes editing sessions over HTTP.
type Handler struct {
	Sessions *Manager
}

// NewHandler constructs a Handler.
func NewHandler(m *Manager) *Handler {
	return &Handler{Sessions: m}
}

// RegisterRoutes attaches session routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	s := rg.Group("/resumes/:id/session")
	s.POST("", h.open)
	s.GET("", h.state)
	s.DELETE("", h.close)
	s.GET("/status", h.status)
	s.POST("/save", h.saveNow)
	s.GET("/render/:template", h.render)

	s.PATCH("/title", h.updateTitle)
	s.PATCH("/personal-details", h.updatePersonalDetails)
	s.PATCH("/summary", h.updateSummary)
	s.PUT("/sections-order", h.reorderSections)

	s.POST("/sections/:section/move", h.moveSection)
	s.POST("/sections/:section/toggle", h.toggleSection)
	s.PATCH("/sections/:section/title", h.updateSectionTitle)
	s.PUT("/sections/:section/order", h.reorderItems)
	s.POST("/sections/:section/items", h.addItem)
	s.PATCH("/sections/:section/items/:itemId", h.updateItem)
	s.DELETE("/sections/:section/items/:itemId", h.deleteItem)
	s.POST("/sections/:section/items/:itemId/move", h.moveItem)
	s.POST("/sections/:section/items/:itemId/toggle", h.toggleItem)
	s.POST("/sections/:section/items/:itemId/skills", h.addProjectSkill)
	s.DELETE("/sections/:section/items/:itemId/skills/:skillId", h.removeProjectSkill)
}

// session opens or fetches the caller's session, writing the error response
// when that fails.
func (h *Handler) session(c *gin.Context) (*Session, bool) {
	userID := middleware.UserIDFromContext(c)
	c.Set(middleware.ResumeIDKey, c.Param("id"))
	sess, err := h.Sessions.Open(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, resumes.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
			return nil, false
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to open session", nil)
		return nil, false
	}
	return sess, true
}

func (h *Handler) open(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	writeState(c, http.StatusCreated, sess)
}

func (h *Handler) state(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	writeState(c, http.StatusOK, sess)
}

func (h *Handler) close(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	st, ok := h.Sessions.Close(c.Request.Context(), userID, c.Param("id"))
	if !ok {
		respond.Error(c, http.StatusNotFound, "not_found", "session not open", nil)
		return
	}
	respond.OK(c, st)
}

func (h *Handler) status(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	sess, ok := h.Sessions.Lookup(userID, c.Param("id"))
	if !ok {
		respond.Error(c, http.StatusNotFound, "not_found", "session not open", nil)
		return
	}
	respond.OK(c, sess.Scheduler.Status())
}

func (h *Handler) saveNow(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	respond.OK(c, mutationResponse{Version: sess.Store.Version(), Status: sess.Scheduler.SaveNow()})
}

func (h *Handler) render(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.Set(middleware.TemplateIDKey, c.Param("template"))
	out, err := h.Sessions.Project(c.Request.Context(), sess, c.Param("template"))
	if err != nil {
		resumes.WriteRenderError(c, err)
		return
	}
	resumes.WriteProjection(c, out, c.Query("format"))
}

func (h *Handler) updateTitle(c *gin.Context) {
	var req titleRequest
	if !bind(c, &req) {
		return
	}
	h.mutate(c, func(s *session.Store) (int, error) {
		return 0, s.UpdateTitle(req.Title)
	})
}

func (h *Handler) updatePersonalDetails(c *gin.Context) {
	var patch model.PersonalDetailsPatch
	if !bind(c, &patch) {
		return
	}
	h.mutate(c, func(s *session.Store) (int, error) {
		return 0, s.UpdatePersonalDetails(patch)
	})
}

func (h *Handler) updateSummary(c *gin.Context) {
	var req summaryRequest
	if !bind(c, &req) {
		return
	}
	if req.Summary == nil && req.SectionTitle == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "summary or sectionTitle is required", nil)
		return
	}
	h.mutate(c, func(s *session.Store) (int, error) {
		if req.SectionTitle != nil {
			if err := s.UpdateSummaryTitle(*req.SectionTitle); err != nil {
				return 0, err
			}
		}
		if req.Summary != nil {
			return 0, s.UpdateSummary(*req.Summary)
		}
		return 0, nil
	})
}

func (h *Handler) reorderSections(c *gin.Context) {
	var req sectionsOrderRequest
	if !bind(c, &req) {
		return
	}
	h.mutate(c, func(s *session.Store) (int, error) {
		return 0, s.ReorderSections(req.Keys)
	})
}

func (h *Handler) moveSection(c *gin.Context) {
	key, ok := sectionParam(c)
	if !ok {
		return
	}
	var req moveSectionRequest
	if !bind(c, &req) {
		return
	}
	placement, err := ordering.ParsePlacement(req.Placement)
	if err != nil {
		writeMutationError(c, err)
		return
	}
	h.mutate(c, func(s *session.Store) (int, error) {
		return 0, s.MoveSection(key, req.Target, placement)
	})
}

func (h *Handler) toggleSection(c *gin.Context) {
	key, ok := sectionParam(c)
	if !ok {
		return
	}
	h.mutate(c, func(s *session.Store) (int, error) {
		return 0, s.ToggleSectionVisibility(key)
	})
}

func (h *Handler) updateSectionTitle(c *gin.Context) {
	key, ok := sectionParam(c)
	if !ok {
		return
	}
	var req titleRequest
	if !bind(c, &req) {
		return
	}
	h.mutate(c, func(s *session.Store) (int, error) {
		return 0, s.UpdateSectionTitle(key, req.Title)
	})
}

func (h *Handler) reorderItems(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	var req itemsOrderRequest
	if !bind(c, &req) {
		return
	}
	h.mutate(c, func(s *session.Store) (int, error) {
		return 0, s.ReorderItems(kind, req.IDs)
	})
}

func (h *Handler) addItem(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	raw, ok := readBody(c)
	if !ok {
		return
	}
	entry, err := model.DecodeEntry(kind, raw)
	if err != nil {
		writeMutationError(c, err)
		return
	}
	sess, ok := h.session(c)
	if !ok {
		return
	}
	id, err := sess.Store.AddItem(entry)
	if err != nil {
		writeMutationError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, mutationResponse{
		Version: sess.Store.Version(),
		ID:      id,
		Status:  sess.Scheduler.Status(),
	})
}

func (h *Handler) updateItem(c *gin.Context) {
	kind, id, ok := itemParams(c)
	if !ok {
		return
	}
	raw, ok := readBody(c)
	if !ok {
		return
	}
	patch, err := model.DecodePatch(kind, raw)
	if err != nil {
		writeMutationError(c, err)
		return
	}
	h.mutate(c, func(s *session.Store) (int, error) {
		return 0, s.UpdateItem(id, patch)
	})
}

func (h *Handler) deleteItem(c *gin.Context) {
	kind, id, ok := itemParams(c)
	if !ok {
		return
	}
	h.mutate(c, func(s *session.Store) (int, error) {
		removed, err := s.DeleteItem(kind, id)
		if err == nil && !removed {
			return 0, session.ErrItemNotFound
		}
		return 0, err
	})
}

func (h *Handler) moveItem(c *gin.Context) {
	kind, id, ok := itemParams(c)
	if !ok {
		return
	}
	var req moveItemRequest
	if !bind(c, &req) {
		return
	}
	if req.ToIndex == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "toIndex is required", nil)
		return
	}
	h.mutate(c, func(s *session.Store) (int, error) {
		return 0, s.MoveItem(kind, id, *req.ToIndex)
	})
}

func (h *Handler) toggleItem(c *gin.Context) {
	kind, id, ok := itemParams(c)
	if !ok {
		return
	}
	h.mutate(c, func(s *session.Store) (int, error) {
		return 0, s.ToggleItemVisibility(kind, id)
	})
}

func (h *Handler) addProjectSkill(c *gin.Context) {
	kind, id, ok := itemParams(c)
	if !ok {
		return
	}
	if kind != model.KindProject {
		respond.Error(c, http.StatusBadRequest, "validation_error", "skills can only be added to projects", nil)
		return
	}
	var req skillRequest
	if !bind(c, &req) {
		return
	}
	sess, ok := h.session(c)
	if !ok {
		return
	}
	skillID, err := sess.Store.AddProjectSkill(id, req.Skill)
	if err != nil {
		writeMutationError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, mutationResponse{
		Version: sess.Store.Version(),
		ID:      skillID,
		Status:  sess.Scheduler.Status(),
	})
}

func (h *Handler) removeProjectSkill(c *gin.Context) {
	kind, id, ok := itemParams(c)
	if !ok {
		return
	}
	if kind != model.KindProject {
		respond.Error(c, http.StatusBadRequest, "validation_error", "skills belong to projects", nil)
		return
	}
	skillID, err := strconv.Atoi(c.Param("skillId"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "skillId must be an integer", nil)
		return
	}
	h.mutate(c, func(s *session.Store) (int, error) {
		return 0, s.RemoveProjectSkill(id, skillID)
	})
}

// mutate runs op against the caller's session and writes the new version.
func (h *Handler) mutate(c *gin.Context, op func(s *session.Store) (int, error)) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	id, err := op(sess.Store)
	if err != nil {
		writeMutationError(c, err)
		return
	}
	version, st := sess.Store.Version(), sess.Scheduler.Status()
	c.Set(middleware.DocVersionKey, version)
	c.Set(middleware.SaveStateKey, string(st.State))
	respond.OK(c, mutationResponse{Version: version, ID: id, Status: st})
}

func writeState(c *gin.Context, status int, sess *Session) {
	doc, version := sess.Store.Snapshot()
	respond.JSON(c, status, sessionResponse{
		Document: doc,
		Version:  version,
		Status:   sess.Scheduler.Status(),
	})
}

func writeMutationError(c *gin.Context, err error) {
	var ve *model.ValidationError
	switch {
	case errors.Is(err, session.ErrItemNotFound):
		respond.Error(c, http.StatusNotFound, "item_not_found", err.Error(), nil)
	case errors.As(err, &ve):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), gin.H{"field": ve.Field})
	case errors.Is(err, model.ErrInvariant):
		respond.Error(c, http.StatusUnprocessableEntity, "invariant_violation", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to apply change", nil)
	}
}

func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return false
	}
	return true
}

func readBody(c *gin.Context) (rawBody, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPatchSize)
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil || len(raw) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "request body is required", nil)
		return nil, false
	}
	return raw, true
}

func sectionParam(c *gin.Context) (model.SectionKey, bool) {
	key, err := model.ParseSectionKey(c.Param("section"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return "", false
	}
	return key, true
}

func kindParam(c *gin.Context) (model.Kind, bool) {
	key, ok := sectionParam(c)
	if !ok {
		return "", false
	}
	kind, ok := key.Kind()
	if !ok {
		respond.Error(c, http.StatusBadRequest, "validation_error", "section "+string(key)+" has no items", nil)
		return "", false
	}
	return kind, true
}

func itemParams(c *gin.Context) (model.Kind, int, bool) {
	kind, ok := kindParam(c)
	if !ok {
		return "", 0, false
	}
	id, err := strconv.Atoi(c.Param("itemId"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "itemId must be an integer", nil)
		return "", 0, false
	}
	return kind, id, true
}
