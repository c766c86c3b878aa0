package respond

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"resume-editor/internal/shared/telemetry"
)

func TestErrorEnvelopeAndLevel(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	telemetry.SetLogger(zap.New(core))
	t.Cleanup(func() { telemetry.SetLogger(nil) })

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/missing", func(c *gin.Context) {
		c.Set("resumeId", "r1")
		Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
	})
	router.GET("/broken", func(c *gin.Context) {
		Error(c, http.StatusInternalServerError, "internal_error", "failed", gin.H{"retry": true})
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.JSONEq(t, `{"error":{"code":"not_found","message":"resume not found"}}`, resp.Body.String())

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/broken", nil))
	assert.JSONEq(t, `{"error":{"code":"internal_error","message":"failed","details":{"retry":true}}}`, resp.Body.String())

	entries := logs.FilterMessage("http.error").All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "r1", entries[0].ContextMap()["resume_id"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestAttachment(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/download", func(c *gin.Context) {
		Attachment(c, "abc_r1-classic.txt", "text/plain; charset=utf-8", strings.NewReader("Ada Lovelace"))
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/download", nil))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=abc_r1-classic.txt", resp.Header().Get("Content-Disposition"))
	assert.Equal(t, "Ada Lovelace", resp.Body.String())
}
