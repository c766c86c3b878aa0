package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-editor/internal/shared/telemetry"
)

// Keys handlers may set on the gin context to enrich the request log line.
const (
	ResumeIDKey   = "resumeId"
	DocVersionKey = "docVersion"
	SaveStateKey  = "saveState"
	TemplateIDKey = "templateId"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"user_id":     UserIDFromContext(c),
			"is_guest":    IsGuest(c),
			"client_ip":   c.ClientIP(),
		}
		for ctxKey, logKey := range map[string]string{
			ResumeIDKey:   "resume_id",
			DocVersionKey: "doc_version",
			SaveStateKey:  "save_state",
			TemplateIDKey: "template_id",
		} {
			if v, ok := c.Get(ctxKey); ok {
				fields[logKey] = v
			}
		}
		telemetry.Info("request.complete", fields)
	}
}
