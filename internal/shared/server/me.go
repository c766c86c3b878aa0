package server

import (
	"github.com/gin-gonic/gin"

	"resume-editor/internal/shared/server/middleware"
	"resume-editor/internal/shared/server/respond"
	"resume-editor/internal/shared/util"
)

type meResponse struct {
	UserID  string `json:"userId"`
	IsGuest bool   `json:"isGuest"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	// ExportNamespace prefixes every export key the caller may download.
	ExportNamespace string `json:"exportNamespace"`
}

func me(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	respond.OK(c, meResponse{
		UserID:          userID,
		IsGuest:         middleware.IsGuest(c),
		Email:           middleware.UserEmailFromContext(c),
		Name:            middleware.UserNameFromContext(c),
		ExportNamespace: util.UserNamespace(userID),
	})
}
