package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopnow/internal/services"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// GET /api/notifications/prompt
func (h *NotificationHandler) GetPrompt(c *gin.Context) {
	session := sessionID(c)

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"visible":    h.notificationService.PromptVisible(session),
			"permission": h.notificationService.PermissionState(session),
		},
	})
}

// POST /api/notifications/request
// Always 200: granted, denied, and capability failure are all non-fatal
// outcomes carried in the body.
func (h *NotificationHandler) RequestPermission(c *gin.Context) {
	session := sessionID(c)

	result := h.notificationService.RequestPermission(c.Request.Context(), session)

	c.JSON(http.StatusOK, gin.H{
		"data": result,
	})
}

// POST /api/notifications/dismiss
func (h *NotificationHandler) DismissPrompt(c *gin.Context) {
	session := sessionID(c)

	h.notificationService.Dismiss(session)

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"visible": false,
		},
	})
}
