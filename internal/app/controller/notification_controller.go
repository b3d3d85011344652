package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/registreqc/registreqc-backend/internal/app/service"
	apperrors "github.com/registreqc/registreqc-backend/internal/errors"
	"github.com/registreqc/registreqc-backend/internal/middleware"
)

type NotificationController struct {
	notificationService service.NotificationService
}

func NewNotificationController(notificationService service.NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

// List returns the user's notifications, optionally unread only
// GET /api/v1/notifications?unread=true
func (ctrl *NotificationController) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	unreadOnly := c.Query("unread") == "true"

	notifications, err := ctrl.notificationService.ListForUser(userID, unreadOnly)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkRead marks one notification as read
// POST /api/v1/notifications/:id/read
func (ctrl *NotificationController) MarkRead(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Identifiant invalide")
		return
	}

	if err := ctrl.notificationService.MarkRead(id, userID); err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "mark notification read")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marquée comme lue"})
}

// MarkAllRead marks every notification of the user as read
// POST /api/v1/notifications/read-all
func (ctrl *NotificationController) MarkAllRead(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.notificationService.MarkAllRead(userID); err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "mark notifications read")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Toutes les notifications sont marquées comme lues"})
}
