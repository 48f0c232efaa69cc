package handlers

import (
	"context"
	"errors"

	"github.com/dotlib/dotlib-api/internal/middleware"
	"github.com/dotlib/dotlib-api/internal/services"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type NotificationHandler struct {
	notificationService NotificationServiceInterface
}

func NewNotificationHandler(notificationService NotificationServiceInterface) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	notifications, err := h.notificationService.GetUnread(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to get notifications")
		return
	}

	_ = c.JSON(200, notifications)
}

func (h *NotificationHandler) MarkAsRead(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid notification id")
		return
	}

	if err := h.notificationService.MarkAsRead(context.Background(), notificationID, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotificationNotFound):
			c.NotFound("notification not found")
		case errors.Is(err, services.ErrUnauthorized):
			c.Forbidden("not your notification")
		default:
			c.InternalServerError("failed to mark notification as read")
		}
		return
	}

	_ = c.JSON(200, map[string]string{"message": "notification read"})
}
