package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/viahme/viah/internal/service"
)

// NotificationHandler serves the unread badge
type NotificationHandler struct {
	notifyService *service.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifyService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifyService: notifyService}
}

// UnreadCount returns the caller's total unread messages
func (h *NotificationHandler) UnreadCount(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	n, err := h.notifyService.UnreadCount(ctx, userId)
	reply(ctx, c, n, err)
}
