package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/viahme/viah/internal/service"
	"github.com/viahme/viah/pkg/errcode"
	"github.com/viahme/viah/pkg/response"
)

// OnlineChecker reports realtime presence
type OnlineChecker interface {
	IsOnline(ctx context.Context, userId string) bool
}

// UserHandler handles user-related requests
type UserHandler struct {
	userService *service.UserService
	online      OnlineChecker
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *service.UserService, online OnlineChecker) *UserHandler {
	return &UserHandler{userService: userService, online: online}
}

// GetUserInfo returns the caller's profile
func (h *UserHandler) GetUserInfo(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	userInfo, err := h.userService.GetUserInfo(ctx, userId)
	reply(ctx, c, userInfo, err)
}

// UpdateUserInfo updates the caller's profile
func (h *UserHandler) UpdateUserInfo(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	var req service.UpdateUserRequest
	if !bind(ctx, c, &req) {
		return
	}

	userInfo, err := h.userService.UpdateUserInfo(ctx, userId, &req)
	reply(ctx, c, userInfo, err)
}

// GetOnlineStatus reports whether a user holds a realtime connection
func (h *UserHandler) GetOnlineStatus(ctx context.Context, c *app.RequestContext) {
	userId := c.Param("user_id")
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"user_id": userId,
		"online":  h.online.IsOnline(ctx, userId),
	})
}
