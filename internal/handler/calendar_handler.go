package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/viahme/viah/internal/service"
)

// CalendarHandler starts calendar provider connections
type CalendarHandler struct {
	calendarService *service.CalendarService
}

// NewCalendarHandler creates a new CalendarHandler
func NewCalendarHandler(calendarService *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService}
}

// AuthURL returns the provider's authorize URL for the caller
func (h *CalendarHandler) AuthURL(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	resp, err := h.calendarService.AuthURL(ctx, userId, c.Param("provider"))
	reply(ctx, c, resp, err)
}

// Callback verifies the provider redirect's state. The redirect arrives from
// the browser without a bearer token.
func (h *CalendarHandler) Callback(ctx context.Context, c *app.RequestContext) {
	res, err := h.calendarService.VerifyCallback(ctx, c.Param("provider"), c.Query("state"), c.Query("code"))
	reply(ctx, c, res, err)
}
