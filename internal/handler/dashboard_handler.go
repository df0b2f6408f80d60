package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/viahme/viah/internal/service"
)

// DashboardHandler handles dashboard widget layout
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// ListWidgets returns widgets in display order
func (h *DashboardHandler) ListWidgets(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	ws, err := h.dashboardService.ListWidgets(ctx, userId, c.Param("wedding_id"))
	reply(ctx, c, ws, err)
}

// Reorder persists a full widget order
func (h *DashboardHandler) Reorder(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}
	var req service.ReorderRequest
	if !bind(ctx, c, &req) {
		return
	}

	ws, err := h.dashboardService.Reorder(ctx, userId, c.Param("wedding_id"), req.WidgetIds)
	reply(ctx, c, ws, err)
}

// SetVisibility toggles one widget
func (h *DashboardHandler) SetVisibility(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}
	var req service.VisibilityRequest
	if !bind(ctx, c, &req) {
		return
	}

	w, err := h.dashboardService.SetVisibility(ctx, userId, c.Param("id"), req.IsVisible)
	reply(ctx, c, w, err)
}
