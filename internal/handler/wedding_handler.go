package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/viahme/viah/internal/middleware"
	"github.com/viahme/viah/internal/service"
)

// WeddingHandler handles weddings, their events and the public website
type WeddingHandler struct {
	weddingService *service.WeddingService
}

// NewWeddingHandler creates a new WeddingHandler
func NewWeddingHandler(weddingService *service.WeddingService) *WeddingHandler {
	return &WeddingHandler{weddingService: weddingService}
}

// Create creates a wedding for the calling couple
func (h *WeddingHandler) Create(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}
	var req service.CreateWeddingRequest
	if !bind(ctx, c, &req) {
		return
	}

	w, err := h.weddingService.Create(ctx, userId, middleware.GetRole(c), &req)
	reply(ctx, c, w, err)
}

// List lists the caller's weddings
func (h *WeddingHandler) List(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	ws, err := h.weddingService.List(ctx, userId)
	reply(ctx, c, ws, err)
}

// Get returns one wedding
func (h *WeddingHandler) Get(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	w, err := h.weddingService.Get(ctx, userId, c.Param("id"))
	reply(ctx, c, w, err)
}

// Update applies a partial update
func (h *WeddingHandler) Update(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}
	var req service.UpdateWeddingRequest
	if !bind(ctx, c, &req) {
		return
	}

	w, err := h.weddingService.Update(ctx, userId, c.Param("id"), &req)
	reply(ctx, c, w, err)
}

// Delete removes a wedding
func (h *WeddingHandler) Delete(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	err := h.weddingService.Delete(ctx, userId, c.Param("id"))
	reply(ctx, c, nil, err)
}

// CreateEvent adds an event (Mehndi, Sangeet, ...) to a wedding
func (h *WeddingHandler) CreateEvent(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}
	var req service.EventRequest
	if !bind(ctx, c, &req) {
		return
	}

	e, err := h.weddingService.CreateEvent(ctx, userId, c.Param("id"), &req)
	reply(ctx, c, e, err)
}

// ListEvents lists a wedding's events
func (h *WeddingHandler) ListEvents(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	es, err := h.weddingService.ListEvents(ctx, userId, c.Param("id"))
	reply(ctx, c, es, err)
}

// UpdateEvent replaces an event's fields
func (h *WeddingHandler) UpdateEvent(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}
	var req service.EventRequest
	if !bind(ctx, c, &req) {
		return
	}

	e, err := h.weddingService.UpdateEvent(ctx, userId, c.Param("id"), &req)
	reply(ctx, c, e, err)
}

// DeleteEvent removes an event
func (h *WeddingHandler) DeleteEvent(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	err := h.weddingService.DeleteEvent(ctx, userId, c.Param("id"))
	reply(ctx, c, nil, err)
}

// SaveWebsite creates or updates the wedding website
func (h *WeddingHandler) SaveWebsite(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}
	var req service.WebsiteRequest
	if !bind(ctx, c, &req) {
		return
	}

	site, err := h.weddingService.SaveWebsite(ctx, userId, c.Param("id"), &req)
	reply(ctx, c, site, err)
}

// GetWebsite returns the wedding website settings
func (h *WeddingHandler) GetWebsite(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	site, err := h.weddingService.GetWebsite(ctx, userId, c.Param("id"))
	reply(ctx, c, site, err)
}

// PublicSite serves a published website by slug, no auth
func (h *WeddingHandler) PublicSite(ctx context.Context, c *app.RequestContext) {
	site, err := h.weddingService.PublicSite(ctx, c.Param("slug"))
	reply(ctx, c, site, err)
}
