package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/viahme/viah/internal/service"
)

// LeadHandler handles vendor lead capture and pipeline
type LeadHandler struct {
	leadService *service.LeadService
}

// NewLeadHandler creates a new LeadHandler
func NewLeadHandler(leadService *service.LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

// Create records a public inquiry, no auth
func (h *LeadHandler) Create(ctx context.Context, c *app.RequestContext) {
	var req service.CreateLeadRequest
	if !bind(ctx, c, &req) {
		return
	}

	lead, err := h.leadService.Create(ctx, &req)
	reply(ctx, c, lead, err)
}

// List lists a vendor's leads, optionally filtered by ?status=
func (h *LeadHandler) List(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	ls, err := h.leadService.List(ctx, userId, c.Param("vendor_id"), c.Query("status"))
	reply(ctx, c, ls, err)
}

// UpdateStatus moves a lead to another pipeline status
func (h *LeadHandler) UpdateStatus(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}
	var req service.UpdateLeadStatusRequest
	if !bind(ctx, c, &req) {
		return
	}

	lead, err := h.leadService.UpdateStatus(ctx, userId, c.Param("id"), req.Status)
	reply(ctx, c, lead, err)
}

// Analytics returns pipeline analytics for a vendor
func (h *LeadHandler) Analytics(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	a, err := h.leadService.Analytics(ctx, userId, c.Param("vendor_id"))
	reply(ctx, c, a, err)
}
