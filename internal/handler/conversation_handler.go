package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/viahme/viah/internal/service"
)

// ConversationHandler handles couple-vendor conversations
type ConversationHandler struct {
	convService *service.ConversationService
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(convService *service.ConversationService) *ConversationHandler {
	return &ConversationHandler{convService: convService}
}

// Start opens (or returns) the conversation for a wedding, vendor and event
func (h *ConversationHandler) Start(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}
	var req service.StartConversationRequest
	if !bind(ctx, c, &req) {
		return
	}

	conv, err := h.convService.Start(ctx, userId, &req)
	reply(ctx, c, conv, err)
}

// List lists the caller's conversations, optionally for one ?wedding_id=
func (h *ConversationHandler) List(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	convs, err := h.convService.List(ctx, userId, c.Query("wedding_id"))
	reply(ctx, c, convs, err)
}

// Groups returns a wedding's conversations grouped by vendor
func (h *ConversationHandler) Groups(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	groups, err := h.convService.Groups(ctx, userId, c.Param("wedding_id"))
	reply(ctx, c, groups, err)
}

// Status returns open/closed status of a conversation
func (h *ConversationHandler) Status(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	st, err := h.convService.Status(ctx, userId, c.Param("id"))
	reply(ctx, c, st, err)
}

// Close closes a conversation with an optional reason
func (h *ConversationHandler) Close(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}
	var req service.CloseRequest
	if !bind(ctx, c, &req) {
		return
	}

	st, err := h.convService.Close(ctx, userId, c.Param("id"), req.Reason)
	reply(ctx, c, st, err)
}

// MarkRead advances the caller's read cursor; read_seq 0 means everything
func (h *ConversationHandler) MarkRead(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}
	var req service.MarkReadRequest
	if !bind(ctx, c, &req) {
		return
	}

	st, err := h.convService.MarkRead(ctx, userId, c.Param("id"), req.ReadSeq)
	reply(ctx, c, st, err)
}
