package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/viahme/viah/internal/service"
)

// BookingHandler handles bookings and contracts
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Create opens a booking inquiry
func (h *BookingHandler) Create(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}
	var req service.CreateBookingRequest
	if !bind(ctx, c, &req) {
		return
	}

	b, err := h.bookingService.Create(ctx, userId, &req)
	reply(ctx, c, b, err)
}

// ListByVendor lists bookings of a vendor the caller owns
func (h *BookingHandler) ListByVendor(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	bs, err := h.bookingService.ListByVendor(ctx, userId, c.Param("vendor_id"))
	reply(ctx, c, bs, err)
}

// ListByWedding lists bookings of a wedding the caller owns
func (h *BookingHandler) ListByWedding(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	bs, err := h.bookingService.ListByWedding(ctx, userId, c.Param("wedding_id"))
	reply(ctx, c, bs, err)
}

// UpdateStatus moves a booking through its lifecycle
func (h *BookingHandler) UpdateStatus(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}
	var req service.UpdateStatusRequest
	if !bind(ctx, c, &req) {
		return
	}

	b, err := h.bookingService.UpdateStatus(ctx, userId, c.Param("id"), req.Status)
	reply(ctx, c, b, err)
}

// CreateContract attaches a contract with payment milestones to a booking
func (h *BookingHandler) CreateContract(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}
	var req service.CreateContractRequest
	if !bind(ctx, c, &req) {
		return
	}

	ct, err := h.bookingService.CreateContract(ctx, userId, &req)
	reply(ctx, c, ct, err)
}

// ListContracts lists a wedding's contracts
func (h *BookingHandler) ListContracts(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	cs, err := h.bookingService.ListContracts(ctx, userId, c.Param("wedding_id"))
	reply(ctx, c, cs, err)
}
