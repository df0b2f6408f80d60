package handler

import (
	"context"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/mbeoliero/kit/log"

	"github.com/viahme/viah/internal/middleware"
	"github.com/viahme/viah/internal/service"
	"github.com/viahme/viah/pkg/errcode"
	"github.com/viahme/viah/pkg/response"
)

// VendorHandler handles vendor listings and portfolio photos
type VendorHandler struct {
	vendorService    *service.VendorService
	portfolioService *service.PortfolioService
}

// NewVendorHandler creates a new VendorHandler
func NewVendorHandler(vendorService *service.VendorService, portfolioService *service.PortfolioService) *VendorHandler {
	return &VendorHandler{vendorService: vendorService, portfolioService: portfolioService}
}

// Create lists a new vendor. A duplicate name in the same city answers 409
// with the existing vendor as data.
func (h *VendorHandler) Create(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}
	var req service.CreateVendorRequest
	if !bind(ctx, c, &req) {
		return
	}

	v, err := h.vendorService.Create(ctx, userId, middleware.GetRole(c), &req)
	if errors.Is(err, errcode.ErrVendorDuplicate) {
		response.Conflict(ctx, c, errcode.ErrVendorDuplicate, v)
		return
	}
	reply(ctx, c, v, err)
}

// Get returns one vendor
func (h *VendorHandler) Get(ctx context.Context, c *app.RequestContext) {
	v, err := h.vendorService.Get(ctx, c.Param("id"))
	reply(ctx, c, v, err)
}

// List searches vendors by category and city
func (h *VendorHandler) List(ctx context.Context, c *app.RequestContext) {
	var req service.ListVendorsRequest
	if !bind(ctx, c, &req) {
		return
	}

	vs, err := h.vendorService.List(ctx, &req)
	reply(ctx, c, vs, err)
}

// ListMine lists vendors owned by the caller
func (h *VendorHandler) ListMine(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	vs, err := h.vendorService.ListMine(ctx, userId)
	reply(ctx, c, vs, err)
}

// UploadPhoto accepts a multipart "file" field plus an optional "caption"
func (h *VendorHandler) UploadPhoto(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}
	f, err := fh.Open()
	if err != nil {
		log.CtxWarn(ctx, "open upload failed: filename=%s, error=%v", fh.Filename, err)
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return
	}
	defer f.Close()

	photo, err := h.portfolioService.Upload(ctx, userId, c.Param("id"), &service.UploadPhotoRequest{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Caption:     c.PostForm("caption"),
		Body:        f,
	})
	reply(ctx, c, photo, err)
}

// ListPhotos lists a vendor's gallery
func (h *VendorHandler) ListPhotos(ctx context.Context, c *app.RequestContext) {
	ps, err := h.portfolioService.List(ctx, c.Param("id"))
	reply(ctx, c, ps, err)
}

// DeletePhoto removes one gallery photo
func (h *VendorHandler) DeletePhoto(ctx context.Context, c *app.RequestContext) {
	userId, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	err := h.portfolioService.Delete(ctx, userId, c.Param("photo_id"))
	reply(ctx, c, nil, err)
}
