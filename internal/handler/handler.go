// Package handler adapts HTTP requests to service calls.
package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/viahme/viah/internal/middleware"
	"github.com/viahme/viah/pkg/errcode"
	"github.com/viahme/viah/pkg/response"
)

// currentUser returns the authenticated user id, writing an error response
// when there is none.
func currentUser(ctx context.Context, c *app.RequestContext) (string, bool) {
	userId := middleware.GetUserId(c)
	if userId == "" {
		response.ErrorWithCode(ctx, c, errcode.ErrUnauthorized)
		return "", false
	}
	return userId, true
}

// bind decodes the request into req, writing an error response on failure
func bind(ctx context.Context, c *app.RequestContext, req interface{}) bool {
	if err := c.BindAndValidate(req); err != nil {
		response.ErrorWithCode(ctx, c, errcode.ErrInvalidParam)
		return false
	}
	return true
}

// reply writes data or the service error
func reply(ctx context.Context, c *app.RequestContext, data interface{}, err error) {
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	response.Success(ctx, c, data)
}
