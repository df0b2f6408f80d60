package middleware

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/viahme/viah/internal/config"
	"github.com/viahme/viah/pkg/errcode"
	"github.com/viahme/viah/pkg/jwt"
	"github.com/viahme/viah/pkg/response"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer token
	BearerPrefix = "Bearer "
	// UserIdKey is the context key for user Id
	UserIdKey = "user_id"
	// RoleKey is the context key for the user role
	RoleKey = "role"
	// TokenKey is the context key for the raw bearer token
	TokenKey = "token"
)

// TokenValidator checks a token against the revocation store
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*jwt.Claims, error)
}

// JWTAuth is the JWT authentication middleware. With a nil validator only
// the signature and expiry are checked.
func JWTAuth(validator TokenValidator) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		authHeader := string(c.GetHeader(AuthorizationHeader))
		if authHeader == "" {
			response.ErrorWithCode(ctx, c, errcode.ErrTokenMissing)
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			response.ErrorWithCode(ctx, c, errcode.ErrTokenInvalid)
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		claims, err := parseToken(ctx, validator, tokenString)
		if err != nil {
			if e, ok := errcode.As(err); ok {
				response.ErrorWithCode(ctx, c, e)
			} else {
				response.ErrorWithCode(ctx, c, errcode.ErrTokenInvalid)
			}
			c.Abort()
			return
		}

		c.Set(UserIdKey, claims.UserId)
		c.Set(RoleKey, claims.Role)
		c.Set(TokenKey, tokenString)

		c.Next(ctx)
	}
}

func parseToken(ctx context.Context, validator TokenValidator, token string) (*jwt.Claims, error) {
	if validator != nil {
		return validator.ValidateToken(ctx, token)
	}
	return jwt.ParseToken(token, config.GlobalConfig.JWT.Secret)
}

// GetUserId gets user Id from context
func GetUserId(c *app.RequestContext) string {
	return c.GetString(UserIdKey)
}

// GetRole gets the user role from context
func GetRole(c *app.RequestContext) string {
	return c.GetString(RoleKey)
}

// GetToken gets the bearer token from context
func GetToken(c *app.RequestContext) string {
	return c.GetString(TokenKey)
}
