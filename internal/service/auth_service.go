package service

import (
	"context"
	"strings"

	"github.com/mbeoliero/kit/log"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/viahme/viah/internal/config"
	"github.com/viahme/viah/internal/entity"
	"github.com/viahme/viah/internal/repository"
	"github.com/viahme/viah/pkg/constant"
	"github.com/viahme/viah/pkg/errcode"
	"github.com/viahme/viah/pkg/idgen"
	"github.com/viahme/viah/pkg/jwt"
)

const minPasswordLen = 8

// AuthService handles authentication logic
type AuthService struct {
	userRepo   *repository.UserRepo
	cfg        *config.Config
	tokenStore *jwt.TokenStore
	pusher     Pusher
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo *repository.UserRepo, cfg *config.Config, rdb *redis.Client) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		cfg:        cfg,
		tokenStore: jwt.NewTokenStore(rdb, cfg.JWT.ExpireHours, constant.RedisKeyToken()),
	}
}

// SetPusher sets the realtime pusher used to close sessions on logout
func (s *AuthService) SetPusher(pusher Pusher) {
	s.pusher = pusher
}

// RegisterRequest represents account registration request
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
	Avatar   string `json:"avatar,omitempty"`
}

// LoginRequest represents login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents login response
type LoginResponse struct {
	Token    string           `json:"token"`
	UserInfo *entity.UserInfo `json:"user_info"`
}

// Register creates a couple or vendor account
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*entity.UserInfo, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") || len(req.Password) < minPasswordLen {
		return nil, errcode.ErrInvalidParam
	}
	role := req.Role
	if role == "" {
		role = constant.RoleCouple
	}
	if !entity.ValidRole(role) {
		return nil, errcode.ErrInvalidParam
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		log.CtxError(ctx, "check user exists failed: email=%s, error=%v", email, err)
		return nil, errcode.ErrInternalServer
	}
	if existing != nil {
		return nil, errcode.ErrUserExists
	}

	userId, err := idgen.NextID()
	if err != nil {
		log.CtxError(ctx, "generate user id failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.CtxError(ctx, "hash password failed: %v", err)
		return nil, errcode.ErrInternalServer
	}

	user := &entity.User{
		Id:       userId,
		Email:    email,
		Nickname: strings.TrimSpace(req.Nickname),
		Avatar:   req.Avatar,
		Password: string(hashedPassword),
		Role:     role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		log.CtxError(ctx, "create user failed: email=%s, error=%v", email, err)
		return nil, errcode.ErrInternalServer
	}

	log.CtxInfo(ctx, "user registered: user_id=%s, role=%s", userId, role)
	return user.ToUserInfo(), nil
}

// Login authenticates by email and password and issues a token
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, errcode.ErrInvalidParam
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		log.CtxError(ctx, "get user failed: email=%s, error=%v", email, err)
		return nil, errcode.ErrInternalServer
	}
	if user == nil {
		return nil, errcode.ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errcode.ErrPasswordWrong
	}

	token, err := jwt.GenerateToken(user.Id, user.Role, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		log.CtxError(ctx, "generate token failed: user_id=%s, error=%v", user.Id, err)
		return nil, errcode.ErrInternalServer
	}

	if err := s.tokenStore.StoreToken(ctx, user.Id, token); err != nil {
		log.CtxError(ctx, "store token failed: user_id=%s, error=%v", user.Id, err)
		return nil, errcode.ErrInternalServer
	}

	// Logged-out tokens linger in the hash until swept here
	if err := s.tokenStore.CleanInvalidTokens(ctx, user.Id); err != nil {
		log.CtxWarn(ctx, "clean invalid tokens failed: user_id=%s, error=%v", user.Id, err)
	}

	log.CtxInfo(ctx, "user logged in: user_id=%s", user.Id)
	return &LoginResponse{
		Token:    token,
		UserInfo: user.ToUserInfo(),
	}, nil
}

// ValidateToken validates a token and returns claims
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := jwt.ParseToken(token, s.cfg.JWT.Secret)
	if err != nil {
		return nil, err
	}

	valid, err := s.tokenStore.IsTokenValid(ctx, claims.UserId, token)
	if err != nil {
		log.CtxWarn(ctx, "check token status failed: user_id=%s, error=%v", claims.UserId, err)
		// Fall back to JWT validation only if Redis check fails
		return claims, nil
	}
	if !valid {
		return nil, errcode.ErrTokenInvalid
	}

	return claims, nil
}

// Logout invalidates the caller's token
func (s *AuthService) Logout(ctx context.Context, userId, token string) error {
	if err := s.tokenStore.InvalidateToken(ctx, userId, token); err != nil {
		log.CtxError(ctx, "invalidate token failed: user_id=%s, error=%v", userId, err)
		return errcode.ErrInternalServer
	}
	if s.pusher != nil {
		s.pusher.Kick(ctx, userId, token)
	}
	log.CtxInfo(ctx, "user logged out: user_id=%s", userId)
	return nil
}
