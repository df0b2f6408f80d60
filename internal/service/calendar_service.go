package service

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mbeoliero/kit/log"

	"github.com/viahme/viah/internal/config"
	"github.com/viahme/viah/internal/repository"
	"github.com/viahme/viah/pkg/constant"
	"github.com/viahme/viah/pkg/errcode"
)

// CalendarService starts calendar provider OAuth flows
type CalendarService struct {
	cacheRepo *repository.CacheRepo
	cfg       *config.CalendarConfig
}

// NewCalendarService creates a new CalendarService
func NewCalendarService(repos *repository.Repositories, cfg *config.CalendarConfig) *CalendarService {
	return &CalendarService{
		cacheRepo: repos.Cache,
		cfg:       cfg,
	}
}

// AuthURLResponse is the authorize URL a client should open
type AuthURLResponse struct {
	Provider  string `json:"provider"`
	URL       string `json:"url"`
	State     string `json:"state"`
	ExpiresAt int64  `json:"expires_at"`
}

func (s *CalendarService) provider(name string) (*config.OAuthProvider, error) {
	var p *config.OAuthProvider
	switch name {
	case constant.CalendarGoogle:
		p = &s.cfg.Google
	case constant.CalendarOutlook:
		p = &s.cfg.Outlook
	default:
		return nil, errcode.ErrCalendarProvider
	}
	if p.ClientId == "" || p.RedirectURL == "" {
		return nil, errcode.ErrCalendarNotConfig
	}
	return p, nil
}

// AuthURL builds the provider's authorize URL bound to a fresh state
func (s *CalendarService) AuthURL(ctx context.Context, userId, providerName string) (*AuthURLResponse, error) {
	p, err := s.provider(providerName)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(p.AuthURL)
	if err != nil {
		log.CtxError(ctx, "parse auth url failed: provider=%s, error=%v", providerName, err)
		return nil, errcode.ErrCalendarNotConfig
	}

	state := uuid.New().String()
	if err := s.cacheRepo.SaveOAuthState(ctx, state, userId, s.cfg.StateTTL); err != nil {
		log.CtxError(ctx, "save oauth state failed: user_id=%s, error=%v", userId, err)
		return nil, errcode.ErrInternalServer
	}

	q := u.Query()
	q.Set("client_id", p.ClientId)
	q.Set("redirect_uri", p.RedirectURL)
	q.Set("response_type", "code")
	q.Set("scope", strings.Join(p.Scopes, " "))
	q.Set("state", state)
	if providerName == constant.CalendarGoogle {
		q.Set("access_type", "offline")
		q.Set("prompt", "consent")
	}
	u.RawQuery = q.Encode()

	return &AuthURLResponse{
		Provider:  providerName,
		URL:       u.String(),
		State:     state,
		ExpiresAt: time.Now().Add(s.cfg.StateTTL).UnixMilli(),
	}, nil
}

// CallbackResult reports a verified provider redirect
type CallbackResult struct {
	Provider string `json:"provider"`
	UserId   string `json:"user_id"`
	Code     string `json:"-"`
}

// VerifyCallback consumes the state of a provider redirect. A state is
// single-use; unknown or expired states are rejected.
func (s *CalendarService) VerifyCallback(ctx context.Context, providerName, state, code string) (*CallbackResult, error) {
	if _, err := s.provider(providerName); err != nil {
		return nil, err
	}
	if state == "" || code == "" {
		return nil, errcode.ErrInvalidParam
	}

	userId, err := s.cacheRepo.ConsumeOAuthState(ctx, state)
	if err != nil {
		log.CtxError(ctx, "consume oauth state failed: error=%v", err)
		return nil, errcode.ErrInternalServer
	}
	if userId == "" {
		return nil, errcode.ErrInvalidParam
	}

	log.CtxInfo(ctx, "calendar callback verified: provider=%s, user_id=%s", providerName, userId)
	return &CallbackResult{Provider: providerName, UserId: userId, Code: code}, nil
}
