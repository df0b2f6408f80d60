package service

import (
	"context"

	"github.com/mbeoliero/kit/log"

	"github.com/viahme/viah/internal/repository"
	"github.com/viahme/viah/pkg/constant"
	"github.com/viahme/viah/pkg/errcode"
)

// unreadCounter sums a user's unread messages from the database
type unreadCounter interface {
	SumUnreadForUser(ctx context.Context, userId string) (int64, error)
}

// badgeCache holds short-lived unread totals
type badgeCache interface {
	GetUnreadBadge(ctx context.Context, userId string) (int64, bool, error)
	SetUnreadBadge(ctx context.Context, userId string, total int64) error
	InvalidateUnreadBadge(ctx context.Context, userIds ...string) error
}

// NotificationService serves the unread badge and pushes its changes
type NotificationService struct {
	convRepo  unreadCounter
	cacheRepo badgeCache
	pusher    Pusher
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repos *repository.Repositories) *NotificationService {
	return &NotificationService{
		convRepo:  repos.Conversation,
		cacheRepo: repos.Cache,
	}
}

// SetPusher sets the realtime pusher
func (s *NotificationService) SetPusher(pusher Pusher) {
	s.pusher = pusher
}

// UnreadCount is the badge payload
type UnreadCount struct {
	Total int64 `json:"total"`
}

// UnreadCount sums unread messages over the caller's conversations.
// The total is cached briefly; cache failures fall through to the database.
func (s *NotificationService) UnreadCount(ctx context.Context, userId string) (*UnreadCount, error) {
	total, hit, err := s.cacheRepo.GetUnreadBadge(ctx, userId)
	if err != nil {
		log.CtxWarn(ctx, "get unread badge failed: user_id=%s, error=%v", userId, err)
	}
	if hit {
		return &UnreadCount{Total: total}, nil
	}

	total, err = s.convRepo.SumUnreadForUser(ctx, userId)
	if err != nil {
		log.CtxError(ctx, "sum unread failed: user_id=%s, error=%v", userId, err)
		return nil, errcode.ErrInternalServer
	}
	if err := s.cacheRepo.SetUnreadBadge(ctx, userId, total); err != nil {
		log.CtxWarn(ctx, "set unread badge failed: user_id=%s, error=%v", userId, err)
	}
	return &UnreadCount{Total: total}, nil
}

// Invalidate drops cached badges so the next read recomputes them
func (s *NotificationService) Invalidate(ctx context.Context, userIds ...string) {
	if err := s.cacheRepo.InvalidateUnreadBadge(ctx, userIds...); err != nil {
		log.CtxWarn(ctx, "invalidate unread badge failed: user_ids=%v, error=%v", userIds, err)
	}
}

// PushUnreadChanged invalidates and recomputes each user's badge, then
// pushes unread.changed with the fresh total
func (s *NotificationService) PushUnreadChanged(ctx context.Context, userIds ...string) {
	s.Invalidate(ctx, userIds...)
	if s.pusher == nil {
		return
	}
	for _, userId := range userIds {
		count, err := s.UnreadCount(ctx, userId)
		if err != nil {
			continue
		}
		s.pusher.AsyncPush(ctx, &Push{
			Type:    constant.PushUnreadChanged,
			UserIds: []string{userId},
			Data:    count,
		})
	}
}
