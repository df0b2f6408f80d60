package service

import (
	"context"

	"github.com/mbeoliero/kit/log"

	"github.com/viahme/viah/internal/broker/kafka"
	"github.com/viahme/viah/internal/entity"
	"github.com/viahme/viah/internal/repository"
	"github.com/viahme/viah/pkg/errcode"
)

// Push is a realtime notification addressed to a set of users
type Push struct {
	Type    string      `json:"type"`
	UserIds []string    `json:"user_ids"`
	Data    interface{} `json:"data"`
}

// Pusher delivers realtime notifications to connected users
type Pusher interface {
	AsyncPush(ctx context.Context, push *Push)
	// Kick closes the user's connections opened with token, or all of them
	// when token is empty
	Kick(ctx context.Context, userId, token string)
}

// publishEvent emits a domain event. Delivery failures are logged and never
// fail the request that produced the event.
func publishEvent(ctx context.Context, pub kafka.Publisher, eventType, key string, payload interface{}) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, kafka.NewEvent(eventType, key, payload)); err != nil {
		log.CtxWarn(ctx, "publish event failed: type=%s, key=%s, error=%v", eventType, key, err)
	}
}

// ownedWedding loads a wedding and checks userId owns it
func ownedWedding(ctx context.Context, repo *repository.WeddingRepo, userId, weddingId string) (*entity.Wedding, error) {
	if weddingId == "" {
		return nil, errcode.ErrInvalidParam
	}
	w, err := repo.GetById(ctx, weddingId)
	if err != nil {
		log.CtxError(ctx, "get wedding failed: wedding_id=%s, error=%v", weddingId, err)
		return nil, errcode.ErrInternalServer
	}
	if w == nil {
		return nil, errcode.ErrWeddingNotFound
	}
	if w.OwnerId != userId {
		return nil, errcode.ErrNoPermission
	}
	return w, nil
}

// ownedVendor loads a vendor and checks userId owns the listing
func ownedVendor(ctx context.Context, repo *repository.VendorRepo, userId, vendorId string) (*entity.Vendor, error) {
	if vendorId == "" {
		return nil, errcode.ErrInvalidParam
	}
	v, err := repo.GetById(ctx, vendorId)
	if err != nil {
		log.CtxError(ctx, "get vendor failed: vendor_id=%s, error=%v", vendorId, err)
		return nil, errcode.ErrInternalServer
	}
	if v == nil {
		return nil, errcode.ErrVendorNotFound
	}
	if v.OwnerUserId != userId {
		return nil, errcode.ErrNoPermission
	}
	return v, nil
}

// passThrough returns err unchanged when it already carries a business code,
// otherwise logs it and substitutes fallback
func passThrough(ctx context.Context, err error, fallback *errcode.Error, format string, args ...interface{}) error {
	if e, ok := errcode.As(err); ok {
		return e
	}
	log.CtxError(ctx, format+", error=%v", append(args, err)...)
	return fallback
}
