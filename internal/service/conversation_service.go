package service

import (
	"context"
	"strings"

	"github.com/mbeoliero/kit/log"
	"gorm.io/gorm"

	"github.com/viahme/viah/internal/broker/kafka"
	"github.com/viahme/viah/internal/entity"
	"github.com/viahme/viah/internal/inbox"
	"github.com/viahme/viah/internal/repository"
	"github.com/viahme/viah/pkg/constant"
	"github.com/viahme/viah/pkg/errcode"
)

const maxCloseReasonLen = 500

// ConversationService handles conversation-related business logic
type ConversationService struct {
	convRepo    *repository.ConversationRepo
	seqRepo     *repository.SeqRepo
	msgRepo     *repository.MessageRepo
	weddingRepo *repository.WeddingRepo
	vendorRepo  *repository.VendorRepo
	bookingRepo *repository.BookingRepo
	repos       *repository.Repositories
	notifier    *NotificationService
	events      kafka.Publisher
	pusher      Pusher
}

// NewConversationService creates a new ConversationService
func NewConversationService(repos *repository.Repositories, notifier *NotificationService, events kafka.Publisher) *ConversationService {
	return &ConversationService{
		convRepo:    repos.Conversation,
		seqRepo:     repos.Seq,
		msgRepo:     repos.Message,
		weddingRepo: repos.Wedding,
		vendorRepo:  repos.Vendor,
		bookingRepo: repos.Booking,
		repos:       repos,
		notifier:    notifier,
		events:      events,
	}
}

// SetPusher sets the realtime pusher
func (s *ConversationService) SetPusher(pusher Pusher) {
	s.pusher = pusher
}

// StartConversationRequest represents opening a thread with a vendor
type StartConversationRequest struct {
	WeddingId string `json:"wedding_id"`
	VendorId  string `json:"vendor_id"`
	EventId   string `json:"event_id,omitempty"`
}

// Start opens, or returns the existing, thread between a wedding and a
// vendor. Either the couple or the vendor may start it.
func (s *ConversationService) Start(ctx context.Context, userId string, req *StartConversationRequest) (*entity.Conversation, error) {
	w, err := s.weddingRepo.GetById(ctx, req.WeddingId)
	if err != nil {
		log.CtxError(ctx, "get wedding failed: wedding_id=%s, error=%v", req.WeddingId, err)
		return nil, errcode.ErrInternalServer
	}
	if w == nil {
		return nil, errcode.ErrWeddingNotFound
	}
	v, err := s.vendorRepo.GetById(ctx, req.VendorId)
	if err != nil {
		log.CtxError(ctx, "get vendor failed: vendor_id=%s, error=%v", req.VendorId, err)
		return nil, errcode.ErrInternalServer
	}
	if v == nil {
		return nil, errcode.ErrVendorNotFound
	}
	if userId != w.OwnerId && userId != v.OwnerUserId {
		return nil, errcode.ErrNoPermission
	}

	if req.EventId != "" {
		e, err := s.weddingRepo.GetEvent(ctx, req.EventId)
		if err != nil {
			log.CtxError(ctx, "get event failed: event_id=%s, error=%v", req.EventId, err)
			return nil, errcode.ErrInternalServer
		}
		if e == nil || e.WeddingId != w.Id {
			return nil, errcode.ErrEventNotFound
		}
	}

	conv, err := s.convRepo.Ensure(ctx, &entity.Conversation{
		ConversationId: entity.GenConversationId(w.Id, v.Id, req.EventId),
		WeddingId:      w.Id,
		VendorId:       v.Id,
		EventId:        req.EventId,
		CoupleUserId:   w.OwnerId,
		VendorUserId:   v.OwnerUserId,
		LastMessageAt:  entity.NowUnixMilli(),
	})
	if err != nil {
		log.CtxError(ctx, "ensure conversation failed: wedding_id=%s, vendor_id=%s, error=%v", w.Id, v.Id, err)
		return nil, errcode.ErrInternalServer
	}
	return conv, nil
}

// List lists the caller's conversations within a wedding, enriched with
// vendor and event names, last message and booking status
func (s *ConversationService) List(ctx context.Context, userId, weddingId string) ([]*entity.ConversationInfo, error) {
	rows, err := s.convRepo.ListForUser(ctx, userId, weddingId)
	if err != nil {
		log.CtxError(ctx, "list conversations failed: user_id=%s, wedding_id=%s, error=%v", userId, weddingId, err)
		return nil, errcode.ErrInternalServer
	}

	vendorIds := make([]string, 0, len(rows))
	eventIds := make([]string, 0, len(rows))
	maxSeqs := make(map[string]int64, len(rows))
	for _, r := range rows {
		vendorIds = append(vendorIds, r.VendorId)
		if r.EventId != "" {
			eventIds = append(eventIds, r.EventId)
		}
		maxSeqs[r.ConversationId] = r.MaxSeq
	}

	vendorNames := make(map[string]string)
	if vs, err := s.vendorRepo.GetByIds(ctx, vendorIds); err != nil {
		log.CtxWarn(ctx, "get vendors failed: error=%v", err)
	} else {
		for _, v := range vs {
			vendorNames[v.Id] = v.Name
		}
	}

	eventNames := make(map[string]string)
	if es, err := s.weddingRepo.GetEventsByIds(ctx, eventIds); err != nil {
		log.CtxWarn(ctx, "get events failed: error=%v", err)
	} else {
		for _, e := range es {
			eventNames[e.Id] = e.Name
		}
	}

	lastMessages, err := s.msgRepo.GetLastMessages(ctx, maxSeqs)
	if err != nil {
		log.CtxWarn(ctx, "get last messages failed: error=%v", err)
		lastMessages = nil
	}

	bookingStatus := s.bookingStatuses(ctx, weddingId)

	infos := make([]*entity.ConversationInfo, 0, len(rows))
	for _, r := range rows {
		info := &entity.ConversationInfo{
			ConversationId: r.ConversationId,
			WeddingId:      r.WeddingId,
			VendorId:       r.VendorId,
			VendorName:     vendorNames[r.VendorId],
			EventId:        r.EventId,
			EventName:      eventNames[r.EventId],
			Status:         r.Status,
			BookingStatus:  lookupBookingStatus(bookingStatus, r.VendorId, r.EventId),
			UnreadCount:    r.UnreadCount,
			MaxSeq:         r.MaxSeq,
			ReadSeq:        r.ReadSeq,
			LastMessageAt:  r.LastMessageAt,
		}
		if m, ok := lastMessages[r.ConversationId]; ok {
			info.LastMessage = m.ToMessageInfo()
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func bookingKey(vendorId, eventId string) string {
	return vendorId + "|" + eventId
}

// bookingStatuses maps vendor|event and vendor| to the newest booking status
func (s *ConversationService) bookingStatuses(ctx context.Context, weddingId string) map[string]string {
	statuses := make(map[string]string)
	if weddingId == "" {
		return statuses
	}
	bookings, err := s.bookingRepo.ListByWedding(ctx, weddingId)
	if err != nil {
		log.CtxWarn(ctx, "list bookings failed: wedding_id=%s, error=%v", weddingId, err)
		return statuses
	}
	for _, b := range bookings {
		for _, key := range []string{bookingKey(b.VendorId, b.EventId), bookingKey(b.VendorId, "")} {
			if _, ok := statuses[key]; !ok {
				statuses[key] = b.Status
			}
		}
	}
	return statuses
}

func lookupBookingStatus(statuses map[string]string, vendorId, eventId string) string {
	if st, ok := statuses[bookingKey(vendorId, eventId)]; ok {
		return st
	}
	return statuses[bookingKey(vendorId, "")]
}

// Groups returns the caller's conversations in a wedding grouped by vendor
func (s *ConversationService) Groups(ctx context.Context, userId, weddingId string) ([]*inbox.VendorGroup[*entity.ConversationInfo], error) {
	if weddingId == "" {
		return nil, errcode.ErrInvalidParam
	}
	infos, err := s.List(ctx, userId, weddingId)
	if err != nil {
		return nil, err
	}
	return inbox.GroupByVendor(infos), nil
}

// participantConversation loads a conversation the caller takes part in
func (s *ConversationService) participantConversation(ctx context.Context, userId, conversationId string) (*entity.Conversation, error) {
	conv, err := s.convRepo.GetById(ctx, conversationId)
	if err != nil {
		log.CtxError(ctx, "get conversation failed: conversation_id=%s, error=%v", conversationId, err)
		return nil, errcode.ErrInternalServer
	}
	if conv == nil {
		return nil, errcode.ErrConvNotFound
	}
	if !conv.HasParticipant(userId) {
		return nil, errcode.ErrNoPermission
	}
	return conv, nil
}

// Status returns the close state of a conversation
func (s *ConversationService) Status(ctx context.Context, userId, conversationId string) (*entity.ConversationStatus, error) {
	conv, err := s.participantConversation(ctx, userId, conversationId)
	if err != nil {
		return nil, err
	}
	return conv.ToStatus(), nil
}

// CloseRequest represents closing a conversation
type CloseRequest struct {
	Reason string `json:"reason,omitempty"`
}

// Close moves a conversation to closed. Closing is one-way; closing an
// already closed conversation returns its current state unchanged.
func (s *ConversationService) Close(ctx context.Context, userId, conversationId, reason string) (*entity.ConversationStatus, error) {
	reason = strings.TrimSpace(reason)
	if len(reason) > maxCloseReasonLen {
		return nil, errcode.ErrInvalidParam
	}

	var (
		conv    *entity.Conversation
		changed bool
	)
	err := s.repos.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		conv, err = s.convRepo.GetForUpdate(ctx, tx, conversationId)
		if err != nil {
			return err
		}
		if conv == nil {
			return errcode.ErrConvNotFound
		}
		if !conv.HasParticipant(userId) {
			return errcode.ErrNoPermission
		}
		if conv.IsClosed() {
			return nil
		}

		now := entity.NowUnixMilli()
		if err := s.convRepo.Close(ctx, tx, conversationId, userId, reason, now); err != nil {
			return err
		}
		conv.Status = constant.ConversationStatusClosed
		conv.ClosedBy = userId
		conv.ClosedReason = reason
		conv.ClosedAt = now
		changed = true
		return nil
	})
	if err != nil {
		return nil, passThrough(ctx, err, errcode.ErrInternalServer, "close conversation failed: conversation_id=%s", conversationId)
	}

	status := conv.ToStatus()
	if !changed {
		return status, nil
	}

	publishEvent(ctx, s.events, constant.EventConversationClosed, conversationId, status)
	if s.pusher != nil {
		s.pusher.AsyncPush(ctx, &Push{
			Type:    constant.PushConversationClosed,
			UserIds: conv.Participants(),
			Data:    status,
		})
	}

	log.CtxInfo(ctx, "conversation closed: conversation_id=%s, closed_by=%s", conversationId, userId)
	return status, nil
}

// MarkReadRequest represents a read receipt; a non-positive seq means "everything"
type MarkReadRequest struct {
	ReadSeq int64 `json:"read_seq"`
}

// ReadState is the caller's position after marking read
type ReadState struct {
	ConversationId string `json:"conversation_id"`
	MaxSeq         int64  `json:"max_seq"`
	ReadSeq        int64  `json:"read_seq"`
	UnreadCount    int64  `json:"unread_count"`
}

// MarkRead moves the caller's read position forward and refreshes the badge
func (s *ConversationService) MarkRead(ctx context.Context, userId, conversationId string, readSeq int64) (*ReadState, error) {
	if _, err := s.participantConversation(ctx, userId, conversationId); err != nil {
		return nil, err
	}

	maxSeq, err := s.seqRepo.GetMaxSeq(ctx, conversationId)
	if err != nil {
		log.CtxError(ctx, "get max seq failed: conversation_id=%s, error=%v", conversationId, err)
		return nil, errcode.ErrInternalServer
	}
	if readSeq <= 0 || readSeq > maxSeq {
		readSeq = maxSeq
	}

	if err := s.seqRepo.UpdateReadSeq(ctx, userId, conversationId, readSeq); err != nil {
		log.CtxError(ctx, "update read seq failed: user_id=%s, conversation_id=%s, error=%v", userId, conversationId, err)
		return nil, errcode.ErrInternalServer
	}

	// read_seq never moves backward, so report the stored value
	stored := readSeq
	if su, err := s.seqRepo.GetSeqUser(ctx, userId, conversationId); err == nil && su != nil {
		stored = su.ReadSeq
	}

	s.notifier.PushUnreadChanged(ctx, userId)

	return &ReadState{
		ConversationId: conversationId,
		MaxSeq:         maxSeq,
		ReadSeq:        stored,
		UnreadCount:    entity.UnreadCount(maxSeq, stored),
	}, nil
}
