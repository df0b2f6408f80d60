package service

import (
	"context"
	"strings"

	"github.com/mbeoliero/kit/log"
	"gorm.io/gorm"

	"github.com/viahme/viah/internal/broker/kafka"
	"github.com/viahme/viah/internal/entity"
	"github.com/viahme/viah/internal/repository"
	"github.com/viahme/viah/pkg/constant"
	"github.com/viahme/viah/pkg/errcode"
)

const maxMessageLen = 5000

// MessageService handles message-related business logic
type MessageService struct {
	msgRepo  *repository.MessageRepo
	seqRepo  *repository.SeqRepo
	convRepo *repository.ConversationRepo
	repos    *repository.Repositories
	notifier *NotificationService
	events   kafka.Publisher
	pusher   Pusher
}

// NewMessageService creates a new MessageService
func NewMessageService(repos *repository.Repositories, notifier *NotificationService, events kafka.Publisher) *MessageService {
	return &MessageService{
		msgRepo:  repos.Message,
		seqRepo:  repos.Seq,
		convRepo: repos.Conversation,
		repos:    repos,
		notifier: notifier,
		events:   events,
	}
}

// SetPusher sets the realtime pusher
func (s *MessageService) SetPusher(pusher Pusher) {
	s.pusher = pusher
}

// SendMessageRequest represents send message request
type SendMessageRequest struct {
	ConversationId string `json:"conversation_id"`
	ClientMsgId    string `json:"client_msg_id"`
	Content        string `json:"content"`
	AttachmentURL  string `json:"attachment_url,omitempty"`
}

// Send appends a message to an open conversation. Retries with the same
// client_msg_id return the stored message. A closed conversation rejects the
// send with ErrConversationClosed; the check runs under the conversation row
// lock so it is ordered against a concurrent close.
func (s *MessageService) Send(ctx context.Context, senderId string, req *SendMessageRequest) (*entity.Message, error) {
	if req.ConversationId == "" || req.ClientMsgId == "" {
		return nil, errcode.ErrInvalidParam
	}
	content := strings.TrimSpace(req.Content)
	if content == "" && req.AttachmentURL == "" {
		return nil, errcode.ErrEmptyMessage
	}
	if len(content) > maxMessageLen {
		return nil, errcode.ErrInvalidParam
	}

	existingMsg, err := s.msgRepo.GetByClientMsgId(ctx, senderId, req.ClientMsgId)
	if err != nil {
		log.CtxError(ctx, "check idempotency failed: sender_id=%s, error=%v", senderId, err)
		return nil, errcode.ErrInternalServer
	}
	if existingMsg != nil {
		log.CtxDebug(ctx, "duplicate message: client_msg_id=%s", req.ClientMsgId)
		return existingMsg, nil
	}

	var (
		msg  *entity.Message
		conv *entity.Conversation
	)
	err = s.repos.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		conv, err = s.convRepo.GetForUpdate(ctx, tx, req.ConversationId)
		if err != nil {
			return err
		}
		if conv == nil {
			return errcode.ErrConvNotFound
		}
		if !conv.HasParticipant(senderId) {
			return errcode.ErrNoPermission
		}
		if conv.IsClosed() {
			return errcode.ErrConversationClosed
		}

		seq, err := s.seqRepo.AllocSeq(ctx, req.ConversationId)
		if err != nil {
			return errcode.ErrSeqAllocFailed.Wrap(err)
		}

		now := entity.NowUnixMilli()
		msg = &entity.Message{
			ConversationId: req.ConversationId,
			Seq:            seq,
			ClientMsgId:    req.ClientMsgId,
			SenderId:       senderId,
			Content:        content,
			AttachmentURL:  req.AttachmentURL,
			SendAt:         now,
		}
		if err := s.msgRepo.Create(ctx, tx, msg); err != nil {
			return err
		}
		if err := s.seqRepo.SyncSeqWithTx(ctx, tx, req.ConversationId, seq); err != nil {
			return err
		}
		return s.convRepo.TouchLastMessage(ctx, tx, req.ConversationId, now)
	})
	if err != nil {
		if e, ok := errcode.As(err); ok {
			if errcode.ErrConversationClosed.Is(e) {
				log.CtxInfo(ctx, "send rejected, conversation closed: conversation_id=%s, sender_id=%s", req.ConversationId, senderId)
			}
			return nil, e
		}
		log.CtxError(ctx, "send message failed: conversation_id=%s, sender_id=%s, error=%v", req.ConversationId, senderId, err)
		return nil, errcode.ErrSendFailed
	}

	// Sender has read their own message
	if err := s.seqRepo.UpdateReadSeq(ctx, senderId, req.ConversationId, msg.Seq); err != nil {
		log.CtxWarn(ctx, "update sender read seq failed: conversation_id=%s, error=%v", req.ConversationId, err)
	}

	participants := conv.Participants()
	if s.pusher != nil {
		s.pusher.AsyncPush(ctx, &Push{
			Type:    constant.PushMessageNew,
			UserIds: participants,
			Data:    msg.ToMessageInfo(),
		})
	}
	s.notifier.PushUnreadChanged(ctx, participants...)
	publishEvent(ctx, s.events, constant.EventMessageSent, req.ConversationId, msg.ToMessageInfo())

	log.CtxInfo(ctx, "message sent: conversation_id=%s, sender_id=%s, seq=%d", req.ConversationId, senderId, msg.Seq)
	return msg, nil
}

// PullMessagesRequest represents pull messages request
type PullMessagesRequest struct {
	ConversationId string `query:"conversation_id"`
	BeginSeq       int64  `query:"begin_seq"`
	EndSeq         int64  `query:"end_seq"`
	Limit          int    `query:"limit"`
}

// PullMessagesResponse is a page of messages with the conversation's max seq
type PullMessagesResponse struct {
	Messages []*entity.MessageInfo `json:"messages"`
	MaxSeq   int64                 `json:"max_seq"`
}

// Pull returns messages of a conversation the caller takes part in
func (s *MessageService) Pull(ctx context.Context, userId string, req *PullMessagesRequest) (*PullMessagesResponse, error) {
	if req.ConversationId == "" {
		return nil, errcode.ErrInvalidParam
	}
	conv, err := s.convRepo.GetById(ctx, req.ConversationId)
	if err != nil {
		log.CtxError(ctx, "get conversation failed: conversation_id=%s, error=%v", req.ConversationId, err)
		return nil, errcode.ErrInternalServer
	}
	if conv == nil {
		return nil, errcode.ErrConvNotFound
	}
	if !conv.HasParticipant(userId) {
		return nil, errcode.ErrNoPermission
	}

	convSeq, err := s.seqRepo.GetConversationSeqInfo(ctx, req.ConversationId)
	if err != nil {
		log.CtxError(ctx, "get conversation seq failed: conversation_id=%s, error=%v", req.ConversationId, err)
		return nil, errcode.ErrInternalServer
	}

	resp := &PullMessagesResponse{
		Messages: make([]*entity.MessageInfo, 0),
		MaxSeq:   convSeq.MaxSeq,
	}

	beginSeq, endSeq := entity.ClampSeqRange(req.BeginSeq, req.EndSeq, convSeq.MaxSeq)
	if beginSeq > endSeq {
		return resp, nil
	}

	messages, err := s.msgRepo.PullMessages(ctx, req.ConversationId, beginSeq, endSeq, req.Limit)
	if err != nil {
		log.CtxError(ctx, "pull messages failed: conversation_id=%s, error=%v", req.ConversationId, err)
		return nil, errcode.ErrPullFailed
	}
	for _, m := range messages {
		resp.Messages = append(resp.Messages, m.ToMessageInfo())
	}
	return resp, nil
}
