package repository

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/viahme/viah/internal/entity"
)

// MessageRepo is the repository for message operations
type MessageRepo struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewMessageRepo creates a new MessageRepo
func NewMessageRepo(db *gorm.DB, rdb *redis.Client) *MessageRepo {
	return &MessageRepo{db: db, rdb: rdb}
}

// Create creates a new message
func (r *MessageRepo) Create(ctx context.Context, tx *gorm.DB, msg *entity.Message) error {
	msg.CreatedAt = entity.NowUnixMilli()
	return tx.WithContext(ctx).Create(msg).Error
}

// GetByClientMsgId gets message by sender_id and client_msg_id (for idempotency check)
func (r *MessageRepo) GetByClientMsgId(ctx context.Context, senderId, clientMsgId string) (*entity.Message, error) {
	var msg entity.Message
	err := r.db.WithContext(ctx).
		Where("sender_id = ? AND client_msg_id = ?", senderId, clientMsgId).
		First(&msg).Error
	return notFoundAsNil(&msg, err)
}

// PullMessages pulls messages in a conversation within seq range
// limit is capped at 100
func (r *MessageRepo) PullMessages(ctx context.Context, conversationId string, beginSeq, endSeq int64, limit int) ([]*entity.Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	var messages []*entity.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND seq >= ? AND seq <= ?", conversationId, beginSeq, endSeq).
		Order("seq ASC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// GetLastMessages gets the message at each conversation's max seq, keyed by conversation id
func (r *MessageRepo) GetLastMessages(ctx context.Context, maxSeqs map[string]int64) (map[string]*entity.Message, error) {
	result := make(map[string]*entity.Message, len(maxSeqs))
	if len(maxSeqs) == 0 {
		return result, nil
	}

	pairs := make([][]interface{}, 0, len(maxSeqs))
	for convId, seq := range maxSeqs {
		if seq > 0 {
			pairs = append(pairs, []interface{}{convId, seq})
		}
	}
	if len(pairs) == 0 {
		return result, nil
	}

	var messages []*entity.Message
	err := r.db.WithContext(ctx).
		Where("(conversation_id, seq) IN ?", pairs).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	for _, m := range messages {
		result[m.ConversationId] = m
	}
	return result, nil
}
