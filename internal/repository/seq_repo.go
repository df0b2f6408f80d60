package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/viahme/viah/internal/entity"
	"github.com/viahme/viah/pkg/constant"
)

// SeqRepo is the repository for sequence operations
type SeqRepo struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewSeqRepo creates a new SeqRepo
func NewSeqRepo(db *gorm.DB, rdb *redis.Client) *SeqRepo {
	return &SeqRepo{db: db, rdb: rdb}
}

func seqKey(conversationId string) string {
	return fmt.Sprintf(constant.RedisKeySeqConversation(), conversationId)
}

// AllocSeq allocates a new sequence number for a conversation using Redis INCR.
// When the redis counter was lost it is first restored from the database so
// seqs never go backwards.
func (r *SeqRepo) AllocSeq(ctx context.Context, conversationId string) (int64, error) {
	key := seqKey(conversationId)

	exists, err := r.rdb.Exists(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if exists == 0 {
		if err := r.restoreSeq(ctx, conversationId); err != nil {
			return 0, err
		}
	}

	return r.rdb.Incr(ctx, key).Result()
}

// restoreSeq seeds the redis counter from seq_conversations if it is missing
func (r *SeqRepo) restoreSeq(ctx context.Context, conversationId string) error {
	var seqConv entity.SeqConversation
	err := r.db.WithContext(ctx).Where("conversation_id = ?", conversationId).First(&seqConv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return r.rdb.SetNX(ctx, seqKey(conversationId), seqConv.MaxSeq, 0).Err()
}

// GetMaxSeq gets the current max sequence for a conversation
func (r *SeqRepo) GetMaxSeq(ctx context.Context, conversationId string) (int64, error) {
	seq, err := r.rdb.Get(ctx, seqKey(conversationId)).Int64()
	if err == nil {
		return seq, nil
	}
	if !errors.Is(err, redis.Nil) {
		return 0, err
	}

	seqConv, err := r.GetConversationSeqInfo(ctx, conversationId)
	if err != nil {
		return 0, err
	}
	if seqConv.MaxSeq > 0 {
		r.rdb.SetNX(ctx, seqKey(conversationId), seqConv.MaxSeq, 0)
	}
	return seqConv.MaxSeq, nil
}

// SyncSeqWithTx persists the allocated seq within a transaction
func (r *SeqRepo) SyncSeqWithTx(ctx context.Context, tx *gorm.DB, conversationId string, maxSeq int64) error {
	seqConv := &entity.SeqConversation{
		ConversationId: conversationId,
		MaxSeq:         maxSeq,
	}

	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "conversation_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"max_seq": gorm.Expr("GREATEST(seq_conversations.max_seq, ?)", maxSeq),
		}),
	}).Create(seqConv).Error
}

// GetConversationSeqInfo gets sequence info for a conversation
func (r *SeqRepo) GetConversationSeqInfo(ctx context.Context, conversationId string) (*entity.SeqConversation, error) {
	var seqConv entity.SeqConversation
	err := r.db.WithContext(ctx).Where("conversation_id = ?", conversationId).First(&seqConv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &entity.SeqConversation{ConversationId: conversationId}, nil
		}
		return nil, err
	}
	return &seqConv, nil
}

// GetSeqUser gets user sequence info for a conversation, nil when absent
func (r *SeqRepo) GetSeqUser(ctx context.Context, userId, conversationId string) (*entity.SeqUser, error) {
	var seqUser entity.SeqUser
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND conversation_id = ?", userId, conversationId).
		First(&seqUser).Error
	return notFoundAsNil(&seqUser, err)
}

// UpdateReadSeq moves the read_seq for a user forward, never backward.
// Uses upsert to create record if it doesn't exist
func (r *SeqRepo) UpdateReadSeq(ctx context.Context, userId, conversationId string, readSeq int64) error {
	seqUser := &entity.SeqUser{
		UserId:         userId,
		ConversationId: conversationId,
		ReadSeq:        readSeq,
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "conversation_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"read_seq": gorm.Expr("GREATEST(seq_users.read_seq, ?)", readSeq),
		}),
	}).Create(seqUser).Error
}
