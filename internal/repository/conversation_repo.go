package repository

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/viahme/viah/internal/entity"
	"github.com/viahme/viah/pkg/constant"
)

// ConversationRepo is the repository for conversation operations
type ConversationRepo struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewConversationRepo creates a new ConversationRepo
func NewConversationRepo(db *gorm.DB, rdb *redis.Client) *ConversationRepo {
	return &ConversationRepo{db: db, rdb: rdb}
}

// Ensure creates the conversation if it does not exist yet and returns the stored row
func (r *ConversationRepo) Ensure(ctx context.Context, conv *entity.Conversation) (*entity.Conversation, error) {
	if conv.Status == "" {
		conv.Status = constant.ConversationStatusOpen
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "conversation_id"}},
		DoNothing: true,
	}).Create(conv).Error
	if err != nil {
		return nil, err
	}
	return r.GetById(ctx, conv.ConversationId)
}

// GetById gets a conversation, nil when absent
func (r *ConversationRepo) GetById(ctx context.Context, conversationId string) (*entity.Conversation, error) {
	var conv entity.Conversation
	err := r.db.WithContext(ctx).Where("conversation_id = ?", conversationId).First(&conv).Error
	return notFoundAsNil(&conv, err)
}

// GetForUpdate gets and row-locks a conversation within tx, nil when absent.
// Close and send both take this lock so the later of the two sees the other's effect.
func (r *ConversationRepo) GetForUpdate(ctx context.Context, tx *gorm.DB, conversationId string) (*entity.Conversation, error) {
	var conv entity.Conversation
	err := lockForUpdate(tx.WithContext(ctx)).Where("conversation_id = ?", conversationId).First(&conv).Error
	return notFoundAsNil(&conv, err)
}

// Close marks the conversation closed within tx
func (r *ConversationRepo) Close(ctx context.Context, tx *gorm.DB, conversationId, closedBy, reason string, closedAt int64) error {
	return tx.WithContext(ctx).Model(&entity.Conversation{}).
		Where("conversation_id = ?", conversationId).
		Updates(map[string]interface{}{
			"status":        constant.ConversationStatusClosed,
			"closed_by":     closedBy,
			"closed_reason": reason,
			"closed_at":     closedAt,
			"updated_at":    closedAt,
		}).Error
}

// TouchLastMessage records the time of the newest message within tx
func (r *ConversationRepo) TouchLastMessage(ctx context.Context, tx *gorm.DB, conversationId string, at int64) error {
	return tx.WithContext(ctx).Model(&entity.Conversation{}).
		Where("conversation_id = ?", conversationId).
		Updates(map[string]interface{}{"last_message_at": at, "updated_at": at}).Error
}

// ConversationWithSeq is a conversation row joined with the caller's seq info
type ConversationWithSeq struct {
	entity.Conversation
	MaxSeq      int64
	ReadSeq     int64
	UnreadCount int64
}

// ListForUser lists the conversations userId participates in, most recent first.
// A non-empty weddingId narrows the list to that wedding.
func (r *ConversationRepo) ListForUser(ctx context.Context, userId, weddingId string) ([]*ConversationWithSeq, error) {
	var results []*ConversationWithSeq

	q := r.db.WithContext(ctx).
		Table("conversations c").
		Select(`
			c.*,
			COALESCE(sc.max_seq, 0) as max_seq,
			COALESCE(su.read_seq, 0) as read_seq,
			GREATEST(0, COALESCE(sc.max_seq, 0) - COALESCE(su.read_seq, 0)) as unread_count
		`).
		Joins("LEFT JOIN seq_conversations sc ON sc.conversation_id = c.conversation_id").
		Joins("LEFT JOIN seq_users su ON su.user_id = ? AND su.conversation_id = c.conversation_id", userId).
		Where("(c.couple_user_id = ? OR c.vendor_user_id = ?)", userId, userId)
	if weddingId != "" {
		q = q.Where("c.wedding_id = ?", weddingId)
	}

	err := q.Order("c.last_message_at DESC, c.created_at ASC").Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ListIdsForUser lists the conversation ids userId participates in
func (r *ConversationRepo) ListIdsForUser(ctx context.Context, userId string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&entity.Conversation{}).
		Where("couple_user_id = ? OR vendor_user_id = ?", userId, userId).
		Pluck("conversation_id", &ids).Error
	return ids, err
}

// SumUnreadForUser sums unread counts over all of userId's conversations
func (r *ConversationRepo) SumUnreadForUser(ctx context.Context, userId string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Table("conversations c").
		Select("COALESCE(SUM(GREATEST(0, COALESCE(sc.max_seq, 0) - COALESCE(su.read_seq, 0))), 0)").
		Joins("LEFT JOIN seq_conversations sc ON sc.conversation_id = c.conversation_id").
		Joins("LEFT JOIN seq_users su ON su.user_id = ? AND su.conversation_id = c.conversation_id", userId).
		Where("(c.couple_user_id = ? OR c.vendor_user_id = ?)", userId, userId).
		Scan(&total).Error
	return total, err
}
