package entity

// SeqConversation holds the highest allocated seq of a conversation
type SeqConversation struct {
	ConversationId string `json:"conversation_id" gorm:"column:conversation_id;primaryKey;size:200"`
	MaxSeq         int64  `json:"max_seq" gorm:"column:max_seq"`
}

// TableName returns the table name for SeqConversation
func (SeqConversation) TableName() string {
	return "seq_conversations"
}

// SeqUser holds a participant's read position in a conversation
type SeqUser struct {
	Id             int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	UserId         string `json:"user_id" gorm:"column:user_id;uniqueIndex:uk_user_conv;size:64"`
	ConversationId string `json:"conversation_id" gorm:"column:conversation_id;uniqueIndex:uk_user_conv;size:200"`
	ReadSeq        int64  `json:"read_seq" gorm:"column:read_seq"`
}

// TableName returns the table name for SeqUser
func (SeqUser) TableName() string {
	return "seq_users"
}

// UnreadCount returns maxSeq - readSeq, never negative
func UnreadCount(maxSeq, readSeq int64) int64 {
	if readSeq >= maxSeq {
		return 0
	}
	return maxSeq - readSeq
}

// ClampSeqRange clamps a requested [begin, end] window to [1, convMaxSeq].
// A non-positive end means "up to the latest".
func ClampSeqRange(beginSeq, endSeq, convMaxSeq int64) (int64, int64) {
	if beginSeq < 1 {
		beginSeq = 1
	}
	if endSeq <= 0 || endSeq > convMaxSeq {
		endSeq = convMaxSeq
	}
	return beginSeq, endSeq
}
