package entity

import "github.com/viahme/viah/pkg/constant"

// Conversation is a (wedding, vendor, optional event) messaging thread
type Conversation struct {
	ConversationId string `json:"conversation_id" gorm:"column:conversation_id;primaryKey;size:200"`
	WeddingId      string `json:"wedding_id" gorm:"column:wedding_id;index;size:64"`
	VendorId       string `json:"vendor_id" gorm:"column:vendor_id;index;size:64"`
	EventId        string `json:"event_id,omitempty" gorm:"column:event_id;size:64"`
	CoupleUserId   string `json:"couple_user_id" gorm:"column:couple_user_id;index;size:64"`
	VendorUserId   string `json:"vendor_user_id" gorm:"column:vendor_user_id;index;size:64"`
	Status         string `json:"status" gorm:"column:status;size:16"`
	ClosedBy       string `json:"closed_by,omitempty" gorm:"column:closed_by;size:64"`
	ClosedReason   string `json:"closed_reason,omitempty" gorm:"column:closed_reason;size:512"`
	ClosedAt       int64  `json:"closed_at,omitempty" gorm:"column:closed_at"`
	LastMessageAt  int64  `json:"last_message_at" gorm:"column:last_message_at"`
	CreatedAt      int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt      int64  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for Conversation
func (Conversation) TableName() string {
	return "conversations"
}

// IsClosed reports whether the conversation no longer accepts messages
func (c *Conversation) IsClosed() bool {
	return c.Status == constant.ConversationStatusClosed
}

// HasParticipant reports whether userId is the couple or the vendor side
func (c *Conversation) HasParticipant(userId string) bool {
	return userId != "" && (userId == c.CoupleUserId || userId == c.VendorUserId)
}

// Participants returns both participant user ids
func (c *Conversation) Participants() []string {
	return []string{c.CoupleUserId, c.VendorUserId}
}

// ConversationInfo is the per-user list projection of a conversation
type ConversationInfo struct {
	ConversationId string       `json:"conversation_id"`
	WeddingId      string       `json:"wedding_id"`
	VendorId       string       `json:"vendor_id"`
	VendorName     string       `json:"vendor_name"`
	EventId        string       `json:"event_id,omitempty"`
	EventName      string       `json:"event_name,omitempty"`
	Status         string       `json:"status"`
	BookingStatus  string       `json:"booking_status,omitempty"`
	UnreadCount    int64        `json:"unread_count"`
	MaxSeq         int64        `json:"max_seq"`
	ReadSeq        int64        `json:"read_seq"`
	LastMessage    *MessageInfo `json:"last_message,omitempty"`
	LastMessageAt  int64        `json:"last_message_at"`
}

// GroupKey returns the vendor id conversations are grouped by
func (c *ConversationInfo) GroupKey() string {
	return c.VendorId
}

// Unread returns the conversation's unread count
func (c *ConversationInfo) Unread() int64 {
	return c.UnreadCount
}

// ConversationStatus is the close state of a conversation
type ConversationStatus struct {
	ConversationId string `json:"conversation_id"`
	Status         string `json:"status"`
	ClosedBy       string `json:"closed_by,omitempty"`
	ClosedReason   string `json:"closed_reason,omitempty"`
	ClosedAt       int64  `json:"closed_at,omitempty"`
}

// ToStatus converts Conversation to ConversationStatus
func (c *Conversation) ToStatus() *ConversationStatus {
	return &ConversationStatus{
		ConversationId: c.ConversationId,
		Status:         c.Status,
		ClosedBy:       c.ClosedBy,
		ClosedReason:   c.ClosedReason,
		ClosedAt:       c.ClosedAt,
	}
}
