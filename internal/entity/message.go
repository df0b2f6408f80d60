package entity

// Message represents a message in a conversation
type Message struct {
	Id             int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	ConversationId string `json:"conversation_id" gorm:"column:conversation_id;uniqueIndex:uk_conv_seq;size:200"`
	Seq            int64  `json:"seq" gorm:"column:seq;uniqueIndex:uk_conv_seq"`
	ClientMsgId    string `json:"client_msg_id" gorm:"column:client_msg_id;uniqueIndex:uk_sender_client_msg;size:64"`
	SenderId       string `json:"sender_id" gorm:"column:sender_id;uniqueIndex:uk_sender_client_msg;size:64"`
	Content        string `json:"content" gorm:"column:content;type:text"`
	AttachmentURL  string `json:"attachment_url" gorm:"column:attachment_url;size:1024"`
	SendAt         int64  `json:"send_at" gorm:"column:send_at"`
	CreatedAt      int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
}

// TableName returns the table name for Message
func (Message) TableName() string {
	return "messages"
}

// MessageInfo represents message info for API response
type MessageInfo struct {
	Id             int64  `json:"id"`
	ConversationId string `json:"conversation_id"`
	Seq            int64  `json:"seq"`
	ClientMsgId    string `json:"client_msg_id"`
	SenderId       string `json:"sender_id"`
	Content        string `json:"content"`
	AttachmentURL  string `json:"attachment_url,omitempty"`
	SendAt         int64  `json:"send_at"`
}

// ToMessageInfo converts Message to MessageInfo
func (m *Message) ToMessageInfo() *MessageInfo {
	return &MessageInfo{
		Id:             m.Id,
		ConversationId: m.ConversationId,
		Seq:            m.Seq,
		ClientMsgId:    m.ClientMsgId,
		SenderId:       m.SenderId,
		Content:        m.Content,
		AttachmentURL:  m.AttachmentURL,
		SendAt:         m.SendAt,
	}
}
