package sdk

import (
	"context"
	"net/url"
)

// StartConversation opens, or returns the existing, conversation for a
// wedding, vendor and optional event
func (c *Client) StartConversation(ctx context.Context, req *StartConversationRequest) (*Conversation, error) {
	var result Conversation
	if err := c.post(ctx, "/conversations", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListConversations lists the current user's conversations. An empty
// weddingId lists across weddings.
func (c *Client) ListConversations(ctx context.Context, weddingId string) ([]*ConversationInfo, error) {
	var query url.Values
	if weddingId != "" {
		query = url.Values{"wedding_id": []string{weddingId}}
	}
	var result []*ConversationInfo
	if err := c.get(ctx, "/conversations", query, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ListConversationGroups returns a wedding's conversations grouped by vendor
func (c *Client) ListConversationGroups(ctx context.Context, weddingId string) ([]*VendorGroup, error) {
	var result []*VendorGroup
	if err := c.get(ctx, "/conversations/wedding/"+weddingId+"/groups", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetConversationStatus gets a conversation's open or closed status
func (c *Client) GetConversationStatus(ctx context.Context, conversationId string) (*ConversationStatus, error) {
	var result ConversationStatus
	if err := c.get(ctx, "/conversations/"+conversationId+"/status", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CloseConversation closes a conversation with an optional reason
func (c *Client) CloseConversation(ctx context.Context, conversationId, reason string) (*ConversationStatus, error) {
	var result ConversationStatus
	body := map[string]string{"reason": reason}
	if err := c.post(ctx, "/conversations/"+conversationId+"/close", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MarkRead advances the read cursor of a conversation
func (c *Client) MarkRead(ctx context.Context, conversationId string, readSeq int64) (*ReadState, error) {
	var result ReadState
	body := map[string]int64{"read_seq": readSeq}
	if err := c.post(ctx, "/conversations/"+conversationId+"/read", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetUnreadCount returns the current user's unread badge total
func (c *Client) GetUnreadCount(ctx context.Context) (int64, error) {
	var result UnreadCountResponse
	if err := c.get(ctx, "/notifications/unread-count", nil, &result); err != nil {
		return 0, err
	}
	return result.Total, nil
}
