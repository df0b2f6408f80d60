package sdk

import (
	"context"
	"net/url"
	"strconv"

	"github.com/google/uuid"
)

// SendMessage sends a message. A missing ClientMsgId is generated so retries
// of the same request stay idempotent.
func (c *Client) SendMessage(ctx context.Context, req *SendMessageRequest) (*MessageInfo, error) {
	if req.ClientMsgId == "" {
		req.ClientMsgId = uuid.New().String()
	}
	var result MessageInfo
	if err := c.post(ctx, "/messages", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SendText is a convenience method to send a plain text message
func (c *Client) SendText(ctx context.Context, conversationId, text string) (*MessageInfo, error) {
	return c.SendMessage(ctx, &SendMessageRequest{
		ConversationId: conversationId,
		Content:        text,
	})
}

// PullMessages pulls a seq range of a conversation
func (c *Client) PullMessages(ctx context.Context, req *PullMessagesRequest) (*PullMessagesResponse, error) {
	query := url.Values{}
	query.Set("conversation_id", req.ConversationId)
	if req.BeginSeq > 0 {
		query.Set("begin_seq", strconv.FormatInt(req.BeginSeq, 10))
	}
	if req.EndSeq > 0 {
		query.Set("end_seq", strconv.FormatInt(req.EndSeq, 10))
	}
	if req.Limit > 0 {
		query.Set("limit", strconv.Itoa(req.Limit))
	}

	var result PullMessagesResponse
	if err := c.get(ctx, "/messages", query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
