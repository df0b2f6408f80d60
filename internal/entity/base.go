package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/viahme/viah/pkg/constant"
)

// NowUnixMilli returns current unix timestamp in milliseconds
func NowUnixMilli() int64 {
	return time.Now().UnixMilli()
}

// GenConversationId generates the conversation Id for a wedding/vendor thread,
// optionally scoped to one event.
// Format: cv_{weddingId}:{vendorId}[:{eventId}]
func GenConversationId(weddingId, vendorId, eventId string) string {
	if eventId == "" {
		return fmt.Sprintf("%s%s:%s", constant.ConversationPrefix, weddingId, vendorId)
	}
	return fmt.Sprintf("%s%s:%s:%s", constant.ConversationPrefix, weddingId, vendorId, eventId)
}

// ParseConversationId splits a conversation Id back into its parts
func ParseConversationId(conversationId string) (weddingId, vendorId, eventId string, ok bool) {
	if !strings.HasPrefix(conversationId, constant.ConversationPrefix) {
		return "", "", "", false
	}
	parts := strings.Split(strings.TrimPrefix(conversationId, constant.ConversationPrefix), ":")
	switch len(parts) {
	case 2:
		weddingId, vendorId = parts[0], parts[1]
	case 3:
		weddingId, vendorId, eventId = parts[0], parts[1], parts[2]
	default:
		return "", "", "", false
	}
	if weddingId == "" || vendorId == "" {
		return "", "", "", false
	}
	return weddingId, vendorId, eventId, true
}

// MonthKey formats a millisecond timestamp as YYYY-MM in UTC
func MonthKey(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01")
}
