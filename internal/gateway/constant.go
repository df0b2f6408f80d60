package gateway

import "time"

// Request identifiers sent by clients
const (
	WSMarkRead       = 1001 // Advance the read cursor of a conversation
	WSGetUnreadCount = 1002 // Fetch the unread badge total
	WSGetConvStatus  = 1003 // Fetch open/closed status of a conversation
)

// Server-initiated identifiers
const (
	WSPush          = 2001 // Realtime push, see PushData
	WSKickOnlineMsg = 2002 // Connection is being closed by the server
)

// Default connection timings, used when config leaves them unset
const (
	WriteWait      = 10 * time.Second
	PongWait       = 30 * time.Second
	PingPeriod     = (PongWait * 9) / 10
	MaxMessageSize = 51200
)

// OnlineTTL bounds how long a user stays marked online without a refresh
const OnlineTTL = 60 * time.Second

// Query parameter keys
const (
	QueryToken = "token"
)
