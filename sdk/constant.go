package sdk

import (
	"time"

	"github.com/viahme/viah/pkg/constant"
)

// User roles
const (
	RoleCouple = constant.RoleCouple
	RoleVendor = constant.RoleVendor
)

// Conversation status
const (
	ConversationStatusOpen   = constant.ConversationStatusOpen
	ConversationStatusClosed = constant.ConversationStatusClosed
)

// Booking status
const (
	BookingStatusInquiry   = constant.BookingStatusInquiry
	BookingStatusPending   = constant.BookingStatusPending
	BookingStatusConfirmed = constant.BookingStatusConfirmed
	BookingStatusDeclined  = constant.BookingStatusDeclined
	BookingStatusCancelled = constant.BookingStatusCancelled
)

// Lead status
const (
	LeadStatusNew       = constant.LeadStatusNew
	LeadStatusContacted = constant.LeadStatusContacted
	LeadStatusQualified = constant.LeadStatusQualified
	LeadStatusProposal  = constant.LeadStatusProposal
	LeadStatusWon       = constant.LeadStatusWon
	LeadStatusLost      = constant.LeadStatusLost
)

// Calendar providers
const (
	CalendarGoogle  = constant.CalendarGoogle
	CalendarOutlook = constant.CalendarOutlook
)

// Push types delivered over the realtime connection
const (
	PushMessageNew         = constant.PushMessageNew
	PushConversationClosed = constant.PushConversationClosed
	PushUnreadChanged      = constant.PushUnreadChanged
)

// WebSocket request identifiers
const (
	WSMarkRead       = 1001
	WSGetUnreadCount = 1002
	WSGetConvStatus  = 1003
	WSPush           = 2001
	WSKickOnlineMsg  = 2002
)

// UnreadPollInterval is how often the unread badge is refetched when no
// realtime connection is open.
const UnreadPollInterval = 30 * time.Second
