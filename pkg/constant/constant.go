package constant

// User roles
const (
	RoleCouple = "couple"
	RoleVendor = "vendor"
)

// Conversation status
const (
	ConversationStatusOpen   = "open"
	ConversationStatusClosed = "closed"
)

// Expense payment status
const (
	PaymentStatusPending = "pending"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

// Booking status
const (
	BookingStatusInquiry   = "inquiry"
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusDeclined  = "declined"
	BookingStatusCancelled = "cancelled"
)

// Vendor lead status
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQualified = "qualified"
	LeadStatusProposal  = "proposal"
	LeadStatusWon       = "won"
	LeadStatusLost      = "lost"
)

// Dashboard widget types, in default display order
const (
	WidgetBudgetOverview   = "budget_overview"
	WidgetBudgetAlerts     = "budget_alerts"
	WidgetSpendingTrend    = "spending_trend"
	WidgetUpcomingPayments = "upcoming_payments"
	WidgetEventCountdown   = "event_countdown"
	WidgetVendorBookings   = "vendor_bookings"
)

// DefaultWidgets are seeded for every new wedding
var DefaultWidgets = []string{
	WidgetBudgetOverview,
	WidgetBudgetAlerts,
	WidgetSpendingTrend,
	WidgetUpcomingPayments,
	WidgetEventCountdown,
	WidgetVendorBookings,
}

// Calendar providers
const (
	CalendarGoogle  = "google"
	CalendarOutlook = "outlook"
)

// Conversation Id prefix
const ConversationPrefix = "cv_"

// Domain event names
const (
	EventMessageSent          = "message.sent"
	EventConversationClosed   = "conversation.closed"
	EventBookingStatusChanged = "booking.status_changed"
	EventLeadCreated          = "lead.created"
)

// Realtime push types delivered over the websocket gateway
const (
	PushMessageNew         = "message.new"
	PushConversationClosed = "conversation.closed"
	PushUnreadChanged      = "unread.changed"
	PushSessionRevoked     = "session.revoked" // closes the sockets opened with a token
)

// Redis key patterns (without prefix, use RedisKey() to get full key)
const (
	redisKeyToken           = "token:%s"        // token:{user_id}
	redisKeyOnline          = "online:%s"       // online:{user_id}
	redisKeySeqConversation = "seq:conv:%s"     // seq:conv:{conversation_id}
	redisKeyUnreadBadge     = "badge:unread:%s" // badge:unread:{user_id}
	redisKeyOAuthState      = "oauth:state:%s"  // oauth:state:{state}
	redisChannelPush        = "push"            // cross-instance push channel
)

// redisKeyPrefix is the global prefix for all Redis keys
var redisKeyPrefix = "viah:"

// InitRedisKeyPrefix initializes the Redis key prefix from config
func InitRedisKeyPrefix(prefix string) {
	if prefix != "" {
		redisKeyPrefix = prefix
	}
}

// GetRedisKeyPrefix returns the current Redis key prefix
func GetRedisKeyPrefix() string {
	return redisKeyPrefix
}

// Redis key getters with prefix
func RedisKeyToken() string           { return redisKeyPrefix + redisKeyToken }
func RedisKeyOnline() string          { return redisKeyPrefix + redisKeyOnline }
func RedisKeySeqConversation() string { return redisKeyPrefix + redisKeySeqConversation }
func RedisKeyUnreadBadge() string     { return redisKeyPrefix + redisKeyUnreadBadge }
func RedisKeyOAuthState() string      { return redisKeyPrefix + redisKeyOAuthState }
func RedisChannelPush() string        { return redisKeyPrefix + redisChannelPush }
