package sdk

import (
	"github.com/viahme/viah/internal/entity"
	"github.com/viahme/viah/internal/finance"
	"github.com/viahme/viah/internal/inbox"
	"github.com/viahme/viah/internal/leads"
)

// Resources shared with the server
type (
	UserInfo           = entity.UserInfo
	Wedding            = entity.Wedding
	Event              = entity.Event
	WeddingWebsite     = entity.WeddingWebsite
	PublicSite         = entity.PublicSite
	BudgetCategory     = entity.BudgetCategory
	Expense            = entity.Expense
	DashboardWidget    = entity.DashboardWidget
	Vendor             = entity.Vendor
	PortfolioPhoto     = entity.PortfolioPhoto
	Booking            = entity.Booking
	Milestone          = entity.Milestone
	VendorLead         = entity.VendorLead
	Conversation       = entity.Conversation
	ConversationInfo   = entity.ConversationInfo
	ConversationStatus = entity.ConversationStatus
	MessageInfo        = entity.MessageInfo
	FinancialSummary   = finance.Summary
	LeadAnalytics      = leads.Analytics
	LeadBreakdown      = leads.Breakdown
	VendorGroup        = inbox.VendorGroup[*ConversationInfo]
)

// Contract is a booking contract with its decoded payment schedule
type Contract struct {
	Id                string      `json:"id"`
	BookingId         string      `json:"booking_id"`
	WeddingId         string      `json:"wedding_id"`
	VendorId          string      `json:"vendor_id"`
	TotalAmount       int64       `json:"total_amount"`
	Status            string      `json:"status"`
	PaymentMilestones []Milestone `json:"payment_milestones"`
	CreatedAt         int64       `json:"created_at"`
	UpdatedAt         int64       `json:"updated_at"`
}

// Lead is a created lead with its score breakdown
type Lead struct {
	VendorLead
	Breakdown LeadBreakdown `json:"breakdown"`
}

// ===== Request types =====

// RegisterRequest represents user registration request
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
	Avatar   string `json:"avatar,omitempty"`
}

// LoginRequest
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents user login response
type LoginResponse struct {
	Token    string    `json:"token"`
	UserInfo *UserInfo `json:"user_info"`
}

// UpdateUserRequest represents user update request
type UpdateUserRequest struct {
	Nickname *string `json:"nickname,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
}

// OnlineStatus
type OnlineStatus struct {
	UserId string `json:"user_id"`
	Online bool   `json:"online"`
}

// CreateWeddingRequest
type CreateWeddingRequest struct {
	Title       string `json:"title"`
	PartnerOne  string `json:"partner_one"`
	PartnerTwo  string `json:"partner_two"`
	WeddingDate int64  `json:"wedding_date"`
	City        string `json:"city"`
	TotalBudget int64  `json:"total_budget"`
	Currency    string `json:"currency"`
}

// UpdateWeddingRequest carries only the fields to change
type UpdateWeddingRequest struct {
	Title       *string `json:"title,omitempty"`
	PartnerOne  *string `json:"partner_one,omitempty"`
	PartnerTwo  *string `json:"partner_two,omitempty"`
	WeddingDate *int64  `json:"wedding_date,omitempty"`
	City        *string `json:"city,omitempty"`
	TotalBudget *int64  `json:"total_budget,omitempty"`
	Currency    *string `json:"currency,omitempty"`
}

// EventRequest
type EventRequest struct {
	Name       string `json:"name"`
	EventDate  int64  `json:"event_date"`
	Venue      string `json:"venue"`
	GuestCount int    `json:"guest_count"`
}

// WebsiteRequest
type WebsiteRequest struct {
	Slug      string `json:"slug"`
	Headline  string `json:"headline"`
	Story     string `json:"story"`
	Published bool   `json:"published"`
}

// CategoryRequest
type CategoryRequest struct {
	Name      string `json:"name"`
	Allocated int64  `json:"allocated"`
}

// ExpenseRequest
type ExpenseRequest struct {
	CategoryId    string `json:"category_id"`
	EventId       string `json:"event_id,omitempty"`
	VendorId      string `json:"vendor_id,omitempty"`
	Description   string `json:"description"`
	Amount        int64  `json:"amount"`
	AmountPaid    int64  `json:"amount_paid"`
	PaymentStatus string `json:"payment_status,omitempty"`
	ExpenseDate   *int64 `json:"expense_date,omitempty"`
}

// UpdateExpenseRequest carries only the fields to change
type UpdateExpenseRequest struct {
	CategoryId    *string `json:"category_id,omitempty"`
	Description   *string `json:"description,omitempty"`
	Amount        *int64  `json:"amount,omitempty"`
	AmountPaid    *int64  `json:"amount_paid,omitempty"`
	PaymentStatus *string `json:"payment_status,omitempty"`
	ExpenseDate   *int64  `json:"expense_date,omitempty"`
}

// CreateVendorRequest
type CreateVendorRequest struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	City          string `json:"city"`
	Description   string `json:"description"`
	StartingPrice int64  `json:"starting_price"`
}

// ListVendorsRequest filters the public vendor directory
type ListVendorsRequest struct {
	Category string
	City     string
	Limit    int
	Offset   int
}

// CreateBookingRequest
type CreateBookingRequest struct {
	WeddingId string `json:"wedding_id"`
	VendorId  string `json:"vendor_id"`
	EventId   string `json:"event_id,omitempty"`
	Amount    int64  `json:"amount"`
	Notes     string `json:"notes"`
}

// CreateContractRequest
type CreateContractRequest struct {
	BookingId   string      `json:"booking_id"`
	TotalAmount int64       `json:"total_amount"`
	Milestones  []Milestone `json:"payment_milestones"`
}

// CreateLeadRequest is the public lead form
type CreateLeadRequest struct {
	VendorId   string `json:"vendor_id"`
	WeddingId  string `json:"wedding_id,omitempty"`
	CoupleName string `json:"couple_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	EventDate  int64  `json:"event_date"`
	Budget     int64  `json:"budget"`
	GuestCount int    `json:"guest_count"`
	EventCount int    `json:"event_count"`
	Message    string `json:"message"`
	Source     string `json:"source,omitempty"`
}

// StartConversationRequest
type StartConversationRequest struct {
	WeddingId string `json:"wedding_id"`
	VendorId  string `json:"vendor_id"`
	EventId   string `json:"event_id,omitempty"`
}

// ReadState is a conversation's read cursor after mark read
type ReadState struct {
	ConversationId string `json:"conversation_id"`
	MaxSeq         int64  `json:"max_seq"`
	ReadSeq        int64  `json:"read_seq"`
	UnreadCount    int64  `json:"unread_count"`
}

// SendMessageRequest represents send message request
type SendMessageRequest struct {
	ConversationId string `json:"conversation_id"`
	ClientMsgId    string `json:"client_msg_id"`
	Content        string `json:"content"`
	AttachmentURL  string `json:"attachment_url,omitempty"`
}

// PullMessagesRequest represents pull messages request
type PullMessagesRequest struct {
	ConversationId string
	BeginSeq       int64
	EndSeq         int64
	Limit          int
}

// PullMessagesResponse represents pull messages response
type PullMessagesResponse struct {
	Messages []*MessageInfo `json:"messages"`
	MaxSeq   int64          `json:"max_seq"`
}

// UnreadCountResponse is the caller's unread badge total
type UnreadCountResponse struct {
	Total int64 `json:"total"`
}

// CalendarAuthURL is the provider consent URL
type CalendarAuthURL struct {
	Provider  string `json:"provider"`
	URL       string `json:"url"`
	State     string `json:"state"`
	ExpiresAt int64  `json:"expires_at"`
}
