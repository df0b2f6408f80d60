package errcode

import (
	"errors"
	"fmt"
)

// Error represents a business error
type Error struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("errcode: %d, msg: %s", e.Code, e.Msg)
}

// New creates a new error with code and message
func New(code int, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// Wrap wraps an error with additional context
func (e *Error) Wrap(err error) *Error {
	if err == nil {
		return e
	}
	return &Error{
		Code: e.Code,
		Msg:  fmt.Sprintf("%s: %v", e.Msg, err),
	}
}

// Is reports whether target carries the same code, so wrapped copies still match.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// As extracts a business error from err, if any
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Common error codes
var (
	// Success
	ErrSuccess = New(0, "success")

	// Common errors (1xxx)
	ErrInvalidParam    = New(1001, "invalid parameter")
	ErrInternalServer  = New(1002, "internal server error")
	ErrUnauthorized    = New(1003, "unauthorized")
	ErrForbidden       = New(1004, "forbidden")
	ErrNotFound        = New(1005, "not found")
	ErrTooManyRequests = New(1006, "too many requests")
	ErrNoPermission    = New(1007, "no permission to access this resource")

	// Auth errors (2xxx)
	ErrTokenInvalid  = New(2001, "token invalid")
	ErrTokenExpired  = New(2002, "token expired")
	ErrTokenMissing  = New(2003, "token missing")
	ErrTokenMismatch = New(2004, "token user mismatch")
	ErrLoginFailed   = New(2005, "login failed")
	ErrUserNotFound  = New(2006, "user not found")
	ErrUserExists    = New(2007, "user already exists")
	ErrPasswordWrong = New(2008, "password wrong")

	// Planning errors (3xxx)
	ErrWeddingNotFound   = New(3001, "wedding not found")
	ErrEventNotFound     = New(3002, "event not found")
	ErrExpenseNotFound   = New(3003, "expense not found")
	ErrCategoryNotFound  = New(3004, "budget category not found")
	ErrWidgetNotFound    = New(3005, "widget not found")
	ErrWidgetOrder       = New(3006, "widget order does not match dashboard")
	ErrSlugInvalid       = New(3007, "website slug invalid")
	ErrSlugTaken         = New(3008, "website slug already taken")
	ErrWebsiteNotFound   = New(3009, "website not found")
	ErrInvalidAmount     = New(3010, "amount must not be negative")
	ErrInvalidPayStatus  = New(3011, "invalid payment status")
	ErrCalendarProvider  = New(3012, "unsupported calendar provider")
	ErrCalendarNotConfig = New(3013, "calendar provider not configured")

	// Message errors (4xxx)
	ErrMessageNotFound    = New(4001, "message not found")
	ErrMessageDuplicate   = New(4002, "duplicate message")
	ErrConvNotFound       = New(4003, "conversation not found")
	ErrSeqAllocFailed     = New(4004, "seq allocation failed")
	ErrSendFailed         = New(4005, "message send failed")
	ErrPullFailed         = New(4006, "message pull failed")
	ErrConversationClosed = New(4007, "conversation closed")
	ErrEmptyMessage       = New(4008, "message content empty")

	// WebSocket errors (5xxx)
	ErrConnOverLimit   = New(5001, "connection over max limit")
	ErrConnClosed      = New(5002, "connection closed")
	ErrInvalidProtocol = New(5003, "invalid protocol")
	ErrPushFailed      = New(5004, "push message failed")

	// Vendor errors (6xxx)
	ErrVendorNotFound    = New(6001, "vendor not found")
	ErrVendorDuplicate   = New(6002, "vendor already exists")
	ErrBookingNotFound   = New(6003, "booking not found")
	ErrBookingTransition = New(6004, "invalid booking status transition")
	ErrLeadNotFound      = New(6005, "lead not found")
	ErrLeadStatus        = New(6006, "invalid lead status")
	ErrPhotoNotFound     = New(6007, "photo not found")
	ErrUploadFailed      = New(6008, "upload failed")
	ErrContractNotFound  = New(6009, "contract not found")
)
