package sdk

import (
	"errors"
	"fmt"
)

// Error represents an API error
type Error struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("code: %d, msg: %s", e.Code, e.Msg)
}

// Is matches API errors by code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// NewError creates a new error
func NewError(code int, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// IsSuccess checks if the error code indicates success
func (e *Error) IsSuccess() bool {
	return e.Code == CodeSuccess
}

// Error codes returned by the server
const (
	CodeSuccess = 0

	// Common errors (1xxx)
	CodeInvalidParam    = 1001
	CodeInternalServer  = 1002
	CodeUnauthorized    = 1003
	CodeForbidden       = 1004
	CodeNotFound        = 1005
	CodeTooManyRequests = 1006
	CodeNoPermission    = 1007

	// Auth errors (2xxx)
	CodeTokenInvalid  = 2001
	CodeTokenExpired  = 2002
	CodeTokenMissing  = 2003
	CodeTokenMismatch = 2004
	CodeLoginFailed   = 2005
	CodeUserNotFound  = 2006
	CodeUserExists    = 2007
	CodePasswordWrong = 2008

	// Planning errors (3xxx)
	CodeWeddingNotFound  = 3001
	CodeEventNotFound    = 3002
	CodeExpenseNotFound  = 3003
	CodeCategoryNotFound = 3004
	CodeWidgetNotFound   = 3005
	CodeWidgetOrder      = 3006
	CodeSlugInvalid      = 3007
	CodeSlugTaken        = 3008
	CodeWebsiteNotFound  = 3009

	// Messaging errors (4xxx)
	CodeMessageNotFound    = 4001
	CodeMessageDuplicate   = 4002
	CodeConvNotFound       = 4003
	CodeSendFailed         = 4005
	CodePullFailed         = 4006
	CodeConversationClosed = 4007
	CodeEmptyMessage       = 4008

	// WebSocket errors (5xxx)
	CodeConnOverLimit   = 5001
	CodeConnClosed      = 5002
	CodeInvalidProtocol = 5003

	// Vendor errors (6xxx)
	CodeVendorNotFound    = 6001
	CodeVendorDuplicate   = 6002
	CodeBookingNotFound   = 6003
	CodeBookingTransition = 6004
	CodeLeadNotFound      = 6005
	CodeUploadFailed      = 6008
)

// Predefined errors
var (
	ErrInvalidParam   = NewError(CodeInvalidParam, "invalid parameter")
	ErrInternalServer = NewError(CodeInternalServer, "internal server error")
	ErrUnauthorized   = NewError(CodeUnauthorized, "unauthorized")
	ErrForbidden      = NewError(CodeForbidden, "forbidden")
	ErrNotFound       = NewError(CodeNotFound, "not found")

	ErrTokenInvalid  = NewError(CodeTokenInvalid, "token invalid")
	ErrTokenExpired  = NewError(CodeTokenExpired, "token expired")
	ErrTokenMissing  = NewError(CodeTokenMissing, "token missing")
	ErrUserExists    = NewError(CodeUserExists, "user already exists")
	ErrPasswordWrong = NewError(CodePasswordWrong, "password wrong")

	ErrWidgetOrder = NewError(CodeWidgetOrder, "widget order does not match dashboard")
	ErrSlugTaken   = NewError(CodeSlugTaken, "website slug already taken")

	ErrConversationClosed = NewError(CodeConversationClosed, "conversation closed")
	ErrEmptyMessage       = NewError(CodeEmptyMessage, "message content empty")

	ErrVendorDuplicate   = NewError(CodeVendorDuplicate, "vendor already exists")
	ErrBookingTransition = NewError(CodeBookingTransition, "invalid booking status transition")
)

// ErrComposeDisabled is returned without contacting the server when the
// selected conversation is closed or nothing is selected.
var ErrComposeDisabled = errors.New("compose disabled: conversation closed or not selected")

// IsConversationClosed reports whether err is the server's closed
// conversation rejection.
func IsConversationClosed(err error) bool {
	return errors.Is(err, ErrConversationClosed)
}

// IsVendorDuplicate reports whether err is the duplicate vendor conflict
func IsVendorDuplicate(err error) bool {
	return errors.Is(err, ErrVendorDuplicate)
}
