package gateway

import "encoding/json"

// WSRequest is a client frame
type WSRequest struct {
	ReqIdentifier int32           `json:"req_identifier"`
	MsgIncr       string          `json:"msg_incr"` // Client counter, echoed back
	Data          json.RawMessage `json:"data,omitempty"`
}

// WSResponse is a server frame. Replies echo ReqIdentifier and MsgIncr;
// pushes carry WSPush and an empty MsgIncr.
type WSResponse struct {
	ReqIdentifier int32           `json:"req_identifier"`
	MsgIncr       string          `json:"msg_incr,omitempty"`
	ErrCode       int             `json:"err_code"` // 0 = success
	ErrMsg        string          `json:"err_msg,omitempty"`
	Data          json.RawMessage `json:"data,omitempty"`
}

// PushData is the payload of a WSPush frame
type PushData struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// MarkReadReq advances the caller's read cursor
type MarkReadReq struct {
	ConversationId string `json:"conversation_id"`
	ReadSeq        int64  `json:"read_seq"`
}

// ConvStatusReq asks for a conversation's status
type ConvStatusReq struct {
	ConversationId string `json:"conversation_id"`
}

// pushEnvelope travels over the cross-instance redis channel
type pushEnvelope struct {
	Type    string          `json:"type"`
	UserIds []string        `json:"user_ids"`
	Data    json.RawMessage `json:"data"`
}

// revokeData is the payload of a PushSessionRevoked task
type revokeData struct {
	Token string `json:"token,omitempty"`
}
